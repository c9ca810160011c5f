package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultChunkSize is the size of each ranged request made by Transfer.
// The video service throttles plain requests for larger ranges.
const DefaultChunkSize int64 = 10 * 1024 * 1024

// ErrShortTransfer is returned by Transfer when the server delivered fewer
// or more bytes than the known size.
var ErrShortTransfer = errors.New("transfer size mismatch")

// copyBufferSize is the granularity at which Transfer writes, reports
// progress and checks for cancellation.
const copyBufferSize = 64 * 1024

// Client wraps HTTP operations with the configuration the video service
// expects.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - Chunked, ranged stream transfer with progress tracking
//   - Small downloads held in memory (caption bodies, thumbnails)
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch a caption body
//	xml, err := client.GetString(ctx, track.URL)
//
//	// Stream a video to a file with progress
//	n, err := client.Transfer(ctx, stream.URL, stream.Size, file, func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	chunkSize  int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Transfer issues one request per
// chunk, so the timeout bounds a chunk rather than a whole download.
//
// The timeout also applies to a client given with WithHTTPClient, whatever
// the order of the options.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithChunkSize sets the size of each ranged request made by Transfer.
func WithChunkSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to share its
// transport with another library.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 60 second timeout per request
//   - 10 MiB transfer chunks
//   - "youtube-player" User-Agent header
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: "youtube-player",
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}
	return c
}

// HTTPClient returns the underlying *http.Client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// ProgressWriter wraps a writer to track transfer progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes, or 0 if unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil && n > 0 {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, url, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like thumbnails. For video streams use Transfer.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	resp, err := c.do(ctx, http.MethodHead, url, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// Transfer streams the resource at url into w and returns the number of
// bytes written.
//
// When size is known the resource is fetched in ranged requests of the
// configured chunk size; otherwise a single request is made. Bytes are copied
// in small blocks: after each block onProgress (if not nil) receives the
// running total, and ctx is checked. Cancellation is therefore observed at
// block boundaries and surfaces as ctx.Err().
//
// Example:
//
//	n, err := client.Transfer(ctx, stream.URL, stream.Size, file, func(written, total int64) {
//	    if total > 0 {
//	        fmt.Printf("%.1f%%\r", float64(written)/float64(total)*100)
//	    }
//	})
func (c *Client) Transfer(ctx context.Context, url string, size int64, w io.Writer, onProgress func(written, total int64)) (int64, error) {
	pw := &ProgressWriter{Writer: w, Total: size, OnUpdate: onProgress}

	if size <= 0 {
		_, err := c.copyRange(ctx, url, -1, -1, pw)
		return pw.Written, err
	}

	for start := int64(0); start < size; start = pw.Written {
		if err := ctx.Err(); err != nil {
			return pw.Written, err
		}
		end := min(start+c.chunkSize, size) - 1
		whole, err := c.copyRange(ctx, url, start, end, pw)
		if err != nil {
			return pw.Written, err
		}
		if whole {
			// the server ignored the range and sent everything
			break
		}
		if pw.Written != end+1 {
			return pw.Written, fmt.Errorf("%w: got bytes up to %d, want %d", ErrShortTransfer, pw.Written, end+1)
		}
	}

	if pw.Written != size {
		return pw.Written, fmt.Errorf("%w: got %d of %d bytes", ErrShortTransfer, pw.Written, size)
	}
	return pw.Written, nil
}

// copyRange copies bytes start..end (inclusive) into pw. A negative start
// requests the whole resource. whole reports that the server answered with
// the entire resource instead of the range.
func (c *Client) copyRange(ctx context.Context, url string, start, end int64, pw *ProgressWriter) (whole bool, err error) {
	var rangeHeader string
	if start >= 0 {
		rangeHeader = fmt.Sprintf("bytes=%d-%d", start, end)
	}

	resp, err := c.do(ctx, http.MethodGet, url, rangeHeader)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPartialContent && start >= 0:
	case resp.StatusCode == http.StatusOK && start <= 0:
		whole = start == 0
	default:
		return false, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return whole, copyWithContext(ctx, pw, resp.Body)
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, copyBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

func (c *Client) do(ctx context.Context, method, url, rangeHeader string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	return c.httpClient.Do(req)
}

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}
