// Package http provides the HTTP transport used for video streams, caption
// bodies and thumbnails.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Ranged, chunked stream transfer with progress tracking
//   - Cooperative cancellation between copied blocks
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(http.WithChunkSize(4 << 20))
//
//	// Fetch a caption body
//	body, err := client.GetString(ctx, captionURL)
//
//	// Transfer a stream with progress callback
//	client.Transfer(ctx, stream.URL, stream.Size, file, func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
