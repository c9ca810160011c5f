package download

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/youtube-player/internal/config"
	ioutils "github.com/handiism/youtube-player/internal/io"
	"github.com/handiism/youtube-player/internal/logging"
	"github.com/handiism/youtube-player/internal/model"
)

// Source is the remote service a Controller downloads from.
type Source interface {
	ResolveMetadata(ctx context.Context, id model.Identifier) (*model.Video, error)
	ResolveStreams(ctx context.Context, id model.Identifier) (model.StreamSet, error)
	Transfer(ctx context.Context, stream model.StreamDescriptor, w io.Writer, onProgress func(written, total int64)) (int64, error)
	FetchThumbnail(ctx context.Context, url string) ([]byte, error)
}

// Request describes one download.
type Request struct {
	// DestinationFolder is created if missing. Empty means the working
	// directory.
	DestinationFolder string

	// ID is the video to save. Empty means the last video played.
	ID model.Identifier

	// Progress, if set, receives the fraction of bytes written so far.
	Progress func(fraction float64)
}

// Controller saves videos to disk.
type Controller struct {
	source       Source
	lastID       *model.LastID
	settings     *config.Settings
	imageService *ioutils.ImageService
	log          *logrus.Entry
}

// NewController creates a download Controller.
func NewController(source Source, lastID *model.LastID, settings *config.Settings, log *logrus.Entry) *Controller {
	return &Controller{
		source:       source,
		lastID:       lastID,
		settings:     settings,
		imageService: ioutils.NewImageService(),
		log:          log,
	}
}

// Download saves the best muxed stream of a video and returns the path of
// the created file.
//
// Download blocks until the file is complete. Cancelling ctx stops it
// before the file is created or at the next copied block; no partial file
// is left behind.
//
// Any failure is logged and reported only as an empty path.
func (c *Controller) Download(ctx context.Context, req Request) string {
	log := logging.Operation(c.log)

	filePath, err := c.download(ctx, req, log)
	if err != nil {
		log.WithError(err).Error("Download failed")
		return ""
	}
	return filePath
}

func (c *Controller) download(ctx context.Context, req Request, log *logrus.Entry) (string, error) {
	id, err := c.lastID.Resolve(req.ID)
	if err != nil {
		return "", err
	}
	log = log.WithField("video_id", id)

	var (
		video   *model.Video
		streams model.StreamSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		video, err = c.source.ResolveMetadata(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		streams, err = c.source.ResolveStreams(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrCancelled, err)
	}

	stream, err := streams.BestMuxed()
	if err != nil {
		return "", fmt.Errorf("video %s: %w", id, err)
	}

	filePath, err := outputPath(req.DestinationFolder, video, stream)
	if err != nil {
		return "", err
	}

	log.WithFields(logrus.Fields{
		"itag": stream.Itag,
		"path": filePath,
	}).Info("Downloading video")

	progress := newProgress(req.Progress)
	start := time.Now()
	var written int64

	err = ioutils.CreateScoped(filePath, func(f *os.File) error {
		var err error
		written, err = c.source.Transfer(ctx, stream, f, progress.update)
		return err
	})
	if err != nil {
		return "", err
	}
	progress.finish()

	log.WithFields(logrus.Fields{
		"bytes":    written,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("Downloaded video")

	if c.settings.SaveThumbnail && video.ThumbnailURL != "" {
		c.saveThumbnail(ctx, video, filePath, log)
	}

	return filePath, nil
}

// outputPath derives the file path from the video title and the stream's
// container, creating folder if needed.
func outputPath(folder string, video *model.Video, stream model.StreamDescriptor) (string, error) {
	title := video.Title
	if strings.TrimSpace(title) == "" {
		title = string(video.ID)
	}
	name := ioutils.SanitizeFileName(title + "." + stream.Container.Extension())

	if folder == "" {
		return name, nil
	}
	if err := ioutils.EnsureDir(folder); err != nil {
		return "", fmt.Errorf("creating %s: %w", folder, err)
	}
	return filepath.Join(folder, name), nil
}

// saveThumbnail stores the video's thumbnail beside filePath. Failures are
// only warnings.
func (c *Controller) saveThumbnail(ctx context.Context, video *model.Video, filePath string, log *logrus.Entry) {
	var (
		data []byte
		err  error
	)
	for tries := 0; tries < max(c.settings.DownloadMaxRetries, 1); tries++ {
		data, err = c.source.FetchThumbnail(ctx, video.ThumbnailURL)
		if err == nil || ctx.Err() != nil {
			break
		}
		log.WithError(err).Warnf("Retry %d/%d for thumbnail", tries+1, c.settings.DownloadMaxRetries)
		c.waitForRetry(ctx, tries)
	}
	if err != nil {
		log.WithError(err).Warn("Could not download thumbnail")
		return
	}

	ext := thumbnailExtension(video.ThumbnailURL)
	switch {
	case c.settings.ThumbnailResize:
		data, err = c.imageService.Thumbnail(ctx, data, c.settings.ThumbnailMaxSize)
		ext = ".jpg"
	case c.settings.ConvertThumbnailToJPG:
		data, err = c.imageService.ConvertToJPEG(ctx, data)
		ext = ".jpg"
	}
	if err != nil {
		log.WithError(err).Warn("Could not process thumbnail")
		return
	}

	thumbPath := strings.TrimSuffix(filePath, filepath.Ext(filePath)) + ext
	if err := ioutils.WriteFile(ctx, thumbPath, data); err != nil {
		log.WithError(err).Warn("Could not save thumbnail")
		return
	}

	log.WithField("path", thumbPath).Debug("Saved thumbnail")
}

func (c *Controller) waitForRetry(ctx context.Context, tries int) {
	select {
	case <-ctx.Done():
	case <-time.After(c.settings.RetryDelay(tries)):
	}
}

func thumbnailExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
