package youtube

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/sirupsen/logrus"

	httpclient "github.com/handiism/youtube-player/internal/http"
	"github.com/handiism/youtube-player/internal/model"
)

// videoIDPattern is the grammar of a video identifier.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// qualityPattern finds the height in labels such as "720p60" or "hd1080".
var qualityPattern = regexp.MustCompile(`(\d+)`)

// videoSource is the part of *youtube.Client this package uses.
type videoSource interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamURLContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error)
	GetTranscriptCtx(ctx context.Context, video *youtube.Video, lang string) (youtube.VideoTranscript, error)
}

var _ videoSource = (*youtube.Client)(nil)

// Client resolves videos, streams and captions from YouTube.
//
// Discovery (video metadata, formats, caption tracks, stream URL
// deciphering) goes through github.com/kkdai/youtube; stream bytes, caption
// bodies and thumbnails go through the shared HTTP client.
//
// Every error returned by Client wraps one of the model error kinds:
//
//	set, err := client.ResolveStreams(ctx, id)
//	if errors.Is(err, model.ErrNotFound) {
//	    // private, removed or region-locked
//	}
type Client struct {
	videos videoSource
	http   *httpclient.Client
	log    *logrus.Entry
}

// NewClient creates a Client that shares hc's transport with the YouTube
// library.
func NewClient(hc *httpclient.Client, log *logrus.Entry) *Client {
	return &Client{
		videos: &youtube.Client{HTTPClient: hc.HTTPClient()},
		http:   hc,
		log:    log,
	}
}

// ExtractID validates a user-supplied URL or bare identifier and returns the
// video identifier it names.
//
// Accepted forms include https://www.youtube.com/watch?v=ID,
// https://youtu.be/ID, embed and shorts URLs, and the bare 11-character ID.
// Anything else fails with model.ErrInvalidIdentifier.
func (c *Client) ExtractID(url string) (model.Identifier, error) {
	id, err := youtube.ExtractVideoID(strings.TrimSpace(url))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", model.ErrInvalidIdentifier, url, err)
	}
	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidIdentifier, url)
	}
	return model.Identifier(id), nil
}

// ResolveMetadata returns the title and other metadata of a video.
func (c *Client) ResolveMetadata(ctx context.Context, id model.Identifier) (*model.Video, error) {
	video, err := c.videos.GetVideoContext(ctx, string(id))
	if err != nil {
		return nil, classify(err)
	}

	meta := &model.Video{
		ID:       id,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
	}
	if len(video.Thumbnails) > 0 {
		best := video.Thumbnails[0]
		for _, thumb := range video.Thumbnails[1:] {
			if thumb.Width*thumb.Height > best.Width*best.Height {
				best = thumb
			}
		}
		meta.ThumbnailURL = best.URL
	}

	return meta, nil
}

// ResolveStreams returns every stream of a video with a usable URL.
//
// Streams whose URL cannot be deciphered are skipped and logged; the
// remaining set may therefore be empty without an error.
func (c *Client) ResolveStreams(ctx context.Context, id model.Identifier) (model.StreamSet, error) {
	video, err := c.videos.GetVideoContext(ctx, string(id))
	if err != nil {
		return nil, classify(err)
	}

	set := make(model.StreamSet, 0, len(video.Formats))
	for i := range video.Formats {
		format := &video.Formats[i]

		url, err := c.videos.GetStreamURLContext(ctx, video, format)
		if err != nil {
			if ctx.Err() != nil {
				return nil, classify(ctx.Err())
			}
			c.log.WithError(err).WithFields(logrus.Fields{
				"video_id": id,
				"itag":     format.ItagNo,
			}).Warn("Skipping stream without usable URL")
			continue
		}

		set = append(set, toDescriptor(id, format, url))
	}

	c.log.WithFields(logrus.Fields{
		"video_id": id,
		"streams":  len(set),
	}).Debug("Resolved streams")

	return set, nil
}

// ResolveCaptionDescriptors lists the caption tracks of a video in the order
// the service returns them.
func (c *Client) ResolveCaptionDescriptors(ctx context.Context, id model.Identifier) ([]model.CaptionTrackDescriptor, error) {
	video, err := c.videos.GetVideoContext(ctx, string(id))
	if err != nil {
		return nil, classify(err)
	}

	descriptors := make([]model.CaptionTrackDescriptor, 0, len(video.CaptionTracks))
	for _, track := range video.CaptionTracks {
		descriptors = append(descriptors, model.CaptionTrackDescriptor{
			VideoID:       id,
			LanguageCode:  track.LanguageCode,
			Name:          track.Name.SimpleText,
			URL:           track.BaseURL,
			AutoGenerated: track.Kind == "asr",
		})
	}

	return descriptors, nil
}

// FetchCaptionTrack fetches the cues of one caption track.
//
// Cues come from the service's transcript endpoint in the descriptor's
// language. When it has no transcript for the video, the timed-text body at
// descriptor.URL is parsed instead.
func (c *Client) FetchCaptionTrack(ctx context.Context, descriptor model.CaptionTrackDescriptor) (*model.CaptionTrack, error) {
	video := &youtube.Video{ID: string(descriptor.VideoID)}
	transcript, err := c.videos.GetTranscriptCtx(ctx, video, descriptor.LanguageCode)
	if err == nil {
		return &model.CaptionTrack{Descriptor: descriptor, Cues: transcriptCues(transcript)}, nil
	}
	if ctx.Err() != nil || descriptor.URL == "" {
		return nil, fmt.Errorf("captions %s for %s: %w", descriptor.LanguageCode, descriptor.VideoID, classify(err))
	}

	c.log.WithError(err).WithFields(logrus.Fields{
		"video_id": descriptor.VideoID,
		"language": descriptor.LanguageCode,
	}).Debug("Transcript unavailable, reading timed text")

	return c.fetchTimedText(ctx, descriptor)
}

func (c *Client) fetchTimedText(ctx context.Context, descriptor model.CaptionTrackDescriptor) (*model.CaptionTrack, error) {
	body, err := c.http.GetString(ctx, descriptor.URL)
	if err != nil {
		return nil, classify(err)
	}

	cues, err := ParseTimedText(body)
	if err != nil {
		return nil, fmt.Errorf("captions %s for %s: %w", descriptor.LanguageCode, descriptor.VideoID, err)
	}

	return &model.CaptionTrack{Descriptor: descriptor, Cues: cues}, nil
}

// transcriptCues converts transcript segments to cues, dropping empty ones.
func transcriptCues(transcript youtube.VideoTranscript) []model.Cue {
	cues := make([]model.Cue, 0, len(transcript))
	for _, seg := range transcript {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		cues = append(cues, model.Cue{
			Offset:   time.Duration(seg.StartMs) * time.Millisecond,
			Duration: time.Duration(seg.Duration) * time.Millisecond,
			Text:     text,
		})
	}
	return cues
}

// FetchThumbnail downloads a thumbnail image.
func (c *Client) FetchThumbnail(ctx context.Context, url string) ([]byte, error) {
	data, err := c.http.DownloadBytes(ctx, url)
	if err != nil {
		return nil, classify(err)
	}
	return data, nil
}

// Transfer streams the bytes of stream into w, reporting the running byte
// count after each copied block and stopping at the next block boundary
// once ctx is cancelled.
//
// When the stream's size was not advertised it is looked up first; if that
// fails too the stream is fetched in one request and total is reported as 0.
func (c *Client) Transfer(ctx context.Context, stream model.StreamDescriptor, w io.Writer, onProgress func(written, total int64)) (int64, error) {
	size := stream.Size
	if size <= 0 {
		if n, err := c.http.GetFileSize(ctx, stream.URL); err == nil {
			size = n
		}
	}

	n, err := c.http.Transfer(ctx, stream.URL, size, w, onProgress)
	if err != nil {
		return n, classify(err)
	}
	return n, nil
}

// toDescriptor converts a library format into a model stream descriptor.
func toDescriptor(id model.Identifier, f *youtube.Format, url string) model.StreamDescriptor {
	hasVideo := strings.HasPrefix(f.MimeType, "video/")
	hasAudio := strings.HasPrefix(f.MimeType, "audio/") || f.AudioChannels > 0 || f.AudioQuality != ""

	quality := f.Height
	if quality == 0 && hasVideo {
		quality = parseQuality(f.QualityLabel)
	}

	return model.StreamDescriptor{
		VideoID:      id,
		Itag:         f.ItagNo,
		Container:    model.ParseContainer(f.MimeType),
		Quality:      quality,
		QualityLabel: f.QualityLabel,
		Muxed:        hasVideo && hasAudio,
		HasVideo:     hasVideo,
		HasAudio:     hasAudio,
		Bitrate:      f.Bitrate,
		Size:         f.ContentLength,
		URL:          url,
	}
}

// parseQuality extracts numeric quality from a label (e.g., "720p60" -> 720).
func parseQuality(label string) int {
	matches := qualityPattern.FindStringSubmatch(label)
	if len(matches) > 1 {
		if q, err := strconv.Atoi(matches[1]); err == nil {
			return q
		}
	}
	return 0
}
