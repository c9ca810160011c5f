package captions

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/handiism/youtube-player/internal/logging"
	"github.com/handiism/youtube-player/internal/model"
)

// DefaultLanguage is the caption language preferred when none is configured.
const DefaultLanguage = "en"

// Source lists and fetches caption tracks.
type Source interface {
	ResolveCaptionDescriptors(ctx context.Context, id model.Identifier) ([]model.CaptionTrackDescriptor, error)
	FetchCaptionTrack(ctx context.Context, descriptor model.CaptionTrackDescriptor) (*model.CaptionTrack, error)
}

// Fetcher fetches the caption track of a video in the preferred language.
type Fetcher struct {
	source   Source
	lastID   *model.LastID
	language string
	log      *logrus.Entry
}

// NewFetcher creates a Fetcher preferring language. An empty language means
// DefaultLanguage.
func NewFetcher(source Source, lastID *model.LastID, language string, log *logrus.Entry) *Fetcher {
	if language == "" {
		language = DefaultLanguage
	}
	return &Fetcher{
		source:   source,
		lastID:   lastID,
		language: language,
		log:      log,
	}
}

// Language returns the preferred language code.
func (f *Fetcher) Language() string {
	return f.language
}

// Fetch returns the caption track of id in the preferred language, or the
// video's first track if there is none in that language. An empty id means
// the last video played.
//
// A video without captions yields a nil track and a nil error. Every other
// failure is returned to the caller.
func (f *Fetcher) Fetch(ctx context.Context, id model.Identifier) (*model.CaptionTrack, error) {
	id, err := f.lastID.Resolve(id)
	if err != nil {
		return nil, err
	}

	log := logging.Operation(f.log).WithField("video_id", id)

	descriptors, err := f.source.ResolveCaptionDescriptors(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing captions of %s: %w", id, err)
	}

	descriptor, ok := Select(descriptors, f.language)
	if !ok {
		log.Debug("Video has no captions")
		return nil, nil
	}

	track, err := f.source.FetchCaptionTrack(ctx, descriptor)
	if err != nil {
		return nil, fmt.Errorf("fetching %s captions of %s: %w", descriptor.LanguageCode, id, err)
	}

	log.WithFields(logrus.Fields{
		"language": descriptor.LanguageCode,
		"cues":     len(track.Cues),
	}).Info("Fetched captions")

	return track, nil
}

// Select picks the descriptor whose language code is language, falling back
// to the first descriptor. It reports false only when descriptors is empty.
func Select(descriptors []model.CaptionTrackDescriptor, language string) (model.CaptionTrackDescriptor, bool) {
	if len(descriptors) == 0 {
		return model.CaptionTrackDescriptor{}, false
	}
	for _, d := range descriptors {
		if d.LanguageCode == language {
			return d, true
		}
	}
	return descriptors[0], true
}
