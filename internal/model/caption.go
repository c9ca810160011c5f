package model

import (
	"sort"
	"time"
)

// CaptionTrackDescriptor identifies one caption track of a video.
type CaptionTrackDescriptor struct {
	VideoID Identifier

	// LanguageCode is the track's language, e.g. "en" or "pt-BR".
	LanguageCode string

	// Name is the display name, e.g. "English (auto-generated)".
	Name string

	// URL serves the track body.
	URL string

	// AutoGenerated is true for speech-recognition tracks.
	AutoGenerated bool
}

// Cue is one timed caption line.
type Cue struct {
	Offset   time.Duration
	Duration time.Duration
	Text     string
}

// End returns the offset at which the cue stops being shown.
func (c Cue) End() time.Duration {
	return c.Offset + c.Duration
}

// CaptionTrack is the fetched cue data of one descriptor.
//
// Cues are kept in the order the service returned them, which is by offset.
type CaptionTrack struct {
	Descriptor CaptionTrackDescriptor
	Cues       []Cue
}

// At returns the cue displayed at the given playback offset.
//
// When cues overlap, the one that started last wins.
func (t *CaptionTrack) At(offset time.Duration) (Cue, bool) {
	// first cue starting after offset
	i := sort.Search(len(t.Cues), func(i int) bool {
		return t.Cues[i].Offset > offset
	})
	for j := i - 1; j >= 0; j-- {
		if offset < t.Cues[j].End() {
			return t.Cues[j], true
		}
	}
	return Cue{}, false
}
