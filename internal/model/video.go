package model

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Identifier is the opaque token the service uses for one video.
//
// Identifiers extracted from user input are validated by the remote client
// (see youtube.Client.ExtractID); the model only distinguishes empty from
// non-empty.
type Identifier string

// Video holds the metadata of one video.
type Video struct {
	ID           Identifier
	Title        string
	Author       string
	Duration     time.Duration
	ThumbnailURL string
}

// VideoSummary is one entry of a result list handed to a list view.
type VideoSummary struct {
	ID           Identifier
	Title        string
	Author       string
	Duration     time.Duration
	ThumbnailURL string
}

// Summary returns the list-view form of the video.
func (v *Video) Summary() VideoSummary {
	return VideoSummary{
		ID:           v.ID,
		Title:        v.Title,
		Author:       v.Author,
		Duration:     v.Duration,
		ThumbnailURL: v.ThumbnailURL,
	}
}

// LastID remembers the most recently played identifier so that operations
// called without one can default to it.
//
// Playback writes it; download and caption fetching only read it. The value
// is stored atomically, but nothing orders overlapping operations against
// each other: if two calls race, the last writer wins.
type LastID struct {
	id atomic.Pointer[Identifier]
}

// Resolve returns id when it is set, and the remembered identifier otherwise.
//
// Returns ErrInvalidIdentifier when both are empty.
func (l *LastID) Resolve(id Identifier) (Identifier, error) {
	if id != "" {
		return id, nil
	}
	if last := l.Get(); last != "" {
		return last, nil
	}
	return "", fmt.Errorf("no video id given and none played yet: %w", ErrInvalidIdentifier)
}

// Remember records id as the most recent identifier.
func (l *LastID) Remember(id Identifier) {
	l.id.Store(&id)
}

// Get returns the remembered identifier, or "" if there is none.
func (l *LastID) Get() Identifier {
	if p := l.id.Load(); p != nil {
		return *p
	}
	return ""
}
