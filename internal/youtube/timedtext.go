package youtube

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/youtube-player/internal/model"
	"github.com/handiism/youtube-player/internal/youtube/dto"
)

// ErrNoTimedText is returned when a caption body is not a timed-text document.
var ErrNoTimedText = errors.New("no timed text in caption body")

// ParseTimedText extracts cues from a caption body.
//
// Two body formats are understood:
//   - the default <transcript><text start dur> document (seconds)
//   - the <timedtext format="3"><body><p t d> document (milliseconds)
//
// Returns ErrNoTimedText if the body is neither. Cues keep document order.
//
// Example:
//
//	body, _ := httpClient.GetString(ctx, descriptor.URL)
//	cues, err := ParseTimedText(body)
func ParseTimedText(body string) ([]model.Cue, error) {
	switch {
	case strings.Contains(body, "<timedtext"):
		var doc dto.XMLTimedText
		if err := xml.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse timed text: %w", err)
		}
		return doc.ToCues(), nil

	case strings.Contains(body, "<transcript"):
		var doc dto.XMLTranscript
		if err := xml.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse transcript: %w", err)
		}
		return doc.ToCues(), nil

	default:
		return nil, ErrNoTimedText
	}
}
