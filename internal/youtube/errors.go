package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kkdai/youtube/v2"

	httpclient "github.com/handiism/youtube-player/internal/http"
	"github.com/handiism/youtube-player/internal/model"
)

// classify wraps err with the model error kind it belongs to, keeping the
// original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kindOf(err), err)
}

func kindOf(err error) error {
	var (
		playability    youtube.ErrPlayabiltyStatus
		playabilityPtr *youtube.ErrPlayabiltyStatus
		status         *httpclient.StatusError
	)

	switch {
	case errors.Is(err, context.Canceled):
		return model.ErrCancelled

	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return model.ErrInvalidIdentifier

	case errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrNotPlayableInEmbed),
		errors.Is(err, youtube.ErrTranscriptDisabled),
		errors.As(err, &playability),
		errors.As(err, &playabilityPtr):
		return model.ErrNotFound

	case errors.As(err, &status) && (status.Code == http.StatusNotFound || status.Code == http.StatusGone):
		return model.ErrNotFound

	default:
		return model.ErrNetwork
	}
}
