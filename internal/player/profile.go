package player

import (
	"slices"

	"github.com/handiism/youtube-player/internal/model"
)

// RendererProfile describes which streams the host renderer can play.
type RendererProfile struct {
	// MaxHeight is the tallest picture the renderer accepts. Zero means no
	// limit.
	MaxHeight int

	// Containers lists the containers the renderer can demux. Empty means
	// any container.
	Containers []model.Container
}

// Supports reports whether the renderer can play stream. Streams without a
// video track are never playable.
func (p RendererProfile) Supports(stream model.StreamDescriptor) bool {
	if !stream.HasVideo {
		return false
	}
	if p.MaxHeight > 0 && stream.Quality > p.MaxHeight {
		return false
	}
	if len(p.Containers) > 0 && !slices.Contains(p.Containers, stream.Container) {
		return false
	}
	return true
}
