package model

import (
	"fmt"
	"sort"
	"strings"
)

// Container is the media container a stream is served in.
type Container string

const (
	ContainerMP4     Container = "mp4"
	ContainerWebM    Container = "webm"
	Container3GPP    Container = "3gpp"
	ContainerUnknown Container = ""
)

// ParseContainer extracts the container from a MIME type such as
// `video/mp4; codecs="avc1.42001E, mp4a.40.2"`.
func ParseContainer(mimeType string) Container {
	base, _, _ := strings.Cut(mimeType, ";")
	_, sub, ok := strings.Cut(strings.TrimSpace(base), "/")
	if !ok {
		return ContainerUnknown
	}
	switch Container(strings.ToLower(sub)) {
	case ContainerMP4:
		return ContainerMP4
	case ContainerWebM:
		return ContainerWebM
	case Container3GPP:
		return Container3GPP
	default:
		return ContainerUnknown
	}
}

// Extension returns the file extension for the container, without the dot.
//
// Returns:
//   - "mp4" for ContainerMP4
//   - "webm" for ContainerWebM
//   - "3gp" for Container3GPP
//   - "bin" for anything else
func (c Container) Extension() string {
	switch c {
	case ContainerMP4:
		return "mp4"
	case ContainerWebM:
		return "webm"
	case Container3GPP:
		return "3gp"
	default:
		return "bin"
	}
}

// rank orders containers by how well they suit a saved file. Higher is better.
func (c Container) rank() int {
	switch c {
	case ContainerMP4:
		return 3
	case ContainerWebM:
		return 2
	case Container3GPP:
		return 1
	default:
		return 0
	}
}

// StreamDescriptor describes one available encoding of a video.
//
// A descriptor is a plain value: once resolved it is never mutated, and
// copies can be handed around freely.
type StreamDescriptor struct {
	// VideoID is the identifier the stream was resolved for.
	VideoID Identifier

	// Itag is the service's numeric format code.
	Itag int

	// Container is the media container (mp4, webm, ...).
	Container Container

	// Quality is the vertical resolution in pixels. Zero for audio-only streams.
	Quality int

	// QualityLabel is the human readable label, e.g. "720p60".
	QualityLabel string

	// Muxed is true when the stream carries both audio and video.
	Muxed bool

	// HasVideo and HasAudio describe which tracks the stream carries.
	HasVideo bool
	HasAudio bool

	// Bitrate in bits per second, as advertised.
	Bitrate int

	// Size in bytes. Zero when the service did not advertise it.
	Size int64

	// URL serves the stream's bytes directly.
	URL string
}

func (s StreamDescriptor) String() string {
	kind := "video-only"
	switch {
	case s.Muxed:
		kind = "muxed"
	case !s.HasVideo:
		kind = "audio-only"
	}
	return fmt.Sprintf("itag %d %s %dp %s", s.Itag, s.Container, s.Quality, kind)
}

// StreamSet is every stream resolved for one identifier at one point in time.
//
// Sets are owned by whoever requested them and are not cached: each
// operation resolves its own.
type StreamSet []StreamDescriptor

// BestPlayable selects the stream a player should load.
//
// Candidates are the streams carrying video that supports accepts. They are
// ordered by quality (highest first), then muxed before video-only, then
// container suitability, then bitrate, then itag, so the result is the same
// for the same input regardless of its order.
//
// Returns ErrNoSupportedStream if there is no candidate.
func (s StreamSet) BestPlayable(supports func(StreamDescriptor) bool) (StreamDescriptor, error) {
	var candidates StreamSet
	for _, stream := range s {
		if !stream.HasVideo {
			continue
		}
		if supports != nil && !supports(stream) {
			continue
		}
		candidates = append(candidates, stream)
	}
	if len(candidates) == 0 {
		return StreamDescriptor{}, ErrNoSupportedStream
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Quality != b.Quality {
			return a.Quality > b.Quality
		}
		if a.Muxed != b.Muxed {
			return a.Muxed
		}
		return lessByEncoding(a, b)
	})
	return candidates[0], nil
}

// BestMuxed selects the stream to save to disk. Only muxed streams are
// candidates; they are ordered by quality, then container suitability,
// then bitrate, then itag.
//
// Returns ErrNoSupportedStream if no muxed stream exists.
func (s StreamSet) BestMuxed() (StreamDescriptor, error) {
	var candidates StreamSet
	for _, stream := range s {
		if stream.Muxed {
			candidates = append(candidates, stream)
		}
	}
	if len(candidates) == 0 {
		return StreamDescriptor{}, ErrNoSupportedStream
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Quality != b.Quality {
			return a.Quality > b.Quality
		}
		return lessByEncoding(a, b)
	})
	return candidates[0], nil
}

func lessByEncoding(a, b StreamDescriptor) bool {
	if a.Container.rank() != b.Container.rank() {
		return a.Container.rank() > b.Container.rank()
	}
	if a.Bitrate != b.Bitrate {
		return a.Bitrate > b.Bitrate
	}
	return a.Itag < b.Itag
}
