// Package model defines the core data structures used throughout
// the youtube-player application.
//
// # Streams
//
// A StreamSet holds every encoding resolved for one video. Selection is a
// deterministic total order, so the same set always yields the same stream:
//
//	stream, err := set.BestPlayable(profile.Supports) // for the player
//	stream, err := set.BestMuxed()                    // for downloads
//	if errors.Is(err, model.ErrNoSupportedStream) {
//	    // nothing matched the policy
//	}
//
// # Captions
//
// CaptionTrack holds the cues of one fetched track:
//
//	if cue, ok := track.At(position); ok {
//	    fmt.Println(cue.Text)
//	}
//
// # Identifier memory
//
// LastID remembers the most recently played identifier. Operations called
// without an identifier default to it.
//
// # Errors
//
// ErrInvalidIdentifier, ErrNotFound, ErrNoSupportedStream, ErrNetwork and
// ErrCancelled are the error kinds every component reports.
package model
