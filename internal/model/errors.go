package model

import "errors"

// Error kinds shared by every component. Implementations wrap these with
// context; callers test for them with errors.Is.
var (
	// ErrInvalidIdentifier is returned for malformed input, or when no
	// identifier was given and none was remembered.
	ErrInvalidIdentifier = errors.New("invalid video identifier")

	// ErrNotFound means the service has no such video, or will not serve it.
	ErrNotFound = errors.New("video not found")

	// ErrNoSupportedStream means resolution succeeded but no stream matched
	// the selection policy.
	ErrNoSupportedStream = errors.New("no supported stream")

	// ErrNetwork covers transport failures during resolution or transfer.
	ErrNetwork = errors.New("network error")

	// ErrCancelled means cooperative cancellation was observed.
	ErrCancelled = errors.New("cancelled")
)
