package async

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrNotReady is returned by Take before the operation has completed.
	ErrNotReady = errors.New("operation not ready")

	// ErrConsumed is returned by Take once the result has already been taken.
	ErrConsumed = errors.New("operation result already taken")

	// ErrPanic wraps a panic raised by the function passed to Go.
	ErrPanic = errors.New("operation panicked")
)

// Pending is a handle to an in-flight computation that eventually yields a
// value or a failure.
//
// The computation runs outside the scheduler; a Pending only lets callers
// observe its completion. Its result can be taken exactly once.
type Pending[T any] struct {
	done  chan struct{}
	value T
	err   error
	taken atomic.Bool
}

func newPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

// complete publishes the result. It must be called exactly once.
func (p *Pending[T]) complete(value T, err error) {
	p.value, p.err = value, err
	close(p.done)
}

// Go starts fn on its own goroutine and returns a handle to its result.
//
// A panic inside fn completes the handle with an error wrapping ErrPanic
// instead of crashing the process.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Pending[T] {
	p := newPending[T]()

	go func() {
		var (
			value T
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				value, err = zero, fmt.Errorf("%w: %v", ErrPanic, r)
			}
			p.complete(value, err)
		}()

		value, err = fn(ctx)
	}()

	return p
}

// Resolved returns a handle that has already completed with value.
func Resolved[T any](value T) *Pending[T] {
	p := newPending[T]()
	p.complete(value, nil)
	return p
}

// Failed returns a handle that has already completed with err.
func Failed[T any](err error) *Pending[T] {
	p := newPending[T]()
	var zero T
	p.complete(zero, err)
	return p
}

// Ready reports whether the computation has completed. It never blocks.
func (p *Pending[T]) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the computation completes.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Take returns the result of a completed computation. It never blocks.
//
// Take returns ErrNotReady before completion and ErrConsumed on every call
// after the first successful one.
func (p *Pending[T]) Take() (T, error) {
	var zero T
	if !p.Ready() {
		return zero, ErrNotReady
	}
	if p.taken.Swap(true) {
		return zero, ErrConsumed
	}
	return p.value, p.err
}

// Wait blocks until the computation completes or ctx is done, then takes the
// result. It is meant for consumers that are not driven by a Scheduler.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.Take()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
