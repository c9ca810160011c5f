package async

import (
	"context"
	"time"
)

// Step is one resumable unit of cooperative work. Each call advances it as
// far as it can go without blocking; it returns true once it has finished
// and false to yield until the next tick.
type Step func() (done bool)

// Scheduler is a single-threaded cooperative executor driven by discrete
// ticks, typically one per rendered frame.
//
// A Scheduler is not safe for concurrent use: Spawn, Tick and Run must all
// be called from the goroutine that owns it.
type Scheduler struct {
	steps   []Step
	ticking bool
	ticks   uint64
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Spawn runs step immediately until it first yields, then once per Tick
// until it reports completion. A step spawned while a tick is in progress
// is first resumed on the following tick.
func (s *Scheduler) Spawn(step Step) {
	if step() {
		return
	}
	s.steps = append(s.steps, step)
}

// Tick resumes every suspended step once, in spawn order.
//
// If a step panics, the panic propagates to the caller after the scheduler
// has dropped that step; the steps it had not reached yet stay suspended.
func (s *Scheduler) Tick() {
	if s.ticking {
		return
	}
	s.ticking = true
	s.ticks++

	current := s.steps
	s.steps = nil

	kept := make([]Step, 0, len(current))
	next := 0
	defer func() {
		// s.steps now holds whatever was spawned during this tick.
		s.steps = append(append(kept, current[next:]...), s.steps...)
		s.ticking = false
	}()

	for next < len(current) {
		step := current[next]
		next++
		if !step() {
			kept = append(kept, step)
		}
	}
}

// Len returns the number of suspended steps.
func (s *Scheduler) Len() int {
	return len(s.steps)
}

// Ticks returns the number of ticks run so far.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Run ticks the scheduler every interval until no steps remain or ctx is
// done. It is the frame loop for hosts without a UI.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if s.Len() == 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
			if s.Len() == 0 {
				return nil
			}
		}
	}
}
