// Package async bridges goroutine-backed operations into a single-threaded,
// frame-driven cooperative scheduler.
//
// Network calls and file transfers run on their own goroutines through Go.
// The scheduler goroutine never blocks on them: SuspendUntil checks for
// completion once per Tick and yields otherwise.
//
// Three kinds of consumer share the same Pending handle:
//   - continuations registered with SuspendUntil, resumed on a tick
//   - UI state that polls Ready on each frame and calls Take once
//   - callers outside the scheduler that block in Wait(ctx)
//
// # Basic Usage
//
//	sched := async.NewScheduler()
//	op := async.Go(ctx, fetch)
//	async.SuspendUntil(sched, op, func(v Value, err error) { ... })
//
//	// once per frame
//	sched.Tick()
package async
