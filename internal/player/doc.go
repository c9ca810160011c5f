// Package player resolves and plays videos through a pluggable Sink.
//
// # Controller
//
// Controller.PlayByID runs in three phases:
//
//  1. Pick the identifier (an empty one replays the last video)
//  2. Resolve the stream set on a goroutine, suspending on the scheduler
//  3. Select the best stream the RendererProfile supports and play it
//
// The URL is only assigned when it differs from what the sink has loaded,
// so replaying the current video keeps its position.
//
// # Basic Usage
//
//	sched := async.NewScheduler()
//	ctrl := player.NewController(client, sched, sink, profile, lastID, log)
//
//	stop := ctrl.OnVideoStarting(func(id model.Identifier) {
//	    prefetchCaptions(id)
//	})
//	defer stop()
//
//	ctrl.PlayByID(ctx, "dQw4w9WgXcQ", nil)
//	sched.Run(ctx, time.Second/30)
//
// # Sinks
//
// MemorySink only records state. ExecSink launches an external player such
// as mpv and restarts it only when the URL changes.
package player
