package async

// SuspendUntil suspends a continuation on s until op completes.
//
// On every tick the step checks op once: while op is still running it
// yields for exactly one tick; once op has completed it calls k with the
// value, or with the zero value and the failure. k runs on the scheduler's
// goroutine and is called exactly once. There is no timeout; an operation
// that never completes keeps the step suspended until the scheduler is
// dropped, so callers that need a bound should cancel the context given to
// Go.
//
// Example:
//
//	streams := async.Go(ctx, func(ctx context.Context) (model.StreamSet, error) {
//	    return client.ResolveStreams(ctx, id)
//	})
//	async.SuspendUntil(sched, streams, func(set model.StreamSet, err error) {
//	    if err != nil {
//	        log.WithError(err).Error("Failed to resolve streams")
//	        return
//	    }
//	    play(set)
//	})
func SuspendUntil[T any](s *Scheduler, op *Pending[T], k func(T, error)) {
	s.Spawn(func() bool {
		if !op.Ready() {
			return false
		}
		k(op.Take())
		return true
	})
}
