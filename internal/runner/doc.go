// Package runner executes the two benchmark passes.
//
// Both passes send the same N prompts through a [Completer]:
//
//	r := runner.New(runner.Options{
//		Prompts:   prompts,
//		Requests:  10,
//		Completer: client,
//		Observer:  console,
//	})
//	seq, err := r.Sequential(ctx)
//	conc, err := r.Concurrent(ctx)
//
// [Runner.Sequential] awaits each request before sending the next. [Runner.Concurrent]
// queues every index up front and lets a pool of workers (one per request unless
// Options.Workers bounds it) drain the queue; results are collected from a shared
// channel in completion order, stamped with their offset from dispatch, then sorted
// back into index order.
//
// A single failed request never aborts a pass. Cancelling the context does: the
// pass returns [ErrInterrupted] and no report.
//
// # Middleware
//
// [WithLogging] wraps a Completer to report each failure to a [FailureLogger].
package runner
