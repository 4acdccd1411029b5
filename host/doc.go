// Package host provides ProcessHost, the core.Host implementation for
// ordinary Go programs, and the hook registry it is built on.
//
// Go has no process wide "before exit" or "uncaught exception" events, so
// ProcessHost defines them explicitly:
//
//   - Run executes the program body; a normal return fires the completion
//     hooks, a panic or returned error fires the fatal hooks
//   - Exit (and SIGINT/SIGTERM while Listen is active) fires the forced exit
//     hooks before terminating
//   - Go starts a background task; if it fails and nobody calls its Err
//     before the process completes or exits, the unobserved hooks fire with
//     the task as the handle
//
// Usage:
//
//	h := host.New()
//	s, err := session.GetOrCreate(func(o *session.Options) { o.Host = h })
//	if err != nil {
//	    log.Fatal(err)
//	}
//	h.Run(func(ctx context.Context) error {
//	    return app(ctx, s)
//	})
package host
