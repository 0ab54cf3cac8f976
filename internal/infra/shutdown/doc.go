// Package shutdown ties process termination signals to a context.
//
// The first SIGINT or SIGTERM cancels the context so in-flight requests
// abort and deferred cleanup (closing the session store) runs. A second
// signal calls the force hook, which normally exits immediately.
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background(), func() { os.Exit(130) })
//	defer stop()
package shutdown
