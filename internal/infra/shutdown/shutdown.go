package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignals returns a context canceled by the first SIGINT or SIGTERM.
// A second signal calls force (if non-nil). Call stop to release the
// signal handler.
func WithSignals(parent context.Context, force func()) (ctx context.Context, stop context.CancelFunc) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := watch(parent, sigCh, force)
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// watch cancels the returned context on the first value from sigCh and
// calls force on the second.
func watch(parent context.Context, sigCh <-chan os.Signal, force func()) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			cancel(&SignalError{Signal: sig})
		case <-done:
			return
		}

		select {
		case <-sigCh:
			if force != nil {
				force()
			}
		case <-done:
		}
	}()

	var stopped bool
	return ctx, func() {
		if !stopped {
			stopped = true
			close(done)
		}
		cancel(context.Canceled)
	}
}

// SignalError is the cancellation cause recorded when a signal arrives.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return "interrupted by " + e.Signal.String()
}

// Signal returns the signal that canceled ctx, if any.
func Signal(ctx context.Context) (os.Signal, bool) {
	if se, ok := context.Cause(ctx).(*SignalError); ok {
		return se.Signal, true
	}
	return nil, false
}
