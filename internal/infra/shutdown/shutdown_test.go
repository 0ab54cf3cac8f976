package shutdown

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestWatch_FirstSignalCancels(t *testing.T) {
	sigCh := make(chan os.Signal, 2)
	ctx, stop := watch(context.Background(), sigCh, nil)
	defer stop()

	if ctx.Err() != nil {
		t.Fatal("context canceled before any signal")
	}

	sigCh <- syscall.SIGINT

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled after signal")
	}

	sig, ok := Signal(ctx)
	if !ok || sig != syscall.SIGINT {
		t.Errorf("Signal() = %v, %v, want SIGINT", sig, ok)
	}
}

func TestWatch_SecondSignalForces(t *testing.T) {
	sigCh := make(chan os.Signal, 2)
	forced := make(chan struct{})
	_, stop := watch(context.Background(), sigCh, func() { close(forced) })
	defer stop()

	sigCh <- syscall.SIGTERM
	sigCh <- syscall.SIGTERM

	select {
	case <-forced:
	case <-time.After(time.Second):
		t.Fatal("force hook not called on second signal")
	}
}

func TestWatch_StopWithoutSignal(t *testing.T) {
	sigCh := make(chan os.Signal, 2)
	ctx, stop := watch(context.Background(), sigCh, func() { t.Error("force called") })

	stop()
	stop()

	if ctx.Err() == nil {
		t.Error("stop should cancel the context")
	}
	if _, ok := Signal(ctx); ok {
		t.Error("Signal() should report false when stopped normally")
	}
}

func TestWatch_ParentCanceled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := watch(parent, make(chan os.Signal), nil)
	defer stop()

	cancel()
	if ctx.Err() == nil {
		t.Error("child should follow parent cancellation")
	}
}

func TestSignalError(t *testing.T) {
	err := &SignalError{Signal: syscall.SIGINT}
	if err.Error() != "interrupted by interrupt" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWithSignals_Stop(t *testing.T) {
	ctx, stop := WithSignals(context.Background(), nil)
	stop()
	if ctx.Err() == nil {
		t.Error("stop should cancel the context")
	}
}
