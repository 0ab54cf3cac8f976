package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yndnr/famcheck-go/internal/cli/command"
	"github.com/yndnr/famcheck-go/internal/infra/shutdown"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background(), func() {
		fmt.Fprintln(os.Stderr, "forced exit")
		os.Exit(130)
	})

	app := command.App()
	err := app.RunContext(ctx, os.Args)
	stop()

	if sig, ok := shutdown.Signal(ctx); ok {
		fmt.Fprintf(os.Stderr, "interrupted by %s\n", sig)
		os.Exit(130)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
