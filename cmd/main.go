package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/acms/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	if err := runner.App().Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
