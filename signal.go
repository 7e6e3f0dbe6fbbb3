package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// errInterrupted is the cancellation cause of a run stopped by a signal.
var errInterrupted = errors.New("interrupted by signal")

// shutdownContext returns the run context. The first SIGINT or SIGTERM
// cancels it with errInterrupted: remote calls fail fast, every branch still
// settles and logs, and no directory is pruned afterwards. A second signal
// exits immediately.
func shutdownContext(parent context.Context, logger *slog.Logger) context.Context {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go watchSignals(parent, ctx, sigCh, cancel, logger)

	return ctx
}

func watchSignals(
	parent, ctx context.Context, sigCh chan os.Signal, cancel context.CancelCauseFunc, logger *slog.Logger,
) {
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Warn("received signal, stopping after in-flight items settle (signal again to force exit)",
			slog.String("signal", sig.String()),
		)
		cancel(errInterrupted)
	case <-ctx.Done():
		return
	}

	select {
	case sig := <-sigCh:
		logger.Error("received second signal, exiting now", slog.String("signal", sig.String()))
		os.Exit(1)
	case <-parent.Done():
	}
}
