package main

import (
	"context"
	"errors"
	"time"

	"spooltag/internal/config"
	"spooltag/internal/engine"
)

// reportedError marks a failure the status line already showed, so main
// exits non-zero without printing it twice.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// waitForConfirmation blocks until the engine's confirmation read finishes,
// bounded by the configured delay plus one request timeout.
func waitForConfirmation(ctx context.Context, eng *engine.Engine, cfg *config.Config) error {
	budget := cfg.ConfirmDelay() + cfg.RequestTimeout() + time.Second
	waitCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	return eng.Wait(waitCtx)
}
