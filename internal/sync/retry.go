package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tonimelisma/drivemirror/internal/gdrive"
)

// Retry defaults.
const (
	DefaultRetryBaseDelay   = 1100 * time.Millisecond
	DefaultRetryMaxAttempts = 8
)

// RetryPolicy guards a single remote call against throttling. A rate-limited
// attempt waits the current delay and retries with the delay doubled; any
// other error ends the call at once. Only the guarded call is repeated, never
// the operation around it.
type RetryPolicy struct {
	baseDelay   time.Duration
	maxAttempts int
	logger      *slog.Logger

	// sleepFunc is called to wait between attempts. Defaults to timeSleep.
	// Tests override this to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy creates a policy. Non-positive arguments select the defaults.
func NewRetryPolicy(baseDelay time.Duration, maxAttempts int, logger *slog.Logger) *RetryPolicy {
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}

	if maxAttempts <= 0 {
		maxAttempts = DefaultRetryMaxAttempts
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RetryPolicy{
		baseDelay:   baseDelay,
		maxAttempts: maxAttempts,
		logger:      logger,
		sleepFunc:   timeSleep,
	}
}

// Do runs fn until it succeeds, fails with a non-throttling error, or has
// been rate limited maxAttempts times. op names the call in logs and errors.
func (p *RetryPolicy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	delay := p.baseDelay

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		if !errors.Is(err, gdrive.ErrRateLimited) {
			return err
		}

		if attempt >= p.maxAttempts {
			p.logger.Error("rate limited on every attempt, giving up",
				slog.String("op", op),
				slog.Int("attempts", attempt),
			)

			return fmt.Errorf("%w: %s after %d attempts: %w", ErrRetryExhausted, op, attempt, err)
		}

		p.logger.Warn("rate limited, backing off",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", delay),
		)

		if sleepErr := p.sleepFunc(ctx, delay); sleepErr != nil {
			return fmt.Errorf("sync: %s canceled during backoff: %w", op, sleepErr)
		}

		delay *= 2
	}
}

// timeSleep waits for the given duration or until the context is canceled.
// It is the default sleepFunc for RetryPolicy.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
