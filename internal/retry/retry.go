// Package retry provides a bounded fixed-delay retry policy shared by
// every connection acquisition in the worker.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Policy retries an operation a fixed number of times with a fixed delay
// between attempts. Each resource configures its own policy.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs fn until it succeeds or the attempts are exhausted. The sleep
// between attempts honors ctx cancellation. The returned error wraps the
// last failure.
func (p Policy) Do(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		slog.WarnContext(ctx, "Attempt failed",
			"op", op,
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"error", err)

		if attempt == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(p.Delay):
		}
	}
	return fmt.Errorf("%s: %d attempts exhausted: %w", op, p.MaxAttempts, err)
}
