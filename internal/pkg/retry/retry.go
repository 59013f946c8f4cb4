// Package retry provides a bounded fixed-delay retry helper for operations
// whose failure class is transient (network and connectivity faults).
package retry

import (
	"context"
	"fmt"
	"time"
)

// Func is the operation to retry.
type Func func(ctx context.Context) error

// RetryableFunc decides whether a failure is worth another attempt.
// Returning false stops retrying and surfaces the error as-is.
type RetryableFunc func(err error) bool

// Options controls the retry loop.
type Options struct {
	Attempts  int           // total attempts, including the first
	Delay     time.Duration // fixed delay between attempts
	Retryable RetryableFunc // nil means retry every failure
}

// DefaultOptions matches the metadata-store transient-fault policy:
// three attempts with a one-second pause between them.
func DefaultOptions() Options {
	return Options{
		Attempts: 3,
		Delay:    time.Second,
	}
}

// Do runs fn up to opts.Attempts times, sleeping opts.Delay between
// attempts. Context cancellation aborts the loop between attempts. The
// error from the last attempt is returned after the budget is exhausted.
func Do(ctx context.Context, opts Options, fn Func) error {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}

	var lastErr error
	for i := 0; i < opts.Attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-time.After(opts.Delay):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if opts.Retryable != nil && !opts.Retryable(err) {
			return err
		}
	}

	return lastErr
}
