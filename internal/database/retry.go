package database

import (
	"context"
	"time"
)

// WithRetry runs op up to attempts times, backing off exponentially from
// baseDelay between tries.  Only transient infrastructure failures
// (ErrUnavailable, ErrPoolExhausted) are retried; any other error, nil
// included, is returned immediately.  When attempts are exhausted the last
// underlying error is surfaced.
//
// Retrying a create after an ambiguous failure is safe only because the
// store's uniqueness constraint catches a duplicate insert; callers must
// not weaken that constraint.
func WithRetry(ctx context.Context, attempts int, baseDelay time.Duration, op func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	delay := baseDelay
	for i := 0; i < attempts; i++ {
		if i > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}
		if err = op(ctx); err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}
