package util

import (
	"context"
	"errors"
	"time"
)

// Backoff returns how long to wait before retry attempt n, counting from 1.
type Backoff func(attempt int) time.Duration

// ExponentialBackoff doubles base with every attempt, capped at limit.
func ExponentialBackoff(base, limit time.Duration) Backoff {
	return func(attempt int) time.Duration {
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
			if d >= limit {
				return limit
			}
		}
		return min(d, limit)
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// RetryErrWithBackoff calls fn up to maxTries times until it returns a nil
// error, or until ctx is done, waiting according to backoff between attempts.
// A nil backoff retries immediately. If maxTries <= 0, it defaults to 1.
// Returns ctx.Err() if the context is canceled, otherwise returns the last error.
func RetryErrWithBackoff(ctx context.Context, maxTries int, backoff Backoff, fn func(context.Context) error) error {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	for i := 0; i < maxTries; i++ {
		if i > 0 && backoff != nil {
			timer := time.NewTimer(backoff(i))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isContextErr(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}
