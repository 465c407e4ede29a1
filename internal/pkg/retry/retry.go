package retry

import (
	"context"
	"time"
)

// DelayFunc computes the delay before retrying after failed attempt k (0-based).
type DelayFunc func(attempt int) time.Duration

// Exponential returns a delay function of base * 2^attempt.
func Exponential(base time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		return base << uint(attempt)
	}
}

// Constant returns a fixed delay between attempts.
func Constant(delay time.Duration) DelayFunc {
	return func(int) time.Duration {
		return delay
	}
}

// Do runs fn up to attempts times, waiting delay(k) after the k-th failure.
// It returns nil on the first success, the last error once attempts are
// exhausted, or the context error if ctx is cancelled while waiting.
func Do(ctx context.Context, attempts int, delay DelayFunc, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
