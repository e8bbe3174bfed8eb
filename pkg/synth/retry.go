package synth

import (
	"context"
	stderrors "errors"
	"time"
)

// RetryableError marks a synthesis failure as transient. Network timeouts
// and 5xx responses wrapped with this type are retried; everything else
// (bad prompt, auth failure) fails the attempt immediately.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// retry executes fn up to attempts times with exponential backoff. Only
// errors wrapped in [RetryableError] are retried. The delay doubles after
// each failed attempt.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return stderrors.As(err, new(*RetryableError))
}
