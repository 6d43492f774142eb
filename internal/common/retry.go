package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrRateLimit indicates that the API rate limit has been exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates that all retry attempts have been exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// maxRetryDelay caps the doubling backoff and is the wait after a rate limit.
const maxRetryDelay = 30 * time.Second

// RetryOptions configures WithRetry. Zero values mean 3 attempts starting
// at 100ms.
type RetryOptions struct {
	Attempts int
	Delay    time.Duration
}

// RetryableError marks whether a failure is worth another attempt.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// WithRetry calls operation until it succeeds, the attempts run out, or ctx
// ends. The wait doubles after each failure. Errors marked non-retryable and
// parse failures are returned as they are, without another attempt.
func WithRetry(ctx context.Context, operation func() error, opts RetryOptions) error {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	var err error
	for attempt := 1; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if !worthRetrying(err) {
			return err
		}
		if attempt == attempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, attempts, err)
		}

		if errors.Is(err, ErrRateLimit) {
			delay = maxRetryDelay
		}
		slog.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(2*delay, maxRetryDelay)
	}
}

func worthRetrying(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) && !retryableErr.Retryable {
		return false
	}
	return !errors.Is(err, ErrExternalParse)
}
