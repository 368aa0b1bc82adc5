package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
)

// RetryPolicy bounds the internal retries of operations that fail with ErrConcurrency.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryPolicy retries three times starting at 50ms.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second}

// backoff returns an exponential delay with full jitter for the given zero-based attempt.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	ceiling := p.BaseDelay << attempt
	if p.MaxDelay > 0 && (ceiling > p.MaxDelay || ceiling <= 0) {
		ceiling = p.MaxDelay
	}
	if ceiling <= 0 {
		return 0
	}
	return rand.N(ceiling) + 1
}

// Do runs fn until it succeeds, fails with anything other than ErrConcurrency,
// or the attempts are exhausted. onRetry is called before each wait.
func (p RetryPolicy) Do(ctx context.Context, onRetry func(attempt int, err error), fn func(ctx context.Context) error) error {
	return p.do(ctx, func(err error) bool { return errors.Is(err, apperrors.ErrConcurrency) }, onRetry, fn)
}

// DoAny is Do for side effects where every error is worth another attempt.
func (p RetryPolicy) DoAny(ctx context.Context, onRetry func(attempt int, err error), fn func(ctx context.Context) error) error {
	return p.do(ctx, func(error) bool { return true }, onRetry, fn)
}

func (p RetryPolicy) do(ctx context.Context, retryable func(error) bool, onRetry func(attempt int, err error), fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn(ctx)
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}
		if onRetry != nil {
			onRetry(attempt+1, err)
		}
		timer := time.NewTimer(p.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
