package base

import (
	"context"
	"errors"
	"time"
)

// ErrRetryable means an operation is retryable.
var ErrRetryable = errors.New("retryable")

// RetryableError is an error indicating that an operation is retryable.
type RetryableError string

// Error implements the `error`.
func (re RetryableError) Error() string {
	return string(re)
}

// Is reports whether the target is `ErrRetryable`.
func (RetryableError) Is(target error) bool {
	return target == ErrRetryable
}

// RetryN retries the f based on the retryable at most n times. And there is a
// nap before each retry.
//
// The f is never retried once the ctx is done, the last error of the f is
// returned instead.
func RetryN(
	ctx context.Context,
	f func(ctx context.Context) error,
	retryable func(err error) bool,
	nap time.Duration,
	n int,
) error {
	if retryable == nil {
		retryable = func(_ error) bool { return false }
	}
	n = max(n, 1)

	var err error
	for i := 0; i < n; i++ {
		if err = f(ctx); err == nil {
			return nil
		} else if !errors.Is(err, ErrRetryable) && !retryable(err) {
			return err
		} else if i == n-1 {
			break
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(nap):
		}
	}
	return err
}
