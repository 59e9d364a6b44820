// Package retry wraps a fallible call with a fixed number of attempts and a
// linearly growing pause between them. It never classifies errors.
package retry

import (
	"context"
	"time"
)

type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

func Default() Policy {
	return Policy{MaxAttempts: 3, Delay: 2 * time.Second}
}

// Backoff is the pause after the given failed attempt (1-based).
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 || p.Delay <= 0 {
		return 0
	}
	return p.Delay * time.Duration(attempt)
}

type SleepFunc func(ctx context.Context, d time.Duration) error

type options struct {
	sleep   SleepFunc
	onRetry func(attempt int, err error, wait time.Duration)
}

type Option func(*options)

// WithSleep swaps the pause implementation. Tests use it to record waits.
func WithSleep(fn SleepFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.sleep = fn
		}
	}
}

func WithOnRetry(fn func(attempt int, err error, wait time.Duration)) Option {
	return func(o *options) { o.onRetry = fn }
}

// Do calls fn until it succeeds or the policy is exhausted, returning the last error unchanged.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	o := options{sleep: sleepCtx}
	for _, opt := range opts {
		opt(&o)
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, lastErr
			}
			return zero, err
		}
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		wait := p.Backoff(attempt)
		if o.onRetry != nil {
			o.onRetry(attempt, err, wait)
		}
		if err := o.sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
