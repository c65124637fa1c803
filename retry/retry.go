// Package retry provides a bounded retry loop with capped exponential
// backoff, shared by every call to an external service.
package retry

import (
	"context"
	"time"
)

// Default policy values.
const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = 10 * time.Second
	DefaultMaxDelay     = 60 * time.Second
	DefaultMultiplier   = 2.0
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy describes how often and when to retry a failing call.
type Policy struct {
	// MaxAttempts is the total number of calls, including the first.
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Retryable reports whether err is transient. A nil Retryable
	// retries every error.
	Retryable func(err error) bool

	// OnRetry, if set, is called before each backoff sleep.
	OnRetry func(attempt int, delay time.Duration, err error)

	// Sleep defaults to a context-aware timer.
	Sleep SleepFunc
}

// DefaultPolicy returns the default policy: 5 attempts, 10s initial
// delay doubling up to 60s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		Multiplier:   DefaultMultiplier,
	}
}

// Delays returns the backoff schedule: one entry per retry.
func (p Policy) Delays() []time.Duration {
	if p.MaxAttempts <= 1 {
		return nil
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}

	delays := make([]time.Duration, 0, p.MaxAttempts-1)
	d := p.InitialDelay
	for i := 0; i < p.MaxAttempts-1; i++ {
		if p.MaxDelay > 0 && d > p.MaxDelay {
			d = p.MaxDelay
		}
		delays = append(delays, d)
		d = time.Duration(float64(d) * mult)
	}
	return delays
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempt budget runs out. The last error from fn is returned unchanged
// so callers can classify it.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	delays := p.Delays()

	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}

		// Don't sleep after the last attempt
		if attempt >= len(delays) {
			break
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+2, delays[attempt], err)
		}

		if err := sleep(ctx, delays[attempt]); err != nil {
			return err
		}
	}

	return lastErr
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
