// Package retry runs a lookup a bounded number of times before giving up.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is matched by NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError is returned when every attempt came back empty.
type NotFoundError struct {
	What     string
	Attempts int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found after %d attempts", e.What, e.Attempts)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Policy bounds a retry loop. Delay before attempt n+1 is
// InitialDelay*Multiplier^(n-1), capped at MaxDelay when set.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration

	// Sleep waits between attempts; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy waits for a freshly created profile: five attempts,
// 1.5s apart.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  5,
		InitialDelay: 1500 * time.Millisecond,
		Multiplier:   1,
	}
}

// Delay returns the wait after the given 1-based attempt.
func (p Policy) Delay(attempt int) time.Duration {
	d := float64(p.InitialDelay)
	m := p.Multiplier
	if m < 1 {
		m = 1
	}
	for i := 1; i < attempt; i++ {
		d *= m
		if p.MaxDelay > 0 && time.Duration(d) >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return time.Duration(d)
}

// Do calls fn until it reports found, returns an error, or the attempts run
// out. fn receives the 1-based attempt number. Errors from fn stop the loop
// immediately.
func Do[T any](ctx context.Context, p Policy, what string, fn func(ctx context.Context, attempt int) (T, bool, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		v, found, err := fn(ctx, attempt)
		if err != nil {
			return zero, err
		}
		if found {
			return v, nil
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, p.Delay(attempt)); err != nil {
			return zero, err
		}
	}
	return zero, &NotFoundError{What: what, Attempts: attempts}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
