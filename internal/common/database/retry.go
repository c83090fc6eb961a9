// internal/common/database/retry.go
package database

import (
	"context"
	"fmt"
	"time"
)

// Pinger is implemented by every client in this package.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is a named backing service probed by /ready.
type Dependency interface {
	Pinger
	Name() string
}

// WaitReady pings p until it answers, doubling the delay between attempts up to maxDelay.
func WaitReady(ctx context.Context, p Pinger, attempts int, baseDelay, maxDelay time.Duration) error {
	name := "dependency"
	if d, ok := p.(Dependency); ok {
		name = d.Name()
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = p.Ping(ctx); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s: gave up after %d attempts: %w", name, attempt, ctx.Err())
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return fmt.Errorf("%s not ready after %d attempts: %w", name, attempts, lastErr)
}

// CheckAll pings each dependency once and returns the first failure, prefixed with its name.
func CheckAll(ctx context.Context, deps ...Dependency) error {
	for _, d := range deps {
		if err := d.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", d.Name(), err)
		}
	}
	return nil
}
