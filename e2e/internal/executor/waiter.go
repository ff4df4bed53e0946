package executor

import (
	"context"
	"time"
)

// WaitUntil blocks until offset has elapsed since startTime or ctx is done
func WaitUntil(ctx context.Context, startTime time.Time, offset time.Duration) error {
	remaining := time.Until(startTime.Add(offset))
	if remaining <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetElapsed returns elapsed seconds since start
func GetElapsed(startTime time.Time) float64 {
	return time.Since(startTime).Seconds()
}
