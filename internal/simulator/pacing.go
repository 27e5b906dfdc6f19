package simulator

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer inserts the waits between consecutive batch items.
type Pacer interface {
	// Pause blocks for d or until ctx is done.
	Pause(ctx context.Context, d time.Duration)
	// Spacer returns a wait func that releases callers at most once per
	// interval. The first call returns immediately.
	Spacer(interval time.Duration) func(ctx context.Context)
}

// RealPacer waits on the wall clock.
type RealPacer struct{}

// Pause sleeps for d.
func (RealPacer) Pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Spacer is backed by a token bucket with a burst of one.
func (RealPacer) Spacer(interval time.Duration) func(ctx context.Context) {
	if interval <= 0 {
		return func(context.Context) {}
	}
	lim := rate.NewLimiter(rate.Every(interval), 1)
	return func(ctx context.Context) {
		_ = lim.Wait(ctx)
	}
}

// NoPacer never waits.
type NoPacer struct{}

// Pause returns immediately.
func (NoPacer) Pause(context.Context, time.Duration) {}

// Spacer returns a no-op.
func (NoPacer) Spacer(time.Duration) func(context.Context) {
	return func(context.Context) {}
}
