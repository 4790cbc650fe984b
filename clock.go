package neatbird

import (
	"context"
	"time"
)

// Clock releases simulation ticks. Wait blocks until the next tick may run.
type Clock interface {
	Wait(ctx context.Context) error
}

// FreeClock never waits; it only honours cancellation.
type FreeClock struct{}

func (FreeClock) Wait(ctx context.Context) error {
	return ctx.Err()
}

// TickerClock releases ticks at a fixed rate.
type TickerClock struct {
	ticker *time.Ticker
}

// NewTickerClock returns a clock ticking rate times per second.
func NewTickerClock(rate int) *TickerClock {
	return &TickerClock{ticker: time.NewTicker(time.Second / time.Duration(rate))}
}

func (c *TickerClock) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ticker.C:
		return nil
	}
}

func (c *TickerClock) Stop() {
	c.ticker.Stop()
}

// GatedClock is released from the outside, typically once per frame by the
// frontend. At most one release is kept pending.
type GatedClock struct {
	gate chan struct{}
}

func NewGatedClock() *GatedClock {
	return &GatedClock{gate: make(chan struct{}, 1)}
}

// Release lets one tick run. It never blocks and reports false when a
// release is already pending.
func (c *GatedClock) Release() bool {
	select {
	case c.gate <- struct{}{}:
		return true
	default:
		return false
	}
}

func (c *GatedClock) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.gate:
		return nil
	}
}
