// Package loop drives per-frame callbacks from a FrameClock until the
// context is cancelled.
package loop

import (
	"context"
	"time"
)

// DefaultFrameInterval is roughly one display refresh at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameClock delivers one value per display frame.
type FrameClock interface {
	Frames() <-chan time.Time
	Stop()
}

type TickerClock struct {
	ticker *time.Ticker
}

func NewTickerClock(interval time.Duration) *TickerClock {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerClock{ticker: time.NewTicker(interval)}
}

func (c *TickerClock) Frames() <-chan time.Time {
	return c.ticker.C
}

func (c *TickerClock) Stop() {
	c.ticker.Stop()
}

// FrameFunc is called once per frame with the frame time.
type FrameFunc func(now time.Time)

// Run calls fn once per frame until ctx is done or the clock's channel is
// closed. The clock is stopped on return.
func Run(ctx context.Context, clock FrameClock, fn FrameFunc) error {
	defer clock.Stop()

	frames := clock.Frames()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			// A frame and a cancel can be ready together; cancel wins.
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(now)
		}
	}
}
