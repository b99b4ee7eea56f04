package loop

import (
	"context"
	"time"
)

const ClockLayout = "15:04:05"

// ClockText writes the current time to a sink once per frame.
type ClockText struct {
	Now    func() time.Time
	Layout string
	Sink   func(text string)
}

func NewClockText(sink func(string)) *ClockText {
	return &ClockText{Now: time.Now, Layout: ClockLayout, Sink: sink}
}

// Refresh reads the clock and writes it to the sink once.
func (c *ClockText) Refresh(time.Time) {
	c.Sink(c.Now().Format(c.Layout))
}

// Run refreshes the clock text on every frame of its own FrameClock.
func (c *ClockText) Run(ctx context.Context, clock FrameClock) error {
	return Run(ctx, clock, c.Refresh)
}
