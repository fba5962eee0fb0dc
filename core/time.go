// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"context"
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	var interval time.Duration
	if cfg.FramesPerSecond <= 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / (time.Duration)(cfg.FramesPerSecond)
	}

	return &Time{
		fps:       cfg.FramesPerSecond,
		interval:  interval,
		fpsTicker: time.NewTicker(interval),
	}
}

// Time contains all the time services and tickers
type Time struct {
	fps       int
	interval  time.Duration
	fpsTicker *time.Ticker
	frames    uint64
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// Interval is the time between two frames.
func (t *Time) Interval() time.Duration {
	return t.interval
}

// FpsTicker gets the initialized fps ticker
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// Frames returns how many frames Run has started.
func (t *Time) Frames() uint64 {
	return t.frames
}

// Run calls frame on every tick until ctx is done or frame fails. The
// frame runs on the calling goroutine, which must own the GL context.
func (t *Time) Run(ctx context.Context, frame func() error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.fpsTicker.C:
			t.frames++
			if err := frame(); err != nil {
				return err
			}
		}
	}
}

// Stop releases the ticker.
func (t *Time) Stop() {
	t.fpsTicker.Stop()
}
