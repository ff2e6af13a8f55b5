package engine

import (
	"time"

	"graphx/internal/config"
)

const (
	// PausedFPS caps the frame rate while the app is paused
	PausedFPS = 30

	spinThreshold = 200 * time.Microsecond
)

// FPSLimiter paces the loop to the configured frame rate. It sleeps for
// most of the remaining frame time and spins for the rest.
type FPSLimiter struct {
	limit func() int
	now   func() time.Time
	sleep func(time.Duration)

	next    time.Time
	resyncs int
}

// NewFPSLimiter creates a limiter that follows config.GetFPSLimit
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{limit: config.GetFPSLimit, now: time.Now, sleep: time.Sleep}
}

// target returns the frame duration, or zero when unlimited
func (f *FPSLimiter) target(paused bool) time.Duration {
	limit := f.limit()
	if paused {
		limit = PausedFPS
	}
	if limit <= 0 {
		return 0
	}
	return time.Second / time.Duration(limit)
}

// Wait blocks until the next frame is due
func (f *FPSLimiter) Wait(paused bool) {
	target := f.target(paused)
	if target == 0 {
		f.next = time.Time{}
		return
	}

	if f.next.IsZero() {
		f.next = f.now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := f.next.Sub(f.now())
		if remaining <= 0 {
			break
		}
		if remaining > spinThreshold {
			f.sleep(remaining - spinThreshold)
		}
	}

	// a frame more than one target late restarts the schedule instead of catching up
	if late := f.now().Sub(f.next); late > target {
		f.next = f.now().Add(target)
		f.resyncs++
	}
}

// Resyncs counts how often a late frame restarted the schedule
func (f *FPSLimiter) Resyncs() int { return f.resyncs }
