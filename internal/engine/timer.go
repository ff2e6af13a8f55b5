package engine

import "time"

// MaxFrameDelta caps the step handed to updates after a stall
const MaxFrameDelta = 0.25

// Timer measures the time between frames
type Timer struct {
	now     func() time.Time
	last    time.Time
	elapsed float64
	frames  int

	fpsWindow time.Time
	fpsFrames int
	fps       int
}

func NewTimer() *Timer {
	return newTimer(time.Now)
}

func newTimer(now func() time.Time) *Timer {
	t := now()
	return &Timer{now: now, last: t, fpsWindow: t}
}

// Tick returns the seconds since the previous Tick, capped at MaxFrameDelta
func (t *Timer) Tick() float64 {
	now := t.now()
	dt := now.Sub(t.last).Seconds()
	t.last = now
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	if dt < 0 {
		dt = 0
	}
	t.elapsed += dt
	t.frames++

	t.fpsFrames++
	if now.Sub(t.fpsWindow) >= time.Second {
		t.fps = t.fpsFrames
		t.fpsFrames = 0
		t.fpsWindow = now
	}
	return dt
}

// Elapsed is the sum of every delta returned so far
func (t *Timer) Elapsed() float64 { return t.elapsed }
func (t *Timer) Frames() int      { return t.frames }

// FPS is the frame count of the last completed one second window
func (t *Timer) FPS() int { return t.fps }
