package game

import "time"

// Clock turns wall-clock frame callbacks into clamped simulation deltas
// and supports pausing without feeding one huge delta on resume.
type Clock struct {
	maxDelta float64
	last     time.Time
	started  bool
	paused   bool
}

// NewClock creates a clock whose deltas never exceed maxDelta seconds.
func NewClock(maxDelta float64) *Clock {
	return &Clock{maxDelta: maxDelta}
}

// Tick returns the seconds since the previous Tick, clamped to
// [0, maxDelta]. The first Tick and every Tick while paused return 0.
func (c *Clock) Tick(now time.Time) float64 {
	if c.paused {
		return 0
	}
	if !c.started {
		c.started = true
		c.last = now
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	return clampFloat(dt, 0, c.maxDelta)
}

// Pause stops the clock.
func (c *Clock) Pause() { c.paused = true }

// Resume restarts the clock with now as the new reference.
func (c *Clock) Resume(now time.Time) {
	c.paused = false
	c.started = true
	c.last = now
}

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool { return c.paused }
