// Package clock is the fixed-rate tick source for the session loop.
package clock

import "time"

// Clock hands out fixed-length steps. It never blocks; pacing belongs to
// the session's own advance.
type Clock struct {
	dt      time.Duration
	elapsed time.Duration
	ticks   uint64
}

func New(dt time.Duration) *Clock {
	if dt <= 0 {
		dt = time.Second / 16
	}
	return &Clock{dt: dt}
}

// FromRate builds a clock ticking hz times per second.
func FromRate(hz int) *Clock {
	if hz <= 0 {
		return New(0)
	}
	return New(time.Second / time.Duration(hz))
}

func (c *Clock) DT() time.Duration { return c.dt }

func (c *Clock) Tick() {
	c.elapsed += c.dt
	c.ticks++
}

func (c *Clock) Elapsed() time.Duration { return c.elapsed }
func (c *Clock) Ticks() uint64          { return c.ticks }
