package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/connectfour/internal/dependencies/clock"
)

// Clock is a settable clock for tests. With a step set, every call to Now
// moves it forward so sessions created back to back get distinct timestamps.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

var _ clock.Clock = (*Clock)(nil)

// NewClock returns a clock frozen at t
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current mocked time, then applies the step
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the current mocked time without applying the step
func (c *Clock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SetStep makes every Now call advance the clock by d. Zero freezes it again.
func (c *Clock) SetStep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
}
