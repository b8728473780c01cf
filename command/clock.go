package command

import (
	"sync"
	"time"
)

// Clock is a time source that can be pinned, as chclock does. The zero
// Clock follows time.Now.
type Clock struct {
	mu     sync.Mutex
	pinned bool
	at     time.Time
}

// Now returns the pinned time, or the wall clock when nothing is pinned.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pinned {
		return c.at
	}
	return time.Now()
}

// Set pins the clock at t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = true
	c.at = t
}

// Advance moves the clock forward by d, pinning it first if necessary.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pinned {
		c.pinned = true
		c.at = time.Now()
	}
	c.at = c.at.Add(d)
}

// Release returns the clock to the wall clock.
func (c *Clock) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = false
}

// Hold pins the clock at t and returns a function that puts it back the
// way it was, pinned or not.
func (c *Clock) Hold(t time.Time) (release func()) {
	c.mu.Lock()
	pinned, at := c.pinned, c.at
	c.pinned, c.at = true, t
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.pinned, c.at = pinned, at
	}
}
