package testkit

import (
	"sync"
	"time"
)

// DefaultFrameDuration is the step NextFrame applies, matching a 60Hz host
// loop.
const DefaultFrameDuration = 16 * time.Millisecond

// FakeClock provides controllable time for deterministic settle loops: a
// fixed epoch, manual advancement, and frame stepping for pump loops. All
// methods are safe for concurrent use.
type FakeClock struct {
	mu    sync.Mutex
	epoch time.Time
	now   time.Time
	frame time.Duration
}

// NewFakeClock returns a FakeClock at a fixed epoch with the default frame
// duration.
func NewFakeClock() *FakeClock {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &FakeClock{epoch: epoch, now: epoch, frame: DefaultFrameDuration}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Elapsed returns how much fake time has passed since the epoch.
func (c *FakeClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(c.epoch)
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NextFrame advances the clock by one frame and returns the new time.
func (c *FakeClock) NextFrame() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.frame)
	return c.now
}

// SetFrameDuration changes the step NextFrame applies.
func (c *FakeClock) SetFrameDuration(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.frame = d
	}
}

// Set sets the clock to an exact time. Elapsed keeps measuring from the
// original epoch.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
