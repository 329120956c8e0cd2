package clock

import "time"

// Clock abstracts wall-clock access so time-dependent logic (lazy ban
// expiry, snapshot timestamps) can be driven deterministically in tests
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
