package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time

	// AfterFunc schedules fn to run after d on its own goroutine.
	// The returned Timer can cancel the call before it fires.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a handle to a scheduled call
type Timer interface {
	// Stop cancels the call. It reports whether the call was still
	// pending; it never blocks waiting for a running call.
	Stop() bool
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

// AfterFunc schedules fn via time.AfterFunc
func (c *RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

var _ Timer = (*time.Timer)(nil)
