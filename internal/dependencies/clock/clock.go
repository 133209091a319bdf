// Package clock stamps sessions with their creation time
package clock

import "time"

// Clock is the time source of the session service
type Clock interface {
	Now() time.Time
}

// System reads the wall clock. Times are UTC and truncated to whole seconds,
// the precision sessions are stored and listed with.
type System struct{}

// New returns the wall clock
func New() System {
	return System{}
}

// Now returns the current second in UTC
func (System) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
