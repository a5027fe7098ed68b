// Package clock abstracts time for receipt timestamps and job durations so
// tests can pin the generation time.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Fixed is a test clock frozen at one instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
