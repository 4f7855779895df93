package clock

import "time"

// Clock abstracts the current time so callers can be tested with a fixed instant.
type Clock interface {
	Now() time.Time
}

// RealClock returns the local wall clock time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }
