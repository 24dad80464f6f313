package clock

import "time"

// Resolution is the precision of timestamps handed out by RealClock.
// Document stores persist datetimes with millisecond precision, so a value
// returned to a caller compares equal to the same value read back later.
const Resolution = time.Millisecond

// Clock is a small abstraction for obtaining the current time.
type Clock interface {
	Now() time.Time
}

// RealClock returns the real current time.
type RealClock struct{}

// Now returns the current time in UTC, truncated to Resolution.
func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(Resolution)
}

// Now is RealClock{}.Now for callers that do not carry a Clock.
func Now() time.Time {
	return RealClock{}.Now()
}

// FakeClock is a simple controllable clock for tests.
type FakeClock struct {
	now time.Time
}

// NewFake creates a FakeClock set to the given time (expected in UTC).
func NewFake(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now returns the fake current time.
func (f *FakeClock) Now() time.Time {
	return f.now
}

// Set sets the fake clock to a specific time.
func (f *FakeClock) Set(t time.Time) {
	f.now = t
}

// Advance moves the fake clock forward by duration d.
func (f *FakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}
