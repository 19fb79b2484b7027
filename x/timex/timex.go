package timex

import "time"

// Ms converts whole milliseconds from configuration into a Duration.
func Ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Reached reports whether at least every has elapsed between since and now.
// A clock that stepped backwards counts as not reached.
func Reached(since, now time.Time, every time.Duration) bool {
	d := now.Sub(since)
	return d >= 0 && d >= every
}

// Clock is the time source the control loop runs on. Sleep blocks the caller.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time        { return time.Now() }
func (System) Sleep(d time.Duration) { time.Sleep(d) }
