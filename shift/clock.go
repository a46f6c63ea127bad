package shift

import "time"

// Clock supplies wall-clock time. Transition timestamps and overtime
// evaluation always go through a Clock so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to a Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}
