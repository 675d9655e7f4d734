package animation

import "time"

// Clock provides wall time for frame timestamps. The default implementation
// uses system time. Tests inject a fake clock through [WithClock] to control
// frame timing deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock uses system time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
