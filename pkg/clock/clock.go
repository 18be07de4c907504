// Package clock formats the local wall-clock time and runs callbacks aligned to
// interval boundaries (minute boundaries by default).
package clock

import (
	"fmt"
	"time"
)

// Clock is the interface anything depending on the system clock should use.
type Clock interface {
	// Now returns the current local time.
	Now() time.Time
}

// SystemClock reads the local system clock.
type SystemClock struct{}

// Now returns time.Now(), which carries the local time zone.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FormatHHMM renders the hour and minute of t in t's own location, zero padded.
func FormatHHMM(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// LocalTime returns the "HH:MM" time read from c.
func LocalTime(c Clock) string {
	if c == nil {
		c = SystemClock{}
	}
	return FormatHHMM(c.Now())
}

// CurrentLocalTime returns the system's local time as "HH:MM".
func CurrentLocalTime() string {
	return LocalTime(SystemClock{})
}
