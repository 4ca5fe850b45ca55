package util

import "time"

// SystemClock reports the real current date.
type SystemClock struct{}

// Today returns the current time.
func (SystemClock) Today() time.Time {
	return time.Now()
}
