// Package util provides calendar helpers shared by services.
package util

import "time"

// MonthRange returns the first instant of t's calendar month and the
// first instant of the next month, in t's location. The range is
// half-open: [start, end).
func MonthRange(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0)
	return start, end
}

// PreviousMonthRange returns the half-open range of the calendar month
// before t's.
func PreviousMonthRange(t time.Time) (start, end time.Time) {
	end = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	start = end.AddDate(0, -1, 0)
	return start, end
}

// DateOnly truncates t to midnight in its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
