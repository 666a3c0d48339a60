package cadence

import "time"

const week = 7 * 24 * time.Hour

// StartOfDay returns t's calendar date at 00:00:00.000 in t's location.
// It is used for date-level comparisons only and is never returned as a
// final occurrence.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays adds n calendar days. Month and year boundaries are handled by
// the calendar, not by manual day counting.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddWeeks adds n calendar weeks, preserving the wall-clock time of day
// across DST transitions.
func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

// AddMonths adds n calendar months preserving the day of month where the
// target month allows it. When the target month is shorter (Jan 31 + 1
// month), the day is clamped to the last day of that month rather than
// spilling into the following one, which is what AddDate would do.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	// Normalize the target month via a day-1 date, which AddDate can never
	// overflow.
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	if last := daysInMonth(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), day, hh, mm, ss, t.Nanosecond(), t.Location())
}

// CopyTimeOfDay returns an instant on date's calendar date carrying
// anchor's time of day. Every generated occurrence goes through this so
// the original event time survives regardless of which date-stepping path
// produced the date.
func CopyTimeOfDay(date, anchor time.Time) time.Time {
	hh, mm, ss := anchor.Clock()
	return time.Date(date.Year(), date.Month(), date.Day(), hh, mm, ss, anchor.Nanosecond(), date.Location())
}

// WeeksBetween reports the whole number of 7-day periods between the
// start of a's day and the start of b's day, truncated toward zero.
func WeeksBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)) / week)
}

func daysInMonth(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
