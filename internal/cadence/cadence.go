// Package cadence resolves the next occurrence of a recurring event.
//
// A recurring event is described by a Cadence (how it repeats) and an
// anchor instant (when it first starts and at what time of day). Given a
// reference instant ("now"), the resolvers compute the first occurrence
// strictly after it. All functions here are pure: no shared state, no
// caching, fresh computation per call.
package cadence

import "time"

// Cadence is the repeat rule of a recurring event. It is a closed sum:
// the only implementations are Weekly and Monthly, and the dispatcher in
// resolve.go matches on them exhaustively.
type Cadence interface {
	isCadence()
}

// Weekly repeats every Interval weeks on Weekday, measured from the first
// matching date on or after the anchor.
type Weekly struct {
	// Interval is the repeat period in weeks, at least 1.
	Interval int
	// Weekday is the target day of week.
	Weekday time.Weekday
}

// Monthly repeats on the WeekOfMonth-th Weekday of each month (1 = first,
// 5 = fifth/last). When a month lacks a fifth occurrence the computed date
// runs into the following month; that raw result is used as-is.
type Monthly struct {
	Weekday     time.Weekday
	WeekOfMonth int
}

func (Weekly) isCadence()  {}
func (Monthly) isCadence() {}

// Valid reports whether the weekly rule is resolvable.
func (w Weekly) Valid() bool {
	return w.Interval >= 1 && w.Weekday >= time.Sunday && w.Weekday <= time.Saturday
}

// Valid reports whether the monthly rule is resolvable.
func (m Monthly) Valid() bool {
	return m.Weekday >= time.Sunday && m.Weekday <= time.Saturday &&
		m.WeekOfMonth >= 1 && m.WeekOfMonth <= 5
}
