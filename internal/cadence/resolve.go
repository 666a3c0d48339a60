package cadence

import "time"

// Next routes a cadence to its resolver and returns the first occurrence
// strictly after now. A nil cadence, a zero anchor, or an invalid rule
// yields (zero, false); malformed per-event data never aborts the caller,
// it just excludes the event from the recurring set.
func Next(c Cadence, anchor, now time.Time) (time.Time, bool) {
	if c == nil || anchor.IsZero() {
		return time.Time{}, false
	}
	switch rule := c.(type) {
	case Weekly:
		return ResolveWeekly(anchor, rule, now)
	case Monthly:
		return ResolveMonthly(anchor, rule, now)
	default:
		return time.Time{}, false
	}
}
