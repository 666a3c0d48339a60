package cadence

import "time"

// ResolveWeekly finds the first occurrence of a weekly cadence strictly
// after now. The returned instant falls on the target weekday at a whole
// multiple of Interval weeks from the first matching date on or after the
// anchor, and carries the anchor's time of day. The second return value is
// false when the rule is invalid.
func ResolveWeekly(anchor time.Time, rule Weekly, now time.Time) (time.Time, bool) {
	if !rule.Valid() {
		return time.Time{}, false
	}

	// First calendar date on or after the anchor whose weekday matches.
	delta := (int(rule.Weekday) - int(anchor.Weekday()) + 7) % 7
	base := CopyTimeOfDay(AddDays(StartOfDay(anchor), delta), anchor)

	// Guard: same time of day means base can't precede the anchor when
	// delta is 0, but keep the recurrence from ever starting before it.
	if base.Before(anchor) {
		base = AddWeeks(base, rule.Interval)
	}

	// First occurrence hasn't happened yet.
	if base.After(now) {
		return base, true
	}

	// Jump whole interval blocks to the candidate at or before now, then
	// step forward. The loop runs at most a step or two past the
	// floor-division estimate, so far-future values of now stay cheap.
	steps := WeeksBetween(base, now) / rule.Interval
	next := AddWeeks(base, steps*rule.Interval)
	for !next.After(now) {
		next = AddWeeks(next, rule.Interval)
	}
	return next, true
}
