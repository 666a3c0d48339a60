package cadence

import "time"

// monthlyHorizon bounds the monthly search. Anything not found within
// this many months is treated as unresolvable rather than an error.
const monthlyHorizon = 24

// NthWeekdayOfMonth returns the date of the n-th occurrence of weekday in
// the month containing t: the first day of the month, offset to the first
// matching weekday, plus n-1 weeks. For n = 5 in a month without a fifth
// occurrence the result runs into the following month; callers accept
// that raw date.
func NthWeekdayOfMonth(t time.Time, weekday time.Weekday, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	delta := (int(weekday) - int(first.Weekday()) + 7) % 7
	return AddWeeks(AddDays(first, delta), n-1)
}

// ResolveMonthly finds the first occurrence of a monthly cadence strictly
// after now. Months are scanned from the month containing now, skipping
// candidates before the anchor, for at most monthlyHorizon months. The
// second return value is false when the rule is invalid or nothing falls
// inside the horizon.
func ResolveMonthly(anchor time.Time, rule Monthly, now time.Time) (time.Time, bool) {
	if !rule.Valid() {
		return time.Time{}, false
	}

	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < monthlyHorizon; i++ {
		occ := CopyTimeOfDay(NthWeekdayOfMonth(month, rule.Weekday, rule.WeekOfMonth), anchor)
		if !occ.Before(anchor) && occ.After(now) {
			return occ, true
		}
		month = AddMonths(month, 1)
	}
	return time.Time{}, false
}
