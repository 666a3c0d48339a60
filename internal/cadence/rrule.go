package cadence

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"
)

// rruleWeekdays maps time.Weekday (Sunday = 0) onto rrule weekday
// constants.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// RRule expresses a cadence as an iCalendar recurrence rule anchored at
// the given instant. Weekly becomes FREQ=WEEKLY;INTERVAL=n;BYDAY=xx and
// monthly FREQ=MONTHLY;BYDAY=nXX. Used by the calendar export; an invalid
// cadence is an error so the export can omit the RRULE line.
func RRule(c Cadence, anchor time.Time) (*rrule.RRule, error) {
	switch rule := c.(type) {
	case Weekly:
		if !rule.Valid() {
			return nil, errors.New("cadence: invalid weekly rule")
		}
		return rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Interval:  rule.Interval,
			Byweekday: []rrule.Weekday{rruleWeekdays[rule.Weekday]},
			Dtstart:  anchor,
		})
	case Monthly:
		if !rule.Valid() {
			return nil, errors.New("cadence: invalid monthly rule")
		}
		return rrule.NewRRule(rrule.ROption{
			Freq:      rrule.MONTHLY,
			Byweekday: []rrule.Weekday{rruleWeekdays[rule.Weekday].Nth(rule.WeekOfMonth)},
			Dtstart:   anchor,
		})
	default:
		return nil, errors.New("cadence: no rrule mapping")
	}
}

// RRuleString renders the RRULE property value (without DTSTART) for a
// cadence, or "" when the cadence has no mapping.
func RRuleString(c Cadence, anchor time.Time) string {
	r, err := RRule(c, anchor)
	if err != nil {
		return ""
	}
	return r.OrigOptions.RRuleString()
}
