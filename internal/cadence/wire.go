package cadence

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// descriptor is the JSON wire shape of a cadence rule as delivered by
// event feeds:
//
//	{"type": "weekly", "interval": 2, "weekday": 3}
//	{"type": "monthly", "weekday": 5, "weekOfMonth": 1}
//
// Numeric fields are decoded as floats so that non-integer values can be
// detected and rejected instead of being silently truncated.
type descriptor struct {
	Type        string   `json:"type"`
	Interval    *float64 `json:"interval"`
	Weekday     *float64 `json:"weekday"`
	WeekOfMonth *float64 `json:"weekOfMonth"`
}

// ParseDescriptor decodes a raw JSON cadence descriptor. Any malformed
// shape (unknown discriminant, out-of-range or fractional fields, missing
// weekday) returns nil; the caller treats nil as "no resolvable
// occurrence" rather than an error.
func ParseDescriptor(raw json.RawMessage) Cadence {
	if len(raw) == 0 {
		return nil
	}
	var d descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}

	weekday, ok := intField(d.Weekday)
	if !ok {
		return nil
	}

	switch strings.ToLower(d.Type) {
	case "weekly":
		interval := 1
		if d.Interval != nil {
			if interval, ok = intField(d.Interval); !ok {
				return nil
			}
		}
		w := Weekly{Interval: interval, Weekday: time.Weekday(weekday)}
		if !w.Valid() {
			return nil
		}
		return w
	case "monthly":
		week, ok := intField(d.WeekOfMonth)
		if !ok {
			return nil
		}
		m := Monthly{Weekday: time.Weekday(weekday), WeekOfMonth: week}
		if !m.Valid() {
			return nil
		}
		return m
	default:
		return nil
	}
}

// anchorLayouts are the accepted anchor date-time forms, tried in order.
// Zone-less layouts are interpreted in the caller's display location.
var anchorLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseAnchor parses an event's anchor start value. The zero time with
// false means the anchor is unparseable and the event has no computable
// occurrence.
func ParseAnchor(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range anchorLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// intField unwraps an optional JSON number, requiring it to be a finite
// integer.
func intField(v *float64) (int, bool) {
	if v == nil {
		return 0, false
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
