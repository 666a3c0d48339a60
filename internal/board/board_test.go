package board

import (
	"testing"
	"time"

	"nextcal/internal/cadence"
	"nextcal/internal/model"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestBuildClassifiesAndSorts(t *testing.T) {
	t.Parallel()

	now := date(2024, time.June, 15, 12, 0)
	events := []model.Event{
		{ID: "later", Title: "Later", Start: date(2024, time.June, 20, 9, 0)},
		{ID: "sooner", Title: "Sooner", Start: date(2024, time.June, 16, 9, 0)},
		{ID: "past", Title: "Already happened", Start: date(2024, time.June, 1, 9, 0)},
		{
			ID:        "standup",
			Title:     "Standup",
			Start:     date(2024, time.January, 1, 9, 0), // Monday
			Recurring: true,
			Cadence:   cadence.Weekly{Interval: 1, Weekday: time.Monday},
		},
		{
			ID:        "retro",
			Title:     "Retro",
			Start:     date(2024, time.January, 1, 9, 0),
			Recurring: true,
			Cadence:   cadence.Monthly{Weekday: time.Friday, WeekOfMonth: 1},
		},
	}

	b := Build(events, now, 0)

	if len(b.Upcoming) != 2 {
		t.Fatalf("upcoming = %d entries, want 2", len(b.Upcoming))
	}
	if b.Upcoming[0].ID != "sooner" || b.Upcoming[1].ID != "later" {
		t.Fatalf("upcoming order = %s, %s", b.Upcoming[0].ID, b.Upcoming[1].ID)
	}

	if len(b.Recurring) != 2 {
		t.Fatalf("recurring = %d entries, want 2", len(b.Recurring))
	}
	// Next Monday after June 15 is June 17; first Friday of July is the
	// next "first Friday" after June 15 (June 7 already passed).
	if !b.Recurring[0].When.Equal(date(2024, time.June, 17, 9, 0)) {
		t.Fatalf("standup next = %v", b.Recurring[0].When)
	}
	if !b.Recurring[1].When.Equal(date(2024, time.July, 5, 9, 0)) {
		t.Fatalf("retro next = %v", b.Recurring[1].When)
	}
	for _, e := range b.Recurring {
		if !e.When.After(now) {
			t.Fatalf("recurring entry %s at %v not strictly after now", e.ID, e.When)
		}
		if e.RRule == "" {
			t.Fatalf("recurring entry %s missing RRULE", e.ID)
		}
	}
}

func TestBuildDropsUnresolvableRecurring(t *testing.T) {
	t.Parallel()

	now := date(2024, time.June, 15, 12, 0)
	events := []model.Event{
		{ID: "no-cadence", Recurring: true, Start: date(2024, time.January, 1, 9, 0)},
		{ID: "no-anchor", Recurring: true, Cadence: cadence.Weekly{Interval: 1, Weekday: time.Monday}},
		{ID: "bad-rule", Recurring: true, Start: date(2024, time.January, 1, 9, 0), Cadence: cadence.Monthly{Weekday: time.Friday, WeekOfMonth: 6}},
	}

	b := Build(events, now, 0)
	if len(b.Recurring) != 0 {
		t.Fatalf("expected all recurring events dropped, got %d", len(b.Recurring))
	}
	if len(b.Upcoming) != 0 {
		t.Fatalf("dropped recurring events must not leak into upcoming, got %d", len(b.Upcoming))
	}
}

func TestBuildHorizon(t *testing.T) {
	t.Parallel()

	now := date(2024, time.June, 15, 12, 0)
	events := []model.Event{
		{ID: "inside", Start: date(2024, time.June, 18, 9, 0)},
		{ID: "outside", Start: date(2024, time.August, 1, 9, 0)},
	}

	b := Build(events, now, 7)
	if len(b.Upcoming) != 1 || b.Upcoming[0].ID != "inside" {
		t.Fatalf("horizon filter failed: %+v", b.Upcoming)
	}
}

func TestBuildDeterministicTieBreak(t *testing.T) {
	t.Parallel()

	now := date(2024, time.June, 15, 12, 0)
	when := date(2024, time.June, 16, 9, 0)
	events := []model.Event{
		{ID: "b", Start: when},
		{ID: "a", Start: when},
	}

	b := Build(events, now, 0)
	if b.Upcoming[0].ID != "a" || b.Upcoming[1].ID != "b" {
		t.Fatalf("tie break order = %s, %s", b.Upcoming[0].ID, b.Upcoming[1].ID)
	}
}
