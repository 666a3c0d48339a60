package export

import (
	"strings"
	"testing"
	"time"

	"nextcal/internal/board"
	"nextcal/internal/model"
)

func TestICS(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, time.June, 17, 9, 0, 0, 0, time.UTC)
	b := board.Board{
		GeneratedAt: time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC),
		Upcoming: []model.Entry{
			{SourceID: "team", ID: "offsite", Title: "Offsite", Location: "Berlin", When: when.AddDate(0, 0, 3)},
		},
		Recurring: []model.Entry{
			{SourceID: "team", ID: "standup", Title: "Standup", When: when, Recurring: true, RRule: "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO"},
		},
	}

	out := ICS(b)

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"UID:team/offsite@nextcal",
		"SUMMARY:Offsite",
		"LOCATION:Berlin",
		"UID:team/standup@nextcal",
		"RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("serialized calendar missing %q:\n%s", want, out)
		}
	}

	if got := strings.Count(out, "BEGIN:VEVENT"); got != 2 {
		t.Fatalf("expected 2 VEVENTs, got %d", got)
	}
}

func TestICSEmptyBoard(t *testing.T) {
	t.Parallel()

	out := ICS(board.Board{GeneratedAt: time.Now()})
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("empty board should serialize to an empty calendar:\n%s", out)
	}
}
