// Package export renders an assembled board as an iCalendar feed so the
// board can be subscribed to from regular calendar clients.
package export

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"nextcal/internal/board"
	"nextcal/internal/model"
)

const prodID = "-//nextcal//event board//EN"

// Calendar builds a VCALENDAR from a board. Each entry becomes a VEVENT
// with its display timestamp as DTSTART; recurring entries additionally
// carry the RRULE derived from their cadence.
func Calendar(b board.Board) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(prodID)

	for _, e := range b.Upcoming {
		addEvent(cal, e, b.GeneratedAt)
	}
	for _, e := range b.Recurring {
		addEvent(cal, e, b.GeneratedAt)
	}
	return cal
}

// ICS serializes the board calendar to its wire form.
func ICS(b board.Board) string {
	return Calendar(b).Serialize()
}

func addEvent(cal *ics.Calendar, e model.Entry, stamp time.Time) {
	ev := cal.AddEvent(e.SourceID + "/" + e.ID + "@nextcal")
	ev.SetDtStampTime(stamp)
	ev.SetStartAt(e.When)
	ev.SetSummary(e.Title)
	if e.Description != "" {
		ev.SetDescription(e.Description)
	}
	if e.Location != "" {
		ev.SetLocation(e.Location)
	}
	if e.Recurring && e.RRule != "" {
		ev.AddRrule(e.RRule)
	}
}
