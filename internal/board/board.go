// Package board assembles the published event board: one-off events
// still ahead of the evaluation instant, and recurring events with their
// next resolved occurrence.
package board

import (
	"sort"
	"time"

	"nextcal/internal/cadence"
	appLog "nextcal/internal/log"
	"nextcal/internal/model"
)

// Board is the assembled output for one evaluation instant. Both lists
// are sorted ascending by display timestamp.
type Board struct {
	GeneratedAt time.Time
	Upcoming    []model.Entry
	Recurring   []model.Entry
}

// Build classifies events against now. One-off events are kept when
// their start falls strictly after now and within horizonDays (0 means
// no horizon). Recurring events are resolved through their cadence;
// events whose cadence or anchor cannot produce an occurrence are
// dropped silently. Resolution is recomputed on every call.
func Build(events []model.Event, now time.Time, horizonDays int) Board {
	b := Board{
		GeneratedAt: now,
		Upcoming:    make([]model.Entry, 0),
		Recurring:   make([]model.Entry, 0),
	}

	var horizon time.Time
	if horizonDays > 0 {
		horizon = now.AddDate(0, 0, horizonDays)
	}

	for _, ev := range events {
		if ev.Recurring {
			next, ok := cadence.Next(ev.Cadence, ev.Start, now)
			if !ok {
				appLog.Debug("recurring event unresolvable, dropping",
					"source", ev.SourceID, "event", ev.ID)
				continue
			}
			b.Recurring = append(b.Recurring, entry(ev, next, true))
			continue
		}

		if !ev.Start.After(now) {
			continue
		}
		if horizonDays > 0 && ev.Start.After(horizon) {
			continue
		}
		b.Upcoming = append(b.Upcoming, entry(ev, ev.Start, false))
	}

	sortEntries(b.Upcoming)
	sortEntries(b.Recurring)
	return b
}

func entry(ev model.Event, when time.Time, recurring bool) model.Entry {
	e := model.Entry{
		SourceID:    ev.SourceID,
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		When:        when,
		Recurring:   recurring,
	}
	if recurring {
		e.RRule = cadence.RRuleString(ev.Cadence, ev.Start)
	}
	return e
}

// sortEntries orders by timestamp, breaking ties on event ID so output
// is deterministic across builds.
func sortEntries(entries []model.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].When.Equal(entries[j].When) {
			return entries[i].When.Before(entries[j].When)
		}
		return entries[i].ID < entries[j].ID
	})
}
