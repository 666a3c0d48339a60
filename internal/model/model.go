package model

import (
	"time"

	"nextcal/internal/cadence"
)

// Event is a normalized event record as delivered by a feed, before board
// assembly. One-off events carry only a start; recurring events also
// carry a cadence measured from that start (the anchor).
type Event struct {
	SourceID string // feed source ID (config feed ID)
	ID       string // feed-scoped event ID

	Title       string
	Description string
	Location    string

	// Start is the event's anchor start in the display timezone. Zero
	// when the feed value was missing or unparseable.
	Start time.Time

	// Recurring marks the record as repeating. Cadence is nil when the
	// descriptor was absent or malformed; such events are dropped from
	// the recurring set at build time.
	Recurring bool
	Cadence   cadence.Cadence
}

// Entry is a single line on the assembled board: a one-off event or the
// next resolved occurrence of a recurring one.
type Entry struct {
	SourceID string
	ID       string

	Title       string
	Description string
	Location    string

	// When is the display timestamp: the event start for one-off
	// entries, the resolved next occurrence for recurring ones.
	When time.Time

	// Recurring is true for resolved recurring entries. RRule carries
	// the iCalendar recurrence rule for the export, empty otherwise.
	Recurring bool
	RRule     string
}
