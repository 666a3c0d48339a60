package feed

import (
	"encoding/json"
	"errors"
	"time"

	"nextcal/internal/cadence"
	appLog "nextcal/internal/log"
	"nextcal/internal/model"
)

// record is the wire shape of one event in a feed payload. Every field
// beyond id is optional; malformed values degrade per record rather than
// failing the whole feed.
type record struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Start       string          `json:"start"`
	Recurring   bool            `json:"recurring"`
	Recurrence  json.RawMessage `json:"recurrence"`
}

// ParseFeed decodes a feed body into normalized events. Records without
// an id or a parseable start are logged and skipped; a recurring record
// with a malformed cadence descriptor is kept with a nil cadence so the
// board can drop it from the recurring set while the rest of the feed
// continues to process.
func ParseFeed(src Source, body []byte, loc *time.Location) ([]model.Event, error) {
	if len(body) == 0 {
		return nil, errors.New("empty feed body")
	}
	if loc == nil {
		loc = time.Local
	}

	var records []record
	if err := json.Unmarshal(body, &records); err != nil {
		appLog.Error("feed parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, err
	}

	events := make([]model.Event, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			appLog.Debug("feed record missing id, skipping", "source", src.ID)
			continue
		}

		start, ok := cadence.ParseAnchor(rec.Start, loc)
		if !ok {
			appLog.Debug("feed record has no usable start, skipping", "source", src.ID, "event", rec.ID)
			continue
		}

		ev := model.Event{
			SourceID:    src.ID,
			ID:          rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Location:    rec.Location,
			Start:       start,
			Recurring:   rec.Recurring,
		}
		if rec.Recurring {
			// Nil on malformed descriptors; the board excludes those
			// events instead of erroring out.
			ev.Cadence = cadence.ParseDescriptor(rec.Recurrence)
		}
		events = append(events, ev)
	}

	appLog.Info("feed parse completed", "id", src.ID, "event_count", len(events))
	return events, nil
}
