package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/septivank/babybeat/internal/domain"
)

// EventsTable is the table holding events
const EventsTable = "events"

// EventColumns lists the columns of EventsTable in EventRow order
var EventColumns = []string{
	"id", "type", "occurred_at", "end_time",
	"feed_type", "amount", "left_duration", "right_duration",
	"sleep_location", "diaper_type", "created_at", "updated_at",
}

// EventRow represents an event in the database
type EventRow struct {
	ID            uuid.UUID  `db:"id"`
	Type          string     `db:"type"`
	OccurredAt    time.Time  `db:"occurred_at"`
	EndTime       *time.Time `db:"end_time"`
	FeedType      *string    `db:"feed_type"`
	Amount        *float64   `db:"amount"`
	LeftDuration  *int       `db:"left_duration"`
	RightDuration *int       `db:"right_duration"`
	SleepLocation *string    `db:"sleep_location"`
	DiaperType    *string    `db:"diaper_type"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// ToDomain converts a row into a domain event
func (r EventRow) ToDomain() domain.Event {
	return domain.Event{
		ID:            r.ID,
		Type:          domain.EventType(r.Type),
		Timestamp:     r.OccurredAt,
		EndTime:       r.EndTime,
		FeedType:      convert[string, domain.FeedType](r.FeedType),
		Amount:        r.Amount,
		LeftDuration:  r.LeftDuration,
		RightDuration: r.RightDuration,
		SleepLocation: convert[string, domain.SleepLocation](r.SleepLocation),
		DiaperType:    convert[string, domain.DiaperType](r.DiaperType),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ClusterValues returns the mutable columns of e keyed by column name.
// Nil pointers become SQL NULL so a rewrite clears stale clusters.
func ClusterValues(e domain.Event) map[string]interface{} {
	return map[string]interface{}{
		"type":           string(e.Type),
		"occurred_at":    e.Timestamp,
		"end_time":       e.EndTime,
		"feed_type":      convert[domain.FeedType, string](e.FeedType),
		"amount":         e.Amount,
		"left_duration":  e.LeftDuration,
		"right_duration": e.RightDuration,
		"sleep_location": convert[domain.SleepLocation, string](e.SleepLocation),
		"diaper_type":    convert[domain.DiaperType, string](e.DiaperType),
	}
}

func convert[From, To ~string](p *From) *To {
	if p == nil {
		return nil
	}
	v := To(*p)
	return &v
}
