package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType discriminates which field cluster of an Event is meaningful
type EventType string

const (
	EventTypeFeed   EventType = "feed"
	EventTypeSleep  EventType = "sleep"
	EventTypeDiaper EventType = "diaper"
)

// FeedType selects the feed sub-cluster
type FeedType string

const (
	FeedTypeBottle        FeedType = "bottle"
	FeedTypeBreastfeeding FeedType = "breastfeeding"
	FeedTypeSolids        FeedType = "solids"
)

// SleepLocation is where a sleep took place
type SleepLocation string

const (
	SleepLocationCrib     SleepLocation = "crib"
	SleepLocationBassinet SleepLocation = "bassinet"
	SleepLocationStroller SleepLocation = "stroller"
	SleepLocationCar      SleepLocation = "car"
	SleepLocationCarrier  SleepLocation = "carrier"
	SleepLocationBed      SleepLocation = "bed"
	SleepLocationArms     SleepLocation = "arms"
)

// Valid reports whether l is a known sleep location
func (l SleepLocation) Valid() bool {
	switch l {
	case SleepLocationCrib, SleepLocationBassinet, SleepLocationStroller,
		SleepLocationCar, SleepLocationCarrier, SleepLocationBed, SleepLocationArms:
		return true
	}
	return false
}

// DiaperType is the kind of diaper change
type DiaperType string

const (
	DiaperTypeWet   DiaperType = "wet"
	DiaperTypeDirty DiaperType = "dirty"
)

// Valid reports whether d is a known diaper type
func (d DiaperType) Valid() bool {
	return d == DiaperTypeWet || d == DiaperTypeDirty
}

// Event is one logged baby-care occurrence.
//
// Only the cluster selected by Type (and FeedType for feeds) is populated on a
// normalized event; every other optional field is nil.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Type      EventType  `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	EndTime   *time.Time `json:"endTime"`

	FeedType      *FeedType `json:"feedType"`
	Amount        *float64  `json:"amount"`
	LeftDuration  *int      `json:"leftDuration"`
	RightDuration *int      `json:"rightDuration"`

	SleepLocation *SleepLocation `json:"sleepLocation"`
	DiaperType    *DiaperType    `json:"diaperType"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SleepMinutes returns the sleep duration in minutes and whether it could be
// computed. Sleeps without an end time or a location do not count.
func (e Event) SleepMinutes() (float64, bool) {
	if e.EndTime == nil || e.SleepLocation == nil {
		return 0, false
	}
	return e.EndTime.Sub(e.Timestamp).Minutes(), true
}

// RangeQuery selects events whose timestamp lies in [Start, End].
type RangeQuery struct {
	Start time.Time
	End   time.Time
	// Limit caps the number of returned events; zero means no cap.
	Limit int
	// Descending orders by timestamp newest first.
	Descending bool
}

// Clone returns a copy of e that shares no pointers with it
func (e Event) Clone() Event {
	out := e
	out.EndTime = clonePtr(e.EndTime)
	out.FeedType = clonePtr(e.FeedType)
	out.Amount = clonePtr(e.Amount)
	out.LeftDuration = clonePtr(e.LeftDuration)
	out.RightDuration = clonePtr(e.RightDuration)
	out.SleepLocation = clonePtr(e.SleepLocation)
	out.DiaperType = clonePtr(e.DiaperType)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
