package domain

import (
	"encoding/json"
	"time"
)

// Field is an optional JSON member that remembers whether it was present.
// A present null clears the target; an absent member leaves it untouched.
type Field[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Of returns a present Field holding v
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a present Field holding null
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// EventPatch is a candidate or partial event as submitted by a client.
// Identity and bookkeeping fields are not patchable.
type EventPatch struct {
	Type          Field[EventType]     `json:"type"`
	Timestamp     Field[time.Time]     `json:"timestamp"`
	EndTime       Field[time.Time]     `json:"endTime"`
	FeedType      Field[FeedType]      `json:"feedType"`
	Amount        Field[float64]       `json:"amount"`
	LeftDuration  Field[int]           `json:"leftDuration"`
	RightDuration Field[int]           `json:"rightDuration"`
	SleepLocation Field[SleepLocation] `json:"sleepLocation"`
	DiaperType    Field[DiaperType]    `json:"diaperType"`
}

// Apply overlays the present members of p onto a copy of base
func (p EventPatch) Apply(base Event) Event {
	out := base
	if p.Type.Set {
		out.Type = ""
		if p.Type.Value != nil {
			out.Type = *p.Type.Value
		}
	}
	if p.Timestamp.Set {
		out.Timestamp = time.Time{}
		if p.Timestamp.Value != nil {
			out.Timestamp = *p.Timestamp.Value
		}
	}
	overlay(&out.EndTime, p.EndTime)
	overlay(&out.FeedType, p.FeedType)
	overlay(&out.Amount, p.Amount)
	overlay(&out.LeftDuration, p.LeftDuration)
	overlay(&out.RightDuration, p.RightDuration)
	overlay(&out.SleepLocation, p.SleepLocation)
	overlay(&out.DiaperType, p.DiaperType)
	return out
}

func overlay[T any](dst **T, f Field[T]) {
	if !f.Set {
		return
	}
	if f.Value == nil {
		*dst = nil
		return
	}
	v := *f.Value
	*dst = &v
}
