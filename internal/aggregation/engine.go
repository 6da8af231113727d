// Package aggregation turns a flat list of events into weekly statistics.
//
// Every figure is a per-day average whose divisor is the number of distinct
// calendar days, within the week, that hold at least one event of the
// category being averaged.
package aggregation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/septivank/babybeat/internal/domain"
)

const dayLayout = "2006-01-02"

// EventReader is the part of the event store the engine reads from
type EventReader interface {
	FindInRange(ctx context.Context, q domain.RangeQuery) ([]domain.Event, error)
}

// Engine computes weekly statistics over a date range
type Engine struct {
	reader EventReader
	loc    *time.Location
}

// NewEngine creates a new aggregation engine. Days and weeks are cut in loc;
// a nil loc means UTC.
func NewEngine(reader EventReader, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{reader: reader, loc: loc}
}

// GetAggregations fetches the events with a timestamp in [start, end] and
// summarizes them per week. The caller guarantees end >= start.
func (e *Engine) GetAggregations(ctx context.Context, start, end time.Time) (*domain.AggregationData, error) {
	events, err := e.reader.FindInRange(ctx, domain.RangeQuery{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events for aggregation: %w", err)
	}

	return &domain.AggregationData{
		StartDate:   start,
		EndDate:     end,
		WeeklyStats: Summarize(events, e.loc),
	}, nil
}

// Summarize groups events into Monday-start weeks and reduces each week.
// Weeks without events are omitted and the result is ordered by week start.
func Summarize(events []domain.Event, loc *time.Location) []domain.WeeklyStat {
	if loc == nil {
		loc = time.UTC
	}

	buckets := make(map[int64][]domain.Event)
	starts := make(map[int64]time.Time)
	for _, ev := range events {
		ws := WeekStart(ev.Timestamp, loc)
		key := ws.Unix()
		if _, ok := starts[key]; !ok {
			starts[key] = ws
		}
		buckets[key] = append(buckets[key], ev)
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	stats := make([]domain.WeeklyStat, 0, len(keys))
	for _, k := range keys {
		week := buckets[k]
		stats = append(stats, domain.WeeklyStat{
			WeekStart: starts[k],
			DailyAverages: domain.DailyAverages{
				Feed:   feedAverages(week, loc),
				Sleep:  sleepAverages(week, loc),
				Diaper: diaperAverages(week, loc),
			},
		})
	}
	return stats
}

// WeekStart returns Monday 00:00 in loc of the week containing t
func WeekStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	return time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
}

func filterByType(events []domain.Event, typ domain.EventType) []domain.Event {
	var out []domain.Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func daysWithData(events []domain.Event, loc *time.Location) int {
	days := make(map[string]struct{}, len(events))
	for _, ev := range events {
		days[ev.Timestamp.In(loc).Format(dayLayout)] = struct{}{}
	}
	return len(days)
}
