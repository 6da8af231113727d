package aggregation

import (
	"time"

	"github.com/septivank/babybeat/internal/domain"
)

func feedAverages(events []domain.Event, loc *time.Location) domain.FeedAggregation {
	feeds := filterByType(events, domain.EventTypeFeed)
	days := daysWithData(feeds, loc)
	if days == 0 {
		return domain.FeedAggregation{}
	}
	d := float64(days)

	var bottle, solids domain.AmountStats
	var breast domain.BreastfeedingStats
	for _, ev := range feeds {
		if ev.FeedType == nil {
			continue
		}
		switch *ev.FeedType {
		case domain.FeedTypeBottle:
			bottle.Count++
			bottle.Amount += valueOr(ev.Amount)
		case domain.FeedTypeSolids:
			solids.Count++
			solids.Amount += valueOr(ev.Amount)
		case domain.FeedTypeBreastfeeding:
			left := float64(valueOr(ev.LeftDuration))
			right := float64(valueOr(ev.RightDuration))
			breast.Count++
			breast.LeftDuration += left
			breast.RightDuration += right
			breast.TotalDuration += left + right
		}
	}

	return domain.FeedAggregation{
		Count: float64(len(feeds)) / d,
		ByType: domain.FeedsByType{
			Bottle: domain.AmountStats{Count: bottle.Count / d, Amount: bottle.Amount / d},
			Solids: domain.AmountStats{Count: solids.Count / d, Amount: solids.Amount / d},
			Breastfeeding: domain.BreastfeedingStats{
				Count:         breast.Count / d,
				LeftDuration:  breast.LeftDuration / d,
				RightDuration: breast.RightDuration / d,
				TotalDuration: breast.TotalDuration / d,
			},
		},
	}
}

func sleepAverages(events []domain.Event, loc *time.Location) domain.SleepAggregation {
	sleeps := filterByType(events, domain.EventTypeSleep)
	out := domain.SleepAggregation{ByLocation: map[domain.SleepLocation]domain.LocationStats{}}

	days := daysWithData(sleeps, loc)
	if days == 0 {
		return out
	}
	d := float64(days)

	// count covers every sleep; duration and the location breakdown only
	// the ones with both an end time and a location
	var total float64
	for _, ev := range sleeps {
		minutes, ok := ev.SleepMinutes()
		if !ok {
			continue
		}
		total += minutes
		stat := out.ByLocation[*ev.SleepLocation]
		stat.Count += 1 / d
		stat.Duration += minutes / d
		out.ByLocation[*ev.SleepLocation] = stat
	}

	out.Count = float64(len(sleeps)) / d
	out.Duration = total / d
	return out
}

func diaperAverages(events []domain.Event, loc *time.Location) domain.DiaperAggregation {
	diapers := filterByType(events, domain.EventTypeDiaper)
	days := daysWithData(diapers, loc)
	if days == 0 {
		return domain.DiaperAggregation{}
	}
	d := float64(days)

	var wet, dirty float64
	for _, ev := range diapers {
		if ev.DiaperType == nil {
			continue
		}
		switch *ev.DiaperType {
		case domain.DiaperTypeWet:
			wet++
		case domain.DiaperTypeDirty:
			dirty++
		}
	}

	return domain.DiaperAggregation{
		Count:  float64(len(diapers)) / d,
		ByType: domain.DiapersByType{Wet: wet / d, Dirty: dirty / d},
	}
}

func valueOr[T int | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}
