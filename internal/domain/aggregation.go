package domain

import "time"

// AggregationData is the answer to an aggregation request
type AggregationData struct {
	StartDate   time.Time    `json:"startDate"`
	EndDate     time.Time    `json:"endDate"`
	WeeklyStats []WeeklyStat `json:"weeklyStats"`
}

// WeeklyStat summarizes one Monday-start week that contains at least one event
type WeeklyStat struct {
	WeekStart     time.Time     `json:"weekStart"`
	DailyAverages DailyAverages `json:"dailyAverages"`
}

// DailyAverages holds the per-category reductions of a week
type DailyAverages struct {
	Feed   FeedAggregation   `json:"feed"`
	Sleep  SleepAggregation  `json:"sleep"`
	Diaper DiaperAggregation `json:"diaper"`
}

// FeedAggregation is the per-day feed average
type FeedAggregation struct {
	Count  float64     `json:"count"`
	ByType FeedsByType `json:"byType"`
}

// FeedsByType breaks feeds down by feed type
type FeedsByType struct {
	Bottle        AmountStats        `json:"bottle"`
	Breastfeeding BreastfeedingStats `json:"breastfeeding"`
	Solids        AmountStats        `json:"solids"`
}

// AmountStats is used for bottle (ml) and solids (g)
type AmountStats struct {
	Count  float64 `json:"count"`
	Amount float64 `json:"amount"`
}

// BreastfeedingStats averages nursing minutes per side
type BreastfeedingStats struct {
	Count         float64 `json:"count"`
	LeftDuration  float64 `json:"leftDuration"`
	RightDuration float64 `json:"rightDuration"`
	TotalDuration float64 `json:"totalDuration"`
}

// SleepAggregation is the per-day sleep average. Durations are minutes.
type SleepAggregation struct {
	Count      float64                         `json:"count"`
	Duration   float64                         `json:"duration"`
	ByLocation map[SleepLocation]LocationStats `json:"byLocation"`
}

// LocationStats is the sleep average for one location
type LocationStats struct {
	Count    float64 `json:"count"`
	Duration float64 `json:"duration"`
}

// DiaperAggregation is the per-day diaper average
type DiaperAggregation struct {
	Count  float64       `json:"count"`
	ByType DiapersByType `json:"byType"`
}

// DiapersByType always carries both keys
type DiapersByType struct {
	Wet   float64 `json:"wet"`
	Dirty float64 `json:"dirty"`
}
