package schema

import "time"

// AggregatedEntry is a breakdown name summed across many days.
// Percent is relative to the aggregate's own grand total, never an average of daily percents.
type AggregatedEntry struct {
	Name         string  `json:"name"`
	TotalSeconds int64   `json:"total_seconds"`
	Percent      float64 `json:"percent"`
}

// PeriodBucket is one weekly or monthly slice of the tracked history.
type PeriodBucket struct {
	Label        string        `json:"label"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	TotalSeconds int64         `json:"total_seconds"`
	DaysTracked  int           `json:"days_tracked"`
	AvgSeconds   float64       `json:"avg_seconds"`
	DaysInPeriod int           `json:"days_in_period"` // Clipped window length, or days_in_month
	Coverage     float64       `json:"coverage"`       // DaysTracked / DaysInPeriod
	Level        ActivityLevel `json:"level,omitempty"`
}

// PeriodReport holds the buckets of one grouping and the mean over buckets with data.
type PeriodReport struct {
	Kind              PeriodKind     `json:"kind"`
	Buckets           []PeriodBucket `json:"buckets"`
	OverallAvgSeconds float64        `json:"overall_avg_seconds"`
}

// CumulativePoint is the running average after one more tracked day.
type CumulativePoint struct {
	Date                 string  `json:"date"`
	DayNumber            int     `json:"day_number"`
	DailySeconds         int64   `json:"daily_seconds"`
	RunningTotal         int64   `json:"running_total"`
	CumulativeAvgSeconds float64 `json:"cumulative_avg_seconds"`
}

// Totals is the formatted sum of a record window.
type Totals struct {
	TotalSeconds int64  `json:"total_seconds"`
	Hours        int64  `json:"hours"`
	Minutes      int64  `json:"minutes"`
	Digital      string `json:"digital"`
	Text         string `json:"text"`
}

// NewTotals formats a window sum.
func NewTotals(totalSeconds int64) Totals {
	parts := FormatDuration(totalSeconds)
	return Totals{
		TotalSeconds: totalSeconds,
		Hours:        parts.Hours,
		Minutes:      parts.Minutes,
		Digital:      parts.Digital,
		Text:         recordText(parts.Hours, parts.Minutes),
	}
}

// SummariesResult is the answer to an interval query.
type SummariesResult struct {
	User       string                              `json:"user"`
	Plan       IntervalPlan                        `json:"plan"`
	Records    []DailyRecord                       `json:"data"`
	Totals     Totals                              `json:"totals"`
	Count      int                                 `json:"count"`
	Breakdowns map[BreakdownList][]AggregatedEntry `json:"breakdowns"`
}

// StatsSummary holds the all-time headline numbers.
type StatsSummary struct {
	TotalSeconds     int64   `json:"total_seconds"`
	TotalDays        int     `json:"total_days"`
	AvgSecondsPerDay float64 `json:"avg_seconds_per_day"`
	TotalHours       int64   `json:"total_hours"`
	TotalMinutes     int64   `json:"total_minutes"`
}

// StatsResult is the all-time statistics answer.
type StatsResult struct {
	User                string            `json:"user"`
	Stats               StatsSummary      `json:"stats"`
	TopLanguages        []AggregatedEntry `json:"top_languages"`
	TopProjects         []AggregatedEntry `json:"top_projects"`
	TopEditors          []AggregatedEntry `json:"top_editors"`
	TopOperatingSystems []AggregatedEntry `json:"top_operating_systems"`
}

// IngestResult reports the outcome of a sync or backfill batch.
type IngestResult struct {
	RunID        string        `json:"run_id"`
	User         string        `json:"user"`
	Source       IngestSource  `json:"source"`
	DatesWritten []string      `json:"dates_written"`
	DatesFailed  []string      `json:"dates_failed"`
	Duration     time.Duration `json:"duration"`
}
