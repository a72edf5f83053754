// Package schema has the models, constants and formatting helpers shared by all parts of codepulse.
package schema

import "time"

// BreakdownEntry is one named slice of a day, such as a language or a project.
type BreakdownEntry struct {
	Name         string  `json:"name"`
	TotalSeconds int64   `json:"total_seconds"`
	Percent      float64 `json:"percent"`
	Digital      string  `json:"digital"`
	Text         string  `json:"text"`
}

// DailyRecord is the stored activity of one user on one calendar day.
// The display fields are a materialized view of TotalSeconds produced by FormatRecordDuration.
type DailyRecord struct {
	Date             string           `json:"date"`
	TotalSeconds     int64            `json:"total_seconds"`
	Digital          string           `json:"digital"`
	Text             string           `json:"text"`
	Hours            int64            `json:"hours"`
	Minutes          int64            `json:"minutes"`
	Seconds          int64            `json:"seconds"`
	Languages        []BreakdownEntry `json:"languages"`
	Projects         []BreakdownEntry `json:"projects"`
	Editors          []BreakdownEntry `json:"editors"`
	OperatingSystems []BreakdownEntry `json:"operating_systems"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// List returns the breakdown list with the given name.
func (r DailyRecord) List(list BreakdownList) []BreakdownEntry {
	switch list {
	case Languages:
		return r.Languages
	case Projects:
		return r.Projects
	case Editors:
		return r.Editors
	case OperatingSystems:
		return r.OperatingSystems
	default:
		return nil
	}
}

// SetList replaces the breakdown list with the given name.
func (r *DailyRecord) SetList(list BreakdownList, entries []BreakdownEntry) {
	switch list {
	case Languages:
		r.Languages = entries
	case Projects:
		r.Projects = entries
	case Editors:
		r.Editors = entries
	case OperatingSystems:
		r.OperatingSystems = entries
	}
}

// NewDailyRecord builds a record for the date with every display field derived from totalSeconds.
// Breakdown lists start empty.
func NewDailyRecord(date string, totalSeconds int64) DailyRecord {
	parts := FormatRecordDuration(totalSeconds)
	return DailyRecord{
		Date:             date,
		TotalSeconds:     totalSeconds,
		Digital:          parts.Digital,
		Text:             parts.Text,
		Hours:            parts.Hours,
		Minutes:          parts.Minutes,
		Seconds:          parts.Seconds,
		Languages:        []BreakdownEntry{},
		Projects:         []BreakdownEntry{},
		Editors:          []BreakdownEntry{},
		OperatingSystems: []BreakdownEntry{},
	}
}

// ZeroRecord is the placeholder emitted for a requested date without stored activity.
func ZeroRecord(date string) DailyRecord {
	return NewDailyRecord(date, 0)
}

// GrandTotal is the day total reported by the data source.
type GrandTotal struct {
	TotalSeconds float64 `json:"total_seconds"`
	Digital      string  `json:"digital"`
	Text         string  `json:"text"`
	Hours        int64   `json:"hours"`
	Minutes      int64   `json:"minutes"`
}

// RawEntry is a breakdown entry as reported by the data source, with fractional seconds.
type RawEntry struct {
	Name         string  `json:"name"`
	TotalSeconds float64 `json:"total_seconds"`
	Percent      float64 `json:"percent"`
	Digital      string  `json:"digital"`
	Text         string  `json:"text"`
}

// RawDaySummary is one day as returned by the time-tracking data source.
type RawDaySummary struct {
	Date             string     `json:"date"`
	GrandTotal       GrandTotal `json:"grand_total"`
	Languages        []RawEntry `json:"languages"`
	Projects         []RawEntry `json:"projects"`
	Editors          []RawEntry `json:"editors"`
	OperatingSystems []RawEntry `json:"operating_systems"`
}

// HistoricalEntry is a day for which only the total duration is known.
type HistoricalEntry struct {
	Date         string `json:"date"`
	TotalSeconds int64  `json:"total_seconds"`
}

// IntervalPlan is the concrete query derived from an interval kind and a fixed "today".
type IntervalPlan struct {
	Kind      IntervalKind `json:"kind"`
	Mode      ResolveMode  `json:"mode"`
	Dates     []string     `json:"dates,omitempty"`      // Set for ExplicitDates
	StartDate string       `json:"start_date,omitempty"` // Set for RangeFilter
	EndDate   string       `json:"end_date,omitempty"`   // Set for RangeFilter
	FillGaps  bool         `json:"fill_gaps"`
}
