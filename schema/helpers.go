package schema

import (
	"fmt"
	"time"
)

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, NewValidationError(s, "date", fmt.Sprintf("expected YYYY-MM-DD: %v", err))
	}
	return t, nil
}

// FormatDate renders the calendar date of t in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay returns midnight of t's calendar day in loc.
// Only the calendar fields are used, so the result never shifts to a neighbouring day.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a midnight by n calendar days, staying on midnight across DST changes.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the calendar length of the month containing t.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DateRange returns every date from start to end inclusive, ascending.
func DateRange(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = AddDays(d, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}
