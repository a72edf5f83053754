package agg

import (
	"math"

	"github.com/huangsam/codepulse/core/algo"
	"github.com/huangsam/codepulse/schema"
)

// FromRawSummary converts a data-source day into a record.
// Source seconds are fractional and get rounded; the display fields are re-derived
// rather than copied so they always agree with the stored totals.
func FromRawSummary(raw schema.RawDaySummary) schema.DailyRecord {
	total := int64(math.Round(raw.GrandTotal.TotalSeconds))
	rec := schema.NewDailyRecord(raw.Date, total)
	rec.Languages = convertEntries(raw.Languages, total)
	rec.Projects = convertEntries(raw.Projects, total)
	rec.Editors = convertEntries(raw.Editors, total)
	rec.OperatingSystems = convertEntries(raw.OperatingSystems, total)
	return rec
}

// convertEntries rounds a list without pushing its sum past the day total.
func convertEntries(items []schema.RawEntry, total int64) []schema.BreakdownEntry {
	exact := make([]float64, len(items))
	for i, item := range items {
		exact[i] = item.TotalSeconds
	}
	rounded := algo.Apportion(exact, total)

	out := make([]schema.BreakdownEntry, 0, len(items))
	for i, item := range items {
		seconds := rounded[i]
		parts := schema.FormatDuration(seconds)
		out = append(out, schema.BreakdownEntry{
			Name:         item.Name,
			TotalSeconds: seconds,
			Percent:      item.Percent,
			Digital:      parts.Digital,
			Text:         parts.Text,
		})
	}
	return out
}
