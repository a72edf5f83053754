// Package agg has the pure aggregation logic over daily activity records.
package agg

import (
	"fmt"

	"github.com/huangsam/codepulse/core/algo"
	"github.com/huangsam/codepulse/schema"
)

// AggregateBreakdown sums one breakdown list across records and ranks the names.
// Percentages are recomputed against the records' own grand total, so they are
// never an average of the per-day percents. A negative duration aborts the whole
// computation instead of being skipped, and so does a list larger than its own day.
func AggregateBreakdown(records []schema.DailyRecord, list schema.BreakdownList, topN int) ([]schema.AggregatedEntry, error) {
	grandTotal, err := sumTotals(records)
	if err != nil {
		return nil, err
	}

	// 1. Accumulate per name, remembering first-seen order
	index := make(map[string]int)
	var entries []schema.AggregatedEntry
	for _, rec := range records {
		var listSum int64
		for _, item := range rec.List(list) {
			if item.TotalSeconds < 0 {
				return nil, schema.NewValidationError(rec.Date, string(list)+"."+item.Name, "negative duration")
			}
			listSum += item.TotalSeconds
			pos, ok := index[item.Name]
			if !ok {
				pos = len(entries)
				index[item.Name] = pos
				entries = append(entries, schema.AggregatedEntry{Name: item.Name})
			}
			entries[pos].TotalSeconds += item.TotalSeconds
		}
		if listSum > rec.TotalSeconds {
			return nil, schema.NewValidationError(rec.Date, string(list), fmt.Sprintf("breakdown sum %d exceeds day total %d", listSum, rec.TotalSeconds))
		}
	}

	// 2. Fresh percentages against the grand total
	for i := range entries {
		entries[i].Percent = algo.Percent(entries[i].TotalSeconds, grandTotal)
	}

	// 3. Rank and truncate
	ranked := algo.RankEntries(entries, topN)
	if ranked == nil {
		ranked = []schema.AggregatedEntry{}
	}
	return ranked, nil
}

// AggregateAll runs AggregateBreakdown for each of the four lists.
func AggregateAll(records []schema.DailyRecord, topN int) (map[schema.BreakdownList][]schema.AggregatedEntry, error) {
	out := make(map[schema.BreakdownList][]schema.AggregatedEntry, len(schema.AllBreakdownLists))
	for _, list := range schema.AllBreakdownLists {
		entries, err := AggregateBreakdown(records, list, topN)
		if err != nil {
			return nil, err
		}
		out[list] = entries
	}
	return out, nil
}

// sumTotals adds up the record totals, rejecting negative ones.
func sumTotals(records []schema.DailyRecord) (int64, error) {
	var total int64
	for _, rec := range records {
		if rec.TotalSeconds < 0 {
			return 0, schema.NewValidationError(rec.Date, "total_seconds", "negative duration")
		}
		total += rec.TotalSeconds
	}
	return total, nil
}
