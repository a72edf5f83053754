package agg

import (
	"fmt"

	"github.com/huangsam/codepulse/core/algo"
	"github.com/huangsam/codepulse/schema"
)

// Distribution is the averaged, renormalized percentage mix of each breakdown list.
type Distribution map[schema.BreakdownList][]algo.Share

// ReferenceDistribution averages each name's per-day percent over the days that contain it,
// then rescales every list so its percents sum to 100. Days lacking a name are left out of that
// name's average rather than counted as 0%.
func ReferenceDistribution(reference []schema.DailyRecord) (Distribution, error) {
	if len(reference) == 0 {
		return nil, fmt.Errorf("%w: no reference data available for backfill estimation", schema.ErrConfiguration)
	}

	dist := make(Distribution, len(schema.AllBreakdownLists))
	for _, list := range schema.AllBreakdownLists {
		type acc struct {
			total float64
			count int
		}
		index := make(map[string]int)
		var names []string
		var accs []acc

		for _, rec := range reference {
			for _, item := range rec.List(list) {
				if item.Percent < 0 || item.Percent > 100 {
					return nil, schema.NewValidationError(rec.Date, string(list)+"."+item.Name, "percent outside [0,100]")
				}
				pos, ok := index[item.Name]
				if !ok {
					pos = len(names)
					index[item.Name] = pos
					names = append(names, item.Name)
					accs = append(accs, acc{})
				}
				accs[pos].total += item.Percent
				accs[pos].count++
			}
		}

		shares := make([]algo.Share, len(names))
		for i, name := range names {
			shares[i] = algo.Share{Name: name, Percent: accs[i].total / float64(accs[i].count)}
		}
		dist[list] = algo.Normalize(algo.RankShares(shares))
	}
	return dist, nil
}

// EstimateBackfill builds fully populated records for days whose only known value is the total.
// Each list reuses the reference mix: a name gets round(total * percent / 100) seconds and keeps
// the reference percent unchanged. When that rounding would overfill the day, the largest
// remainders get the spare seconds instead. This is a heuristic imputation, not measured data.
// Without reference records nothing is produced and ErrConfiguration is returned.
func EstimateBackfill(entries []schema.HistoricalEntry, reference []schema.DailyRecord) ([]schema.DailyRecord, error) {
	dist, err := ReferenceDistribution(reference)
	if err != nil {
		return nil, err
	}

	out := make([]schema.DailyRecord, 0, len(entries))
	for _, entry := range entries {
		if _, err := schema.ParseDate(entry.Date, nil); err != nil {
			return nil, err
		}
		if entry.TotalSeconds < 0 {
			return nil, schema.NewValidationError(entry.Date, "total_seconds", "negative duration")
		}

		rec := schema.NewDailyRecord(entry.Date, entry.TotalSeconds)
		for _, list := range schema.AllBreakdownLists {
			rec.SetList(list, scaleShares(dist[list], entry.TotalSeconds))
		}
		out = append(out, rec)
	}
	return out, nil
}

// scaleShares applies a percentage mix to a day total.
// Shares are rounded to whole seconds without letting the list outgrow the day.
func scaleShares(shares []algo.Share, totalSeconds int64) []schema.BreakdownEntry {
	exact := make([]float64, len(shares))
	for i, s := range shares {
		exact[i] = float64(totalSeconds) * s.Percent / 100
	}
	seconds := algo.Apportion(exact, totalSeconds)

	entries := make([]schema.BreakdownEntry, 0, len(shares))
	for i, s := range shares {
		parts := schema.FormatDuration(seconds[i])
		entries = append(entries, schema.BreakdownEntry{
			Name:         s.Name,
			TotalSeconds: seconds[i],
			Percent:      s.Percent,
			Digital:      parts.Digital,
			Text:         parts.Text,
		})
	}
	return entries
}
