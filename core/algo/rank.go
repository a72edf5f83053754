// Package algo has the ranking and percentage arithmetic shared by the aggregators.
package algo

import (
	"math"
	"sort"

	"github.com/huangsam/codepulse/schema"
)

// RankEntries sorts entries by seconds in descending order and returns the top 'limit'.
// Entries with equal seconds keep their incoming order, so callers that build the slice
// in first-seen order get a first-seen tie-break. A limit <= 0 keeps everything.
func RankEntries(entries []schema.AggregatedEntry, limit int) []schema.AggregatedEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalSeconds > entries[j].TotalSeconds
	})
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// Share is one named percentage of a distribution.
type Share struct {
	Name    string
	Percent float64
}

// RankShares sorts shares by percent in descending order, ties keep their incoming order.
func RankShares(shares []Share) []Share {
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percent > shares[j].Percent
	})
	return shares
}

// Normalize rescales shares so their percents sum to 100.
// A distribution whose percents sum to zero is returned unchanged.
func Normalize(shares []Share) []Share {
	var sum float64
	for _, s := range shares {
		sum += s.Percent
	}
	if sum == 0 {
		return shares
	}
	out := make([]Share, len(shares))
	for i, s := range shares {
		out[i] = Share{Name: s.Name, Percent: s.Percent / sum * 100}
	}
	return out
}

// Percent returns part as a percentage of whole, or 0 when whole is 0.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Apportion turns fractional seconds into whole seconds whose sum never exceeds limit.
// Values are rounded individually when that fits. Otherwise every value is floored and the
// seconds left under limit go one each to the largest remainders, earlier values first on ties.
func Apportion(exact []float64, limit int64) []int64 {
	out := make([]int64, len(exact))
	var sum int64
	for i, v := range exact {
		out[i] = int64(math.Round(v))
		sum += out[i]
	}
	if sum <= limit {
		return out
	}

	sum = 0
	order := make([]int, len(exact))
	for i, v := range exact {
		out[i] = int64(math.Floor(v))
		sum += out[i]
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra := exact[order[a]] - float64(out[order[a]])
		rb := exact[order[b]] - float64(out[order[b]])
		return ra > rb
	})
	for _, i := range order {
		if sum >= limit {
			break
		}
		out[i]++
		sum++
	}
	return out
}
