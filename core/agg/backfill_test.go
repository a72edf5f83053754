package agg

import (
	"errors"
	"testing"

	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateBackfill(t *testing.T) {
	reference := []schema.DailyRecord{
		record("2026-01-01", 3600, entry("Go", 1440, 40), entry("Python", 2160, 60)),
	}
	entries := []schema.HistoricalEntry{{Date: "2025-06-01", TotalSeconds: 7200}}

	records, err := EstimateBackfill(entries, reference)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "2025-06-01", rec.Date)
	assert.Equal(t, int64(7200), rec.TotalSeconds)
	assert.Equal(t, "2:00", rec.Digital)
	assert.Equal(t, "2 hrs 0 mins", rec.Text)

	require.Len(t, rec.Languages, 2)
	assert.Equal(t, "Python", rec.Languages[0].Name)
	assert.Equal(t, int64(4320), rec.Languages[0].TotalSeconds)
	assert.Equal(t, "Go", rec.Languages[1].Name)
	assert.Equal(t, int64(2880), rec.Languages[1].TotalSeconds)
	assert.InDelta(t, 40.0, rec.Languages[1].Percent, 1e-9)
	assert.Equal(t, "0:48", rec.Languages[1].Digital)

	// Lists missing from the reference stay empty.
	assert.Empty(t, rec.Projects)
	require.NoError(t, ValidateRecord(rec))
}

func TestEstimateBackfillKeepsListsWithinTotal(t *testing.T) {
	var langs []schema.BreakdownEntry
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		langs = append(langs, entry(name, 450, 12.5))
	}
	reference := []schema.DailyRecord{record("2026-01-01", 3600, langs...)}

	records, err := EstimateBackfill([]schema.HistoricalEntry{{Date: "2025-06-01", TotalSeconds: 60}}, reference)
	require.NoError(t, err)
	rec := records[0]
	require.Len(t, rec.Languages, 8)

	// 7.5s each would round to 64s; the spare seconds go to the first names instead.
	var sum int64
	for i, item := range rec.Languages {
		sum += item.TotalSeconds
		if i < 4 {
			assert.Equal(t, int64(8), item.TotalSeconds, item.Name)
		} else {
			assert.Equal(t, int64(7), item.TotalSeconds, item.Name)
		}
		assert.InDelta(t, 12.5, item.Percent, 1e-9)
	}
	assert.Equal(t, int64(60), sum)
	require.NoError(t, ValidateRecord(rec))

	aggregated, err := AggregateBreakdown(records, schema.Languages, 0)
	require.NoError(t, err)
	var percent float64
	for _, e := range aggregated {
		percent += e.Percent
	}
	assert.LessOrEqual(t, percent, 100.0001)
}

func TestEstimateBackfillAveragesOverPresentDays(t *testing.T) {
	reference := []schema.DailyRecord{
		record("2026-01-01", 100, entry("Go", 80, 80), entry("Rust", 20, 20)),
		record("2026-01-02", 100, entry("Go", 40, 40)),
	}
	dist, err := ReferenceDistribution(reference)
	require.NoError(t, err)

	// Go averages 60 over two days, Rust 20 over one day, then both rescale to 100.
	langs := dist[schema.Languages]
	require.Len(t, langs, 2)
	assert.Equal(t, "Go", langs[0].Name)
	assert.InDelta(t, 75.0, langs[0].Percent, 1e-9)
	assert.InDelta(t, 25.0, langs[1].Percent, 1e-9)
}

func TestEstimateBackfillZeroPercentReference(t *testing.T) {
	reference := []schema.DailyRecord{record("2026-01-01", 0, entry("Go", 0, 0))}
	records, err := EstimateBackfill([]schema.HistoricalEntry{{Date: "2025-06-01", TotalSeconds: 600}}, reference)
	require.NoError(t, err)
	require.Len(t, records[0].Languages, 1)
	assert.Equal(t, int64(0), records[0].Languages[0].TotalSeconds)
}

func TestEstimateBackfillNoReference(t *testing.T) {
	_, err := EstimateBackfill([]schema.HistoricalEntry{{Date: "2025-06-01", TotalSeconds: 600}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrConfiguration))
}

func TestEstimateBackfillInvalidEntries(t *testing.T) {
	reference := []schema.DailyRecord{record("2026-01-01", 100, entry("Go", 100, 100))}

	_, err := EstimateBackfill([]schema.HistoricalEntry{{Date: "06/01/2025", TotalSeconds: 1}}, reference)
	assert.True(t, errors.Is(err, schema.ErrValidation))

	_, err = EstimateBackfill([]schema.HistoricalEntry{{Date: "2025-06-01", TotalSeconds: -1}}, reference)
	assert.True(t, errors.Is(err, schema.ErrValidation))
}

func TestReferenceDistributionRejectsBadPercent(t *testing.T) {
	reference := []schema.DailyRecord{record("2026-01-01", 100, entry("Go", 100, 140))}
	_, err := ReferenceDistribution(reference)
	assert.True(t, errors.Is(err, schema.ErrValidation))
}
