package agg

import (
	"errors"
	"testing"
	"time"

	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInterval(t *testing.T) {
	today := time.Date(2026, 1, 10, 15, 30, 0, 0, time.UTC)

	t.Run("7days", func(t *testing.T) {
		plan, err := ResolveInterval(schema.Interval7Days, today)
		require.NoError(t, err)
		assert.Equal(t, schema.ExplicitDates, plan.Mode)
		assert.True(t, plan.FillGaps)
		assert.Equal(t, []string{
			"2026-01-04", "2026-01-05", "2026-01-06", "2026-01-07",
			"2026-01-08", "2026-01-09", "2026-01-10",
		}, plan.Dates)
	})

	t.Run("14days", func(t *testing.T) {
		plan, err := ResolveInterval(schema.Interval14Days, today)
		require.NoError(t, err)
		assert.Equal(t, schema.ExplicitDates, plan.Mode)
		assert.True(t, plan.FillGaps)
		require.Len(t, plan.Dates, 14)
		assert.Equal(t, "2025-12-28", plan.Dates[0])
		assert.Equal(t, "2026-01-10", plan.Dates[13])
	})

	t.Run("1month", func(t *testing.T) {
		plan, err := ResolveInterval(schema.Interval1Month, today)
		require.NoError(t, err)
		assert.Equal(t, schema.RangeFilter, plan.Mode)
		assert.False(t, plan.FillGaps)
		assert.Equal(t, "2025-12-12", plan.StartDate)
		assert.Equal(t, "2026-01-10", plan.EndDate)
		assert.Empty(t, plan.Dates)
	})

	t.Run("alltime", func(t *testing.T) {
		plan, err := ResolveInterval(schema.IntervalAllTime, today)
		require.NoError(t, err)
		assert.Equal(t, schema.Unbounded, plan.Mode)
		assert.False(t, plan.FillGaps)
		assert.Empty(t, plan.StartDate)
		assert.Empty(t, plan.EndDate)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := ResolveInterval("3days", today)
		assert.True(t, errors.Is(err, schema.ErrValidation))
	})
}

func TestResolveIntervalUsesLocalCalendarDay(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// 23:30 on Jan 10 in Los Angeles is already Jan 11 in UTC.
	today := time.Date(2026, 1, 10, 23, 30, 0, 0, loc)
	plan, err := ResolveInterval(schema.Interval7Days, today)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-10", plan.Dates[len(plan.Dates)-1])
}
