package core

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/internal/iocache"
	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testConfig pins today to 2026-03-10 UTC.
func testConfig() *contract.Config {
	return &contract.Config{
		User:         "akshay",
		Interval:     schema.Interval7Days,
		Limit:        contract.DefaultResultLimit,
		Top:          contract.DefaultTopN,
		Location:     time.UTC,
		Today:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		SyncDays:     3,
		Precision:    1,
		Output:       schema.TextOut,
		StoreBackend: schema.NoneBackend,
	}
}

func newMocks() (*iocache.MockStoreManager, *iocache.MockRecordStore) {
	mgr := &iocache.MockStoreManager{}
	store := &iocache.MockRecordStore{}
	mgr.On("GetRecordStore").Return(store)
	return mgr, store
}

func record(date string, total int64, languages ...schema.BreakdownEntry) schema.DailyRecord {
	rec := schema.NewDailyRecord(date, total)
	if languages != nil {
		rec.Languages = languages
	}
	return rec
}

func TestRecordStore_NotInitialized(t *testing.T) {
	_, err := recordStore(nil)
	assert.ErrorIs(t, err, errNoStore)

	mgr := &iocache.MockStoreManager{}
	mgr.On("GetRecordStore").Return(nil)
	_, err = recordStore(mgr)
	assert.ErrorIs(t, err, errNoStore)
}

func TestGetSummariesResults_FillsGaps(t *testing.T) {
	cfg := testConfig()
	mgr, store := newMocks()
	dates := []string{"2026-03-04", "2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08", "2026-03-09", "2026-03-10"}
	store.On("FindByDates", mock.Anything, "akshay", dates).Return([]schema.DailyRecord{
		record("2026-03-09", 3600, schema.BreakdownEntry{Name: "Go", TotalSeconds: 3600, Percent: 100}),
		record("2026-03-05", 1800, schema.BreakdownEntry{Name: "SQL", TotalSeconds: 1800, Percent: 100}),
	}, nil)

	result, _, err := GetSummariesResults(context.Background(), cfg, mgr)
	require.NoError(t, err)

	require.Len(t, result.Records, 7)
	assert.Equal(t, 7, result.Count)
	for i, rec := range result.Records {
		assert.Equal(t, dates[i], rec.Date)
	}
	assert.Equal(t, int64(0), result.Records[0].TotalSeconds)
	assert.Equal(t, "0 secs", result.Records[0].Text)
	assert.Equal(t, int64(1800), result.Records[1].TotalSeconds)
	assert.Equal(t, int64(5400), result.Totals.TotalSeconds)
	assert.Equal(t, "1:30", result.Totals.Digital)

	languages := result.Breakdowns[schema.Languages]
	require.Len(t, languages, 2)
	assert.Equal(t, "Go", languages[0].Name)
	assert.InDelta(t, 66.67, languages[0].Percent, 0.01)
	store.AssertExpectations(t)
}

func TestGetSummariesResults_RangeAndLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Interval = schema.Interval1Month
	cfg.Limit = 2
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "2026-02-09", "2026-03-10").Return([]schema.DailyRecord{
		record("2026-03-01", 60),
		record("2026-02-10", 120),
		record("2026-02-20", 180),
	}, nil)

	result, _, err := GetSummariesResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "2026-02-10", result.Records[0].Date)
	assert.Equal(t, "2026-02-20", result.Records[1].Date)
	assert.Equal(t, schema.RangeFilter, result.Plan.Mode)
}

func TestGetSummariesResults_AllTimeEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.Interval = schema.IntervalAllTime
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return(nil, nil)

	result, _, err := GetSummariesResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.NotNil(t, result.Records)
	assert.Empty(t, result.Records)
	assert.Equal(t, "0 hrs 0 mins", result.Totals.Text)
}

func TestGetSummariesResults_StoreError(t *testing.T) {
	mgr, store := newMocks()
	store.On("FindByDates", mock.Anything, "akshay", mock.Anything).Return(nil, assert.AnError)

	_, _, err := GetSummariesResults(context.Background(), testConfig(), mgr)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGetStatsResults(t *testing.T) {
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return([]schema.DailyRecord{
		record("2026-03-02", 20000, schema.BreakdownEntry{Name: "Go", TotalSeconds: 20000, Percent: 100}),
		record("2026-03-01", 7612, schema.BreakdownEntry{Name: "Python", TotalSeconds: 7612, Percent: 100}),
	}, nil)

	result, _, err := GetStatsResults(context.Background(), testConfig(), mgr)
	require.NoError(t, err)
	assert.Equal(t, int64(27612), result.Stats.TotalSeconds)
	assert.Equal(t, 2, result.Stats.TotalDays)
	assert.Equal(t, int64(7), result.Stats.TotalHours)
	assert.Equal(t, int64(40), result.Stats.TotalMinutes)
	assert.InDelta(t, 13806, result.Stats.AvgSecondsPerDay, 1e-9)
	require.Len(t, result.TopLanguages, 2)
	assert.Equal(t, "Go", result.TopLanguages[0].Name)
	assert.Empty(t, result.TopProjects)
}

func TestGetStatsResults_NoRecords(t *testing.T) {
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return([]schema.DailyRecord{}, nil)

	result, _, err := GetStatsResults(context.Background(), testConfig(), mgr)
	require.NoError(t, err)
	assert.Zero(t, result.Stats.TotalSeconds)
	assert.Zero(t, result.Stats.AvgSecondsPerDay)
}

func TestGetWeeklyResults_DefaultsToEarliestRecord(t *testing.T) {
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return([]schema.DailyRecord{
		record("2026-03-08", 3600),
		record("2026-03-01", 7200),
	}, nil)

	report, _, err := GetWeeklyResults(context.Background(), testConfig(), mgr)
	require.NoError(t, err)
	require.Len(t, report.Buckets, 2)
	assert.Equal(t, "2026-03-01", report.Buckets[0].StartDate)
	assert.Equal(t, "2026-03-07", report.Buckets[0].EndDate)
	assert.Equal(t, "2026-03-10", report.Buckets[1].EndDate)
	assert.Equal(t, 3, report.Buckets[1].DaysInPeriod)
}

func TestGetWeeklyResults_ConfiguredStart(t *testing.T) {
	cfg := testConfig()
	cfg.TrackingStart = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return([]schema.DailyRecord{record("2026-03-01", 7200)}, nil)

	report, _, err := GetWeeklyResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	require.Len(t, report.Buckets, 1)
	assert.Equal(t, "2026-03-04", report.Buckets[0].StartDate)
	assert.Zero(t, report.Buckets[0].DaysTracked)
}

func TestGetWeeklyResults_Empty(t *testing.T) {
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return(nil, nil)

	report, _, err := GetWeeklyResults(context.Background(), testConfig(), mgr)
	require.NoError(t, err)
	assert.Equal(t, schema.WeeklyPeriod, report.Kind)
	assert.Empty(t, report.Buckets)
}

func TestGetMonthlyResults(t *testing.T) {
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return([]schema.DailyRecord{
		record("2026-01-05", 3600),
		record("2026-03-02", 1800),
		record("2026-03-01", 1800),
	}, nil)

	report, _, err := GetMonthlyResults(context.Background(), testConfig(), mgr)
	require.NoError(t, err)
	assert.Equal(t, schema.MonthlyPeriod, report.Kind)
	require.Len(t, report.Buckets, 2)
	assert.Equal(t, int64(3600), report.Buckets[1].TotalSeconds)
	assert.Equal(t, 2, report.Buckets[1].DaysTracked)
	assert.Equal(t, 31, report.Buckets[1].DaysInPeriod)
}

func TestGetCumulativeResults(t *testing.T) {
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return([]schema.DailyRecord{
		record("2026-03-03", 1800),
		record("2026-03-01", 3600),
	}, nil)

	points, _, err := GetCumulativeResults(context.Background(), testConfig(), mgr)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-03-01", points[0].Date)
	assert.Equal(t, int64(5400), points[1].RunningTotal)
	assert.InDelta(t, 2700, points[1].CumulativeAvgSeconds, 1e-9)
}

func TestExecuteStats_WritesOutput(t *testing.T) {
	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = t.TempDir() + "/stats.json"
	mgr, store := newMocks()
	store.On("FindByRange", mock.Anything, "akshay", "", "").Return([]schema.DailyRecord{record("2026-03-01", 60)}, nil)

	require.NoError(t, ExecuteStats(context.Background(), cfg, mgr))
	assert.FileExists(t, cfg.OutputFile)
}

func TestWithSuppressProgress(t *testing.T) {
	assert.False(t, shouldSuppressProgress(context.Background()))
	assert.True(t, shouldSuppressProgress(WithSuppressProgress(context.Background())))
}
