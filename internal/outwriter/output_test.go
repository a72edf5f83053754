package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textConfig() *contract.Config {
	return &contract.Config{
		User:         "akshay",
		Output:       schema.TextOut,
		Precision:    1,
		Width:        120,
		StoreBackend: schema.SQLiteBackend,
	}
}

func sampleSummaries() schema.SummariesResult {
	first := schema.NewDailyRecord("2026-03-01", 5400)
	first.Languages = []schema.BreakdownEntry{
		{Name: "SQL", TotalSeconds: 1800, Percent: 33.3},
		{Name: "Go", TotalSeconds: 3600, Percent: 66.7},
	}
	first.Projects = []schema.BreakdownEntry{{Name: "codepulse", TotalSeconds: 5400, Percent: 100}}
	second := schema.ZeroRecord("2026-03-02")

	return schema.SummariesResult{
		User: "akshay",
		Plan: schema.IntervalPlan{
			Kind:      schema.Interval7Days,
			Mode:      schema.ExplicitDates,
			Dates:     []string{"2026-03-01", "2026-03-02"},
			StartDate: "2026-03-01",
			EndDate:   "2026-03-02",
		},
		Records: []schema.DailyRecord{first, second},
		Totals:  schema.NewTotals(5400),
		Count:   2,
		Breakdowns: map[schema.BreakdownList][]schema.AggregatedEntry{
			schema.Languages: {{Name: "Go", TotalSeconds: 3600, Percent: 66.7}, {Name: "SQL", TotalSeconds: 1800, Percent: 33.3}},
		},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSummariesTable(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	var buf bytes.Buffer
	require.NoError(t, writeSummariesTable(&buf, sampleSummaries(), textConfig(), fmtFloat, 10*time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "2026-03-01")
	assert.Contains(t, output, "1:30")
	assert.Contains(t, output, "1 hrs 30 mins")
	assert.Contains(t, output, "0 secs")
	assert.Contains(t, output, "Total: 1:30 (1 hrs 30 mins) over 2 days")
	assert.Contains(t, output, "Languages")
	assert.Contains(t, output, "66.7%")
	assert.NotContains(t, output, "Operating Systems")
	assert.Contains(t, output, "2026-03-01 to 2026-03-02")
}

func TestWriteSummariesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummariesCSV(&buf, sampleSummaries()))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, "date", rows[0][0])
	assert.Equal(t, []string{"2026-03-01", "5400", "1:30", "1 hrs 30 mins", "1", "30", "0", "Go", "codepulse"}, rows[1])
	assert.Equal(t, []string{"2026-03-02", "0", "0:00", "0 secs", "0", "0", "0", "-", "-"}, rows[2])
}

func TestWriteSummaries_JSONFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "summaries.json")
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = outputPath

	require.NoError(t, WriteSummaries(sampleSummaries(), cfg, time.Millisecond))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	var decoded struct {
		Data  []map[string]any `json:"data"`
		Count int              `json:"count"`
	}
	require.NoError(t, sonic.Unmarshal(content, &decoded))
	assert.Equal(t, 2, decoded.Count)
	require.Len(t, decoded.Data, 2)
	assert.Equal(t, "2026-03-01", decoded.Data[0]["date"])
}

func TestDescribePlan(t *testing.T) {
	assert.Equal(t, "all time", describePlan(schema.IntervalPlan{Mode: schema.Unbounded}))
	assert.Equal(t, "no dates", describePlan(schema.IntervalPlan{Mode: schema.ExplicitDates}))
	assert.Equal(t, "2026-01-01 to 2026-01-31", describePlan(schema.IntervalPlan{
		Mode: schema.RangeFilter, StartDate: "2026-01-01", EndDate: "2026-01-31",
	}))
}

func TestTopName(t *testing.T) {
	assert.Equal(t, "-", topName(nil))
	assert.Equal(t, "a", topName([]schema.BreakdownEntry{{Name: "a", TotalSeconds: 5}, {Name: "b", TotalSeconds: 5}}))
}

func sampleStats() schema.StatsResult {
	return schema.StatsResult{
		User: "akshay",
		Stats: schema.StatsSummary{
			TotalSeconds:     27612,
			TotalDays:        2,
			AvgSecondsPerDay: 13806,
			TotalHours:       7,
			TotalMinutes:     40,
		},
		TopLanguages: []schema.AggregatedEntry{{Name: "Go", TotalSeconds: 27612, Percent: 100}},
	}
}

func TestWriteStatsTable(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	var buf bytes.Buffer
	require.NoError(t, writeStatsTable(&buf, sampleStats(), textConfig(), fmtFloat, time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "7 hours 40 minutes")
	assert.Contains(t, output, "3 hours 50 minutes 6 seconds")
	assert.Contains(t, output, "Top Languages")
	assert.NotContains(t, output, "Top Projects")
}

func TestWriteStatsCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	var buf bytes.Buffer
	require.NoError(t, writeStatsCSV(&buf, sampleStats(), fmtFloat))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"category", "name", "value", "percent"}, rows[0])
	assert.Equal(t, []string{"stats", "total_seconds", "27612", ""}, rows[1])
	assert.Equal(t, []string{"languages", "Go", "27612", "100.0"}, rows[6])
}

func sampleWeekly() schema.PeriodReport {
	return schema.PeriodReport{
		Kind: schema.WeeklyPeriod,
		Buckets: []schema.PeriodBucket{
			{Label: "Week 1", StartDate: "2026-01-01", EndDate: "2026-01-07", TotalSeconds: 36000, DaysTracked: 5,
				AvgSeconds: 7200, DaysInPeriod: 7, Coverage: 5.0 / 7.0, Level: schema.AboveLevel},
			{Label: "Week 2", StartDate: "2026-01-08", EndDate: "2026-01-10", DaysInPeriod: 3, Level: schema.IdleLevel},
		},
		OverallAvgSeconds: 7200,
	}
}

func TestWritePeriodTable(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	var buf bytes.Buffer
	require.NoError(t, writePeriodTable(&buf, sampleWeekly(), textConfig(), fmtFloat, time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "Week 1")
	assert.Contains(t, output, "10:00")
	assert.Contains(t, output, "5/7")
	assert.Contains(t, output, "71.4%")
	assert.Contains(t, output, "Above")
	assert.Contains(t, output, "Idle")
	assert.Contains(t, output, "Overall weekly average: 2h")
}

func TestWritePeriodTable_MonthlyHasNoLevel(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	report := schema.PeriodReport{
		Kind:    schema.MonthlyPeriod,
		Buckets: []schema.PeriodBucket{{Label: "2026-01", StartDate: "2026-01-01", EndDate: "2026-01-31", DaysInPeriod: 31}},
	}
	var buf bytes.Buffer
	require.NoError(t, writePeriodTable(&buf, report, textConfig(), fmtFloat, time.Millisecond))
	assert.NotContains(t, buf.String(), "LEVEL")
}

func TestWritePeriodCSV(t *testing.T) {
	fmtFloat, _ := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writePeriodCSV(&buf, sampleWeekly(), fmtFloat))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, "kind", rows[0][0])
	assert.Equal(t, []string{"weekly", "Week 1", "2026-01-01", "2026-01-07", "36000", "5", "7", "7200.00", "0.71", "Above"}, rows[1])
}

func TestWriteCumulative(t *testing.T) {
	points := []schema.CumulativePoint{
		{Date: "2026-01-01", DayNumber: 1, DailySeconds: 3600, RunningTotal: 3600, CumulativeAvgSeconds: 3600},
		{Date: "2026-01-03", DayNumber: 2, DailySeconds: 1800, RunningTotal: 5400, CumulativeAvgSeconds: 2700},
	}

	var table bytes.Buffer
	require.NoError(t, writeCumulativeTable(&table, points, textConfig(), time.Millisecond))
	assert.Contains(t, table.String(), "45m")
	assert.Contains(t, table.String(), "Showing 2 tracked days")

	fmtFloat, _ := createFormatters(1)
	var out bytes.Buffer
	require.NoError(t, writeCumulativeCSV(&out, points, fmtFloat))
	rows := readCSV(t, out.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "2026-01-03", "1800", "5400", "2700.0"}, rows[2])
}

func TestWriteCumulative_EmptyJSON(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "cumulative.json")
	cfg := textConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = outputPath

	require.NoError(t, WriteCumulative(nil, cfg, time.Millisecond))
	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(bytes.TrimSpace(content)))
}

func TestWriteIngestResult(t *testing.T) {
	result := schema.IngestResult{
		RunID:        "run-1",
		User:         "akshay",
		Source:       schema.BackfillSource,
		DatesWritten: []string{"2026-01-01", "2026-01-02"},
		DatesFailed:  []string{"2026-01-03"},
		Duration:     time.Second,
	}

	var text bytes.Buffer
	require.NoError(t, writeIngestText(&text, result))
	assert.Contains(t, text.String(), "Backfilled 2 days for akshay (run run-1)")
	assert.Contains(t, text.String(), "Failed: 2026-01-03")
	assert.Contains(t, text.String(), "estimated")

	var out bytes.Buffer
	require.NoError(t, writeIngestCSV(&out, result))
	rows := readCSV(t, out.Bytes())
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"run-1", "akshay", "backfill", "2026-01-03", "failed"}, rows[3])
}

func TestWriteIngestResult_SyncText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeIngestText(&buf, schema.IngestResult{RunID: "r", User: "me", Source: schema.SyncSource}))
	assert.Contains(t, buf.String(), "Synced 0 days")
	assert.NotContains(t, buf.String(), "Written:")
	assert.NotContains(t, buf.String(), "estimated")
}
