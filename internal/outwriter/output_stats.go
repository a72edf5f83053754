package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/schema"
)

// WriteStats outputs the all-time statistics, dispatching based on the output format configured.
func WriteStats(result schema.StatsResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return writeStatsTable(w, result, cfg, fmtFloat, duration) },
		func(w io.Writer) error { return writeStatsCSV(w, result, fmtFloat) },
		func(w io.Writer) error { return writeJSON(w, result) },
	)
}

// statsLists pairs each top list of a result with its breakdown list name.
func statsLists(result schema.StatsResult) []struct {
	list    schema.BreakdownList
	entries []schema.AggregatedEntry
} {
	return []struct {
		list    schema.BreakdownList
		entries []schema.AggregatedEntry
	}{
		{schema.Languages, result.TopLanguages},
		{schema.Projects, result.TopProjects},
		{schema.Editors, result.TopEditors},
		{schema.OperatingSystems, result.TopOperatingSystems},
	}
}

func writeStatsTable(w io.Writer, result schema.StatsResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	s := result.Stats
	summary := [][]string{
		{"Total time", schema.FormatHoursMinutes(float64(s.TotalSeconds))},
		{"Days tracked", strconv.Itoa(s.TotalDays)},
		{"Daily average", schema.FormatDetailed(s.AvgSecondsPerDay)},
	}
	if err := renderTable(w, []string{"Metric", "Value"}, summary); err != nil {
		return err
	}

	nameWidth := GetMaxTableNameWidth(cfg, 30)
	for _, section := range statsLists(result) {
		if len(section.entries) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\nTop %s\n", listTitle(section.list)); err != nil {
			return err
		}
		if err := renderTable(w, []string{"Rank", "Name", "Time", "Percent"}, breakdownRows(section.entries, nameWidth, fmtFloat)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Stats for %s completed in %v. Store backend: %s\n", result.User, duration, cfg.StoreBackend)
	return err
}

// writeStatsCSV writes the headline numbers as "stats" rows followed by one row per ranked entry.
func writeStatsCSV(w io.Writer, result schema.StatsResult, fmtFloat func(float64) string) error {
	header := []string{"category", "name", "value", "percent"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		s := result.Stats
		rows := [][]string{
			{"stats", "total_seconds", strconv.FormatInt(s.TotalSeconds, 10), ""},
			{"stats", "total_days", strconv.Itoa(s.TotalDays), ""},
			{"stats", "avg_seconds_per_day", fmtFloat(s.AvgSecondsPerDay), ""},
			{"stats", "total_hours", strconv.FormatInt(s.TotalHours, 10), ""},
			{"stats", "total_minutes", strconv.FormatInt(s.TotalMinutes, 10), ""},
		}
		for _, section := range statsLists(result) {
			for _, e := range section.entries {
				rows = append(rows, []string{string(section.list), e.Name, strconv.FormatInt(e.TotalSeconds, 10), fmtFloat(e.Percent)})
			}
		}
		return cw.WriteAll(rows)
	})
}
