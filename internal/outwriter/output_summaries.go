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

// WriteSummaries outputs an interval query, dispatching based on the output format configured.
func WriteSummaries(result schema.SummariesResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return writeSummariesTable(w, result, cfg, fmtFloat, duration) },
		func(w io.Writer) error { return writeSummariesCSV(w, result) },
		func(w io.Writer) error { return writeJSON(w, result) },
	)
}

// writeSummariesTable prints one row per day, then the window totals and its breakdowns.
func writeSummariesTable(w io.Writer, result schema.SummariesResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	nameWidth := GetMaxTableNameWidth(cfg, 40)

	data := make([][]string, 0, len(result.Records))
	for _, rec := range result.Records {
		data = append(data, []string{
			rec.Date,
			rec.Digital,
			rec.Text,
			contract.TruncateName(topName(rec.Languages), nameWidth),
			contract.TruncateName(topName(rec.Projects), nameWidth),
		})
	}
	if err := renderTable(w, []string{"Date", "Total", "Text", "Top Language", "Top Project"}, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total: %s (%s) over %d days\n", result.Totals.Digital, result.Totals.Text, result.Count); err != nil {
		return err
	}

	for _, list := range schema.AllBreakdownLists {
		entries := result.Breakdowns[list]
		if len(entries) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", listTitle(list)); err != nil {
			return err
		}
		if err := renderTable(w, []string{"Rank", "Name", "Time", "Percent"}, breakdownRows(entries, nameWidth, fmtFloat)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Interval %s for %s (%s). Completed in %v. Store backend: %s\n",
		result.Plan.Kind, result.User, describePlan(result.Plan), duration, cfg.StoreBackend)
	return err
}

// writeSummariesCSV writes one row per day.
func writeSummariesCSV(w io.Writer, result schema.SummariesResult) error {
	header := []string{"date", "total_seconds", "digital", "text", "hours", "minutes", "seconds", "top_language", "top_project"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, rec := range result.Records {
			row := []string{
				rec.Date,
				strconv.FormatInt(rec.TotalSeconds, 10),
				rec.Digital,
				rec.Text,
				strconv.FormatInt(rec.Hours, 10),
				strconv.FormatInt(rec.Minutes, 10),
				strconv.FormatInt(rec.Seconds, 10),
				topName(rec.Languages),
				topName(rec.Projects),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// topName returns the entry with the most seconds, the earliest one on ties.
func topName(entries []schema.BreakdownEntry) string {
	best := -1
	for i, e := range entries {
		if best < 0 || e.TotalSeconds > entries[best].TotalSeconds {
			best = i
		}
	}
	if best < 0 {
		return "-"
	}
	return entries[best].Name
}

// describePlan summarizes how an interval was resolved.
func describePlan(plan schema.IntervalPlan) string {
	switch plan.Mode {
	case schema.ExplicitDates:
		if len(plan.Dates) == 0 {
			return "no dates"
		}
		return fmt.Sprintf("%s to %s", plan.Dates[0], plan.Dates[len(plan.Dates)-1])
	case schema.RangeFilter:
		return fmt.Sprintf("%s to %s", plan.StartDate, plan.EndDate)
	default:
		return "all time"
	}
}
