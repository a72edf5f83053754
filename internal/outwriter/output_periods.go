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

// WritePeriodReport outputs weekly or monthly buckets, dispatching based on the output format configured.
func WritePeriodReport(report schema.PeriodReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return dispatch(cfg,
		func(w io.Writer) error { return writePeriodTable(w, report, cfg, fmtFloat, duration) },
		func(w io.Writer) error { return writePeriodCSV(w, report, fmtFloat) },
		func(w io.Writer) error { return writeJSON(w, report) },
	)
}

// WriteCumulative outputs the running average series, dispatching based on the output format configured.
func WriteCumulative(points []schema.CumulativePoint, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	if points == nil {
		points = []schema.CumulativePoint{}
	}
	return dispatch(cfg,
		func(w io.Writer) error { return writeCumulativeTable(w, points, cfg, duration) },
		func(w io.Writer) error { return writeCumulativeCSV(w, points, fmtFloat) },
		func(w io.Writer) error { return writeJSON(w, points) },
	)
}

func writePeriodTable(w io.Writer, report schema.PeriodReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	weekly := report.Kind == schema.WeeklyPeriod
	headers := []string{"Period", "Total", "Days", "Avg/Day", "Coverage"}
	if weekly {
		headers = append(headers, "Level")
	}

	data := make([][]string, 0, len(report.Buckets))
	for _, b := range report.Buckets {
		row := []string{
			b.Label,
			schema.FormatDuration(b.TotalSeconds).Digital,
			fmt.Sprintf("%d/%d", b.DaysTracked, b.DaysInPeriod),
			compactSeconds(b.AvgSeconds),
			fmtFloat(b.Coverage*100) + "%",
		}
		if weekly {
			row = append(row, activityLabel(b.Level, cfg.UseColors))
		}
		data = append(data, row)
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Overall %s average: %s per tracked day over %d periods. Completed in %v\n",
		report.Kind, compactSeconds(report.OverallAvgSeconds), len(report.Buckets), duration)
	return err
}

func writePeriodCSV(w io.Writer, report schema.PeriodReport, fmtFloat func(float64) string) error {
	header := []string{"kind", "label", "start_date", "end_date", "total_seconds", "days_tracked", "days_in_period", "avg_seconds", "coverage", "level"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range report.Buckets {
			row := []string{
				string(report.Kind),
				b.Label,
				b.StartDate,
				b.EndDate,
				strconv.FormatInt(b.TotalSeconds, 10),
				strconv.Itoa(b.DaysTracked),
				strconv.Itoa(b.DaysInPeriod),
				fmtFloat(b.AvgSeconds),
				fmtFloat(b.Coverage),
				contract.GetPlainLabel(b.Level),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCumulativeTable(w io.Writer, points []schema.CumulativePoint, cfg *contract.Config, duration time.Duration) error {
	data := make([][]string, 0, len(points))
	for _, p := range points {
		data = append(data, []string{
			strconv.Itoa(p.DayNumber),
			p.Date,
			schema.FormatDuration(p.DailySeconds).Digital,
			schema.FormatDuration(p.RunningTotal).Digital,
			compactSeconds(p.CumulativeAvgSeconds),
		})
	}
	if err := renderTable(w, []string{"Day", "Date", "Daily", "Running Total", "Cumulative Avg"}, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d tracked days. Completed in %v. Store backend: %s\n", len(points), duration, cfg.StoreBackend)
	return err
}

func writeCumulativeCSV(w io.Writer, points []schema.CumulativePoint, fmtFloat func(float64) string) error {
	header := []string{"day_number", "date", "daily_seconds", "running_total", "cumulative_avg_seconds"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range points {
			row := []string{
				strconv.Itoa(p.DayNumber),
				p.Date,
				strconv.FormatInt(p.DailySeconds, 10),
				strconv.FormatInt(p.RunningTotal, 10),
				fmtFloat(p.CumulativeAvgSeconds),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
