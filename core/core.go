// Package core orchestrates queries and ingestion over the record store.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/codepulse/core/agg"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/internal/outwriter"
	"github.com/huangsam/codepulse/schema"
)

// errNoStore is returned when a command runs without an initialized record store.
var errNoStore = errors.New("record store is not initialized")

// ExecuteSummaries runs an interval query and prints the result.
func ExecuteSummaries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, duration, err := GetSummariesResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteSummaries(result, cfg, duration)
}

// ExecuteStats computes the all-time statistics and prints them.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, duration, err := GetStatsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteStats(result, cfg, duration)
}

// ExecuteWeekly groups the tracked history into weeks and prints the buckets.
func ExecuteWeekly(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, duration, err := GetWeeklyResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WritePeriodReport(report, cfg, duration)
}

// ExecuteMonthly groups the tracked history into calendar months and prints the buckets.
func ExecuteMonthly(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, duration, err := GetMonthlyResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WritePeriodReport(report, cfg, duration)
}

// ExecuteCumulative prints the running average over every tracked day.
func ExecuteCumulative(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	points, duration, err := GetCumulativeResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteCumulative(points, cfg, duration)
}

// GetSummariesResults resolves cfg.Interval against cfg.Today and loads the matching records.
// The limit applies to the ascending list before gap filling, so a filled window always
// has one entry per requested date.
func GetSummariesResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.SummariesResult, time.Duration, error) {
	start := time.Now()
	store, err := recordStore(mgr)
	if err != nil {
		return schema.SummariesResult{}, 0, err
	}

	plan, err := agg.ResolveInterval(cfg.Interval, cfg.Today)
	if err != nil {
		return schema.SummariesResult{}, 0, err
	}

	var records []schema.DailyRecord
	switch plan.Mode {
	case schema.ExplicitDates:
		records, err = store.FindByDates(ctx, cfg.User, plan.Dates)
	case schema.RangeFilter:
		records, err = store.FindByRange(ctx, cfg.User, plan.StartDate, plan.EndDate)
	default:
		records, err = store.FindByRange(ctx, cfg.User, "", "")
	}
	if err != nil {
		return schema.SummariesResult{}, 0, fmt.Errorf("failed to load records: %w", err)
	}

	sortByDate(records)
	if cfg.Limit > 0 && len(records) > cfg.Limit {
		records = records[:cfg.Limit]
	}
	if plan.FillGaps {
		records = agg.FillGaps(plan.Dates, records)
	}
	if records == nil {
		records = []schema.DailyRecord{}
	}

	breakdowns, err := agg.AggregateAll(records, cfg.Top)
	if err != nil {
		return schema.SummariesResult{}, 0, err
	}

	return schema.SummariesResult{
		User:       cfg.User,
		Plan:       plan,
		Records:    records,
		Totals:     schema.NewTotals(sumSeconds(records)),
		Count:      len(records),
		Breakdowns: breakdowns,
	}, time.Since(start), nil
}

// GetStatsResults summarizes every stored record of the user.
func GetStatsResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.StatsResult, time.Duration, error) {
	start := time.Now()
	records, err := loadAllRecords(ctx, cfg, mgr)
	if err != nil {
		return schema.StatsResult{}, 0, err
	}

	breakdowns, err := agg.AggregateAll(records, cfg.Top)
	if err != nil {
		return schema.StatsResult{}, 0, err
	}

	total := sumSeconds(records)
	stats := schema.StatsSummary{
		TotalSeconds: total,
		TotalDays:    len(records),
		TotalHours:   total / 3600,
		TotalMinutes: (total % 3600) / 60,
	}
	if len(records) > 0 {
		stats.AvgSecondsPerDay = float64(total) / float64(len(records))
	}

	return schema.StatsResult{
		User:                cfg.User,
		Stats:               stats,
		TopLanguages:        breakdowns[schema.Languages],
		TopProjects:         breakdowns[schema.Projects],
		TopEditors:          breakdowns[schema.Editors],
		TopOperatingSystems: breakdowns[schema.OperatingSystems],
	}, time.Since(start), nil
}

// GetWeeklyResults groups the history into 7-day windows anchored at the tracking start.
// Without a configured start the earliest stored record is used.
func GetWeeklyResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.PeriodReport, time.Duration, error) {
	start := time.Now()
	records, err := loadAllRecords(ctx, cfg, mgr)
	if err != nil {
		return schema.PeriodReport{}, 0, err
	}

	trackingStart := cfg.TrackingStart
	if trackingStart.IsZero() {
		if len(records) == 0 {
			return schema.PeriodReport{Kind: schema.WeeklyPeriod, Buckets: []schema.PeriodBucket{}}, time.Since(start), nil
		}
		trackingStart, err = schema.ParseDate(records[0].Date, cfg.Location)
		if err != nil {
			return schema.PeriodReport{}, 0, err
		}
	}

	report, err := agg.GroupWeekly(records, trackingStart, cfg.Today)
	if err != nil {
		return schema.PeriodReport{}, 0, err
	}
	return report, time.Since(start), nil
}

// GetMonthlyResults groups the history by calendar month.
func GetMonthlyResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.PeriodReport, time.Duration, error) {
	start := time.Now()
	records, err := loadAllRecords(ctx, cfg, mgr)
	if err != nil {
		return schema.PeriodReport{}, 0, err
	}
	report, err := agg.GroupMonthly(records, cfg.Location)
	if err != nil {
		return schema.PeriodReport{}, 0, err
	}
	return report, time.Since(start), nil
}

// GetCumulativeResults computes the running average after each tracked day.
func GetCumulativeResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.CumulativePoint, time.Duration, error) {
	start := time.Now()
	records, err := loadAllRecords(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}
	points, err := agg.Cumulative(records, cfg.Location)
	if err != nil {
		return nil, 0, err
	}
	return points, time.Since(start), nil
}

// recordStore returns the store held by mgr.
func recordStore(mgr contract.StoreManager) (contract.RecordStore, error) {
	if mgr == nil {
		return nil, errNoStore
	}
	store := mgr.GetRecordStore()
	if store == nil {
		return nil, errNoStore
	}
	return store, nil
}

// loadAllRecords returns every record of cfg.User, ascending by date.
func loadAllRecords(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.DailyRecord, error) {
	store, err := recordStore(mgr)
	if err != nil {
		return nil, err
	}
	records, err := store.FindByRange(ctx, cfg.User, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	sortByDate(records)
	return records, nil
}

func sortByDate(records []schema.DailyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}

func sumSeconds(records []schema.DailyRecord) int64 {
	var total int64
	for _, r := range records {
		total += r.TotalSeconds
	}
	return total
}
