package agg

import (
	"sort"
	"time"

	"github.com/huangsam/codepulse/schema"
)

// Thresholds relative to the overall average used to classify a bucket.
const (
	aboveRatio = 1.1
	belowRatio = 0.9
)

// weekLabelLayout renders the window bounds as "Jan 02".
const weekLabelLayout = "Jan 02"

// GroupWeekly partitions [trackingStart, today] into consecutive 7-day windows starting at
// trackingStart, the last one clipped to today. Records outside that span are ignored.
// The overall average is the mean of the windows that have at least one record.
func GroupWeekly(records []schema.DailyRecord, trackingStart, today time.Time) (schema.PeriodReport, error) {
	loc := today.Location()
	seconds, err := indexRecords(records, loc)
	if err != nil {
		return schema.PeriodReport{}, err
	}

	start := schema.StartOfDay(trackingStart, loc)
	end := schema.StartOfDay(today, loc)

	report := schema.PeriodReport{Kind: schema.WeeklyPeriod, Buckets: []schema.PeriodBucket{}}
	for weekStart := start; !weekStart.After(end); weekStart = schema.AddDays(weekStart, 7) {
		weekEnd := schema.AddDays(weekStart, 6)
		if weekEnd.After(end) {
			weekEnd = end
		}

		bucket := schema.PeriodBucket{
			Label:     weekStart.Format(weekLabelLayout) + " - " + weekEnd.Format(weekLabelLayout),
			StartDate: schema.FormatDate(weekStart),
			EndDate:   schema.FormatDate(weekEnd),
		}
		for day := weekStart; !day.After(weekEnd); day = schema.AddDays(day, 1) {
			bucket.DaysInPeriod++
			if s, ok := seconds[schema.FormatDate(day)]; ok {
				bucket.TotalSeconds += s
				bucket.DaysTracked++
			}
		}
		finishBucket(&bucket)
		report.Buckets = append(report.Buckets, bucket)
	}

	report.OverallAvgSeconds = overallAverage(report.Buckets)
	classifyBuckets(report.Buckets, report.OverallAvgSeconds)
	return report, nil
}

// GroupMonthly buckets records by the calendar month of their own date.
// Only months with at least one record appear, in ascending order.
func GroupMonthly(records []schema.DailyRecord, loc *time.Location) (schema.PeriodReport, error) {
	seconds, err := indexRecords(records, loc)
	if err != nil {
		return schema.PeriodReport{}, err
	}

	months := make(map[string]*schema.PeriodBucket)
	for date, s := range seconds {
		day, _ := schema.ParseDate(date, loc) // Already validated by indexRecords
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		key := first.Format("2006-01")

		bucket, ok := months[key]
		if !ok {
			days := schema.DaysInMonth(first)
			bucket = &schema.PeriodBucket{
				Label:        first.Format("Jan 2006"),
				StartDate:    schema.FormatDate(first),
				EndDate:      schema.FormatDate(schema.AddDays(first, days-1)),
				DaysInPeriod: days,
			}
			months[key] = bucket
		}
		bucket.TotalSeconds += s
		bucket.DaysTracked++
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	report := schema.PeriodReport{Kind: schema.MonthlyPeriod, Buckets: make([]schema.PeriodBucket, 0, len(keys))}
	for _, k := range keys {
		bucket := months[k]
		finishBucket(bucket)
		report.Buckets = append(report.Buckets, *bucket)
	}

	report.OverallAvgSeconds = overallAverage(report.Buckets)
	classifyBuckets(report.Buckets, report.OverallAvgSeconds)
	return report, nil
}

// Cumulative walks the records in date order and emits the running average after each one.
// The denominator counts only days that have a record. Sorting happens on a copy, so the
// output does not depend on the input order.
func Cumulative(records []schema.DailyRecord, loc *time.Location) ([]schema.CumulativePoint, error) {
	if _, err := indexRecords(records, loc); err != nil {
		return nil, err
	}

	sorted := make([]schema.DailyRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	points := make([]schema.CumulativePoint, 0, len(sorted))
	var runningTotal int64
	for i, rec := range sorted {
		runningTotal += rec.TotalSeconds
		dayCount := i + 1
		points = append(points, schema.CumulativePoint{
			Date:                 rec.Date,
			DayNumber:            dayCount,
			DailySeconds:         rec.TotalSeconds,
			RunningTotal:         runningTotal,
			CumulativeAvgSeconds: float64(runningTotal) / float64(dayCount),
		})
	}
	return points, nil
}

// ClassifyActivity compares a bucket average with the overall average.
func ClassifyActivity(avgSeconds, overallAvgSeconds float64) schema.ActivityLevel {
	switch {
	case avgSeconds <= 0:
		return schema.IdleLevel
	case avgSeconds >= overallAvgSeconds*aboveRatio:
		return schema.AboveLevel
	case avgSeconds >= overallAvgSeconds*belowRatio:
		return schema.SteadyLevel
	default:
		return schema.BelowLevel
	}
}

// indexRecords validates dates and durations and maps each date to its seconds.
// Duplicate dates would silently change the denominators, so they are rejected.
func indexRecords(records []schema.DailyRecord, loc *time.Location) (map[string]int64, error) {
	seconds := make(map[string]int64, len(records))
	for _, rec := range records {
		if _, err := schema.ParseDate(rec.Date, loc); err != nil {
			return nil, err
		}
		if rec.TotalSeconds < 0 {
			return nil, schema.NewValidationError(rec.Date, "total_seconds", "negative duration")
		}
		if _, dup := seconds[rec.Date]; dup {
			return nil, schema.NewValidationError(rec.Date, "date", "duplicate record for date")
		}
		seconds[rec.Date] = rec.TotalSeconds
	}
	return seconds, nil
}

// finishBucket fills the derived averages of a bucket.
func finishBucket(b *schema.PeriodBucket) {
	if b.DaysTracked > 0 {
		b.AvgSeconds = float64(b.TotalSeconds) / float64(b.DaysTracked)
	}
	if b.DaysInPeriod > 0 {
		b.Coverage = float64(b.DaysTracked) / float64(b.DaysInPeriod)
	}
}

// overallAverage is the mean bucket average over buckets with data.
func overallAverage(buckets []schema.PeriodBucket) float64 {
	var sum float64
	var n int
	for _, b := range buckets {
		if b.DaysTracked == 0 {
			continue
		}
		sum += b.AvgSeconds
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func classifyBuckets(buckets []schema.PeriodBucket, overall float64) {
	for i := range buckets {
		buckets[i].Level = ClassifyActivity(buckets[i].AvgSeconds, overall)
	}
}
