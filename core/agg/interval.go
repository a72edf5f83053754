package agg

import (
	"fmt"
	"time"

	"github.com/huangsam/codepulse/schema"
)

// Window lengths of the interval kinds.
const (
	sevenDayWindow    = 7
	fourteenDayWindow = 14
	monthWindow       = 30
)

// ResolveInterval turns an interval kind into a concrete query plan.
// The dates come from the calendar fields of today in its own location, and today
// is taken once by the caller; a request running past midnight keeps its original dates.
func ResolveInterval(kind schema.IntervalKind, today time.Time) (schema.IntervalPlan, error) {
	day := schema.StartOfDay(today, today.Location())
	plan := schema.IntervalPlan{Kind: kind}

	switch kind {
	case schema.Interval7Days:
		plan.Mode = schema.ExplicitDates
		plan.Dates = lastNDates(day, sevenDayWindow)
		plan.FillGaps = true
	case schema.Interval14Days:
		plan.Mode = schema.ExplicitDates
		plan.Dates = lastNDates(day, fourteenDayWindow)
		plan.FillGaps = true
	case schema.Interval1Month:
		// Too many candidate gaps to synthesize; callers accept sparse results.
		plan.Mode = schema.RangeFilter
		plan.StartDate = schema.FormatDate(schema.AddDays(day, -(monthWindow - 1)))
		plan.EndDate = schema.FormatDate(day)
	case schema.IntervalAllTime:
		plan.Mode = schema.Unbounded
	default:
		return schema.IntervalPlan{}, schema.NewValidationError("", "interval", fmt.Sprintf("unknown interval %q, must be 7days, 14days, 1month, alltime", kind))
	}
	return plan, nil
}

// lastNDates returns the n dates ending at day inclusive, ascending.
func lastNDates(day time.Time, n int) []string {
	return schema.DateRange(schema.AddDays(day, -(n - 1)), day)
}
