package agg

import (
	"fmt"

	"github.com/huangsam/codepulse/schema"
)

// ValidateRecord checks a record before it is written.
// A breakdown list may fall short of the day total but never exceed it.
func ValidateRecord(rec schema.DailyRecord) error {
	if _, err := schema.ParseDate(rec.Date, nil); err != nil {
		return err
	}
	if rec.TotalSeconds < 0 {
		return schema.NewValidationError(rec.Date, "total_seconds", "negative duration")
	}

	for _, list := range schema.AllBreakdownLists {
		entries := rec.List(list)
		seen := make(map[string]struct{}, len(entries))
		var sum int64
		for _, item := range entries {
			field := string(list) + "." + item.Name
			if item.TotalSeconds < 0 {
				return schema.NewValidationError(rec.Date, field, "negative duration")
			}
			if item.Percent < 0 || item.Percent > 100 {
				return schema.NewValidationError(rec.Date, field, fmt.Sprintf("percent %.2f outside [0,100]", item.Percent))
			}
			if _, dup := seen[item.Name]; dup {
				return schema.NewValidationError(rec.Date, field, "duplicate name in list")
			}
			seen[item.Name] = struct{}{}
			sum += item.TotalSeconds
		}
		if sum > rec.TotalSeconds {
			return schema.NewValidationError(rec.Date, string(list), fmt.Sprintf("breakdown sum %d exceeds day total %d", sum, rec.TotalSeconds))
		}
	}
	return nil
}

// ValidateRecords checks every record and returns the first failure.
func ValidateRecords(records []schema.DailyRecord) error {
	for _, rec := range records {
		if err := ValidateRecord(rec); err != nil {
			return err
		}
	}
	return nil
}
