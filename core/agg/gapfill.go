package agg

import "github.com/huangsam/codepulse/schema"

// FillGaps returns one record per requested date, in the requested order.
// Dates without a found record get a zero placeholder. Nothing is reordered,
// deduplicated or dropped, so the output length always equals len(requested).
func FillGaps(requested []string, found []schema.DailyRecord) []schema.DailyRecord {
	byDate := make(map[string]schema.DailyRecord, len(found))
	for _, rec := range found {
		if _, ok := byDate[rec.Date]; !ok {
			byDate[rec.Date] = rec
		}
	}

	out := make([]schema.DailyRecord, 0, len(requested))
	for _, date := range requested {
		if rec, ok := byDate[date]; ok {
			out = append(out, rec)
			continue
		}
		out = append(out, schema.ZeroRecord(date))
	}
	return out
}
