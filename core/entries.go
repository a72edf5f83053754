package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/codepulse/schema"
)

// ReadHistoricalEntries parses "date,hours,minutes" rows into totals-only entries.
// A leading header row is skipped when its first cell is "date".
func ReadHistoricalEntries(r io.Reader) ([]schema.HistoricalEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	entries := []schema.HistoricalEntry{}
	seen := make(map[string]struct{})
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: entries file: %w", schema.ErrValidation, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue
		}

		entry, err := parseEntryRow(row)
		if err != nil {
			return nil, fmt.Errorf("entries file line %d: %w", line, err)
		}
		if _, dup := seen[entry.Date]; dup {
			return nil, fmt.Errorf("entries file line %d: %w", line, schema.NewValidationError(entry.Date, "date", "duplicate date"))
		}
		seen[entry.Date] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseEntryRow(row []string) (schema.HistoricalEntry, error) {
	date := strings.TrimSpace(row[0])
	if _, err := schema.ParseDate(date, nil); err != nil {
		return schema.HistoricalEntry{}, err
	}

	hours, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil || hours < 0 {
		return schema.HistoricalEntry{}, schema.NewValidationError(date, "hours", fmt.Sprintf("expected a non-negative integer, got %q", row[1]))
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil || minutes < 0 || minutes > 59 {
		return schema.HistoricalEntry{}, schema.NewValidationError(date, "minutes", fmt.Sprintf("expected an integer in [0,59], got %q", row[2]))
	}

	return schema.HistoricalEntry{
		Date:         date,
		TotalSeconds: int64(hours)*3600 + int64(minutes)*60,
	}, nil
}
