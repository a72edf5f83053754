// Package parquet provides data structures and functions for exporting stored
// activity data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/codepulse/schema"
	"github.com/parquet-go/parquet-go"
)

// DailyRecord represents one stored day of one user.
// This struct maps to the codepulse_daily_records database table without the breakdown lists.
type DailyRecord struct {
	UserID       string `parquet:"user_id,snappy"`
	RecordDate   string `parquet:"record_date,snappy"`
	TotalSeconds int64  `parquet:"total_seconds,snappy"`
	Digital      string `parquet:"digital,snappy"`
	Text         string `parquet:"text,snappy"`
	Hours        int64  `parquet:"hours,snappy"`
	Minutes      int64  `parquet:"minutes,snappy"`
	Seconds      int64  `parquet:"seconds,snappy"`

	// Timestamps are stored as TIMESTAMP with nanosecond precision
	CreatedAt time.Time `parquet:"created_at,snappy"`
	UpdatedAt time.Time `parquet:"updated_at,snappy"`
}

// BreakdownEntry is one flattened breakdown entry, one row per date, list and name.
type BreakdownEntry struct {
	UserID       string  `parquet:"user_id,snappy,dict"`
	RecordDate   string  `parquet:"record_date,snappy"`
	List         string  `parquet:"list,snappy,dict"` // languages, projects, editors or operating_systems
	Name         string  `parquet:"name,snappy,dict"`
	TotalSeconds int64   `parquet:"total_seconds,snappy"`
	Percent      float64 `parquet:"percent,snappy"`
}

// IngestRun represents a single sync or backfill run.
// This struct maps to the codepulse_ingest_runs database table.
type IngestRun struct {
	RunID     string     `parquet:"run_id,snappy"`
	UserID    string     `parquet:"user_id,snappy"`
	Source    string     `parquet:"source,snappy,dict"`
	StartTime time.Time  `parquet:"start_time,snappy"`
	EndTime   *time.Time `parquet:"end_time,optional,snappy"` // Nil while the run is open

	// Date lists are comma separated
	DatesWritten      string `parquet:"dates_written,snappy"`
	DatesWrittenCount int32  `parquet:"dates_written_count,snappy"`
	DatesFailed       string `parquet:"dates_failed,snappy"`
	DatesFailedCount  int32  `parquet:"dates_failed_count,snappy"`

	ErrorMessage *string `parquet:"error_message,optional,snappy"`
}

// WriteDailyRecordsParquet writes a slice of DailyRecord structs to a Parquet file.
func WriteDailyRecordsParquet(data []DailyRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBreakdownEntriesParquet writes a slice of BreakdownEntry structs to a Parquet file.
func WriteBreakdownEntriesParquet(data []BreakdownEntry, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteIngestRunsParquet writes a slice of IngestRun structs to a Parquet file.
func WriteIngestRunsParquet(data []IngestRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates outputPath and writes rows with a schema inferred from T's struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertDailyRecords converts stored records to DailyRecord rows for Parquet export.
func ConvertDailyRecords(records []schema.StoredRecord) []DailyRecord {
	result := make([]DailyRecord, len(records))
	for i, stored := range records {
		rec := stored.Record
		result[i] = DailyRecord{
			UserID:       stored.UserID,
			RecordDate:   rec.Date,
			TotalSeconds: rec.TotalSeconds,
			Digital:      rec.Digital,
			Text:         rec.Text,
			Hours:        rec.Hours,
			Minutes:      rec.Minutes,
			Seconds:      rec.Seconds,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		}
	}
	return result
}

// ConvertBreakdownEntries flattens the four breakdown lists of every stored record.
func ConvertBreakdownEntries(records []schema.StoredRecord) []BreakdownEntry {
	var result []BreakdownEntry
	for _, stored := range records {
		for _, list := range schema.AllBreakdownLists {
			for _, item := range stored.Record.List(list) {
				result = append(result, BreakdownEntry{
					UserID:       stored.UserID,
					RecordDate:   stored.Record.Date,
					List:         string(list),
					Name:         item.Name,
					TotalSeconds: item.TotalSeconds,
					Percent:      item.Percent,
				})
			}
		}
	}
	return result
}

// ConvertIngestRunRecords converts schema.IngestRunRecord to IngestRun for Parquet export.
func ConvertIngestRunRecords(records []schema.IngestRunRecord) []IngestRun {
	result := make([]IngestRun, len(records))
	for i, record := range records {
		result[i] = IngestRun{
			RunID:             record.RunID,
			UserID:            record.UserID,
			Source:            string(record.Source),
			StartTime:         record.StartTime,
			EndTime:           record.EndTime,
			DatesWritten:      strings.Join(record.DatesWritten, ","),
			DatesWrittenCount: int32(len(record.DatesWritten)),
			DatesFailed:       strings.Join(record.DatesFailed, ","),
			DatesFailedCount:  int32(len(record.DatesFailed)),
			ErrorMessage:      record.ErrorMessage,
		}
	}
	return result
}
