// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/codepulse/schema"
)

// FetchClient defines the operations needed from the time-tracking data source.
// This allows sync to be tested without network access.
type FetchClient interface {
	// FetchRange returns the daily summaries for the inclusive date range [start, end].
	FetchRange(ctx context.Context, userID string, start, end string) ([]schema.RawDaySummary, error)
}

// StoreManager defines the interface for managing the record store.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetRecordStore() RecordStore
}

// RecordStore defines the interface for persisting daily records and the ingest ledger.
type RecordStore interface {
	// FindByDates returns the records of the user whose date is in dates, ascending by date.
	FindByDates(ctx context.Context, userID string, dates []string) ([]schema.DailyRecord, error)

	// FindByRange returns the records of the user in [start, end], ascending by date.
	// An empty bound is open.
	FindByRange(ctx context.Context, userID string, start, end string) ([]schema.DailyRecord, error)

	// Upsert inserts the record or replaces the one stored for the same user and date.
	Upsert(ctx context.Context, userID string, rec schema.DailyRecord) error

	// BeginIngest opens an ingest run and returns its unique ID
	BeginIngest(ctx context.Context, userID string, source schema.IngestSource, startTime time.Time) (string, error)

	// EndIngest closes an ingest run with the dates that were written and the dates that failed
	EndIngest(ctx context.Context, runID string, endTime time.Time, written, failed []string, runErr error) error

	// GetStatus returns status information about the record store
	GetStatus() (schema.StoreStatus, error)

	// GetAllRecords returns every stored record for export
	GetAllRecords() ([]schema.StoredRecord, error)

	// GetAllIngestRuns returns every ingest run for export
	GetAllIngestRuns() ([]schema.IngestRunRecord, error)

	// Close closes the underlying connection
	Close() error
}
