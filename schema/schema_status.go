package schema

import "time"

// StoreStatus represents the status of the record store.
type StoreStatus struct {
	Backend      string           `json:"backend"`
	Connected    bool             `json:"connected"`
	TotalRecords int              `json:"total_records"`
	TotalUsers   int              `json:"total_users"`
	OldestDate   string           `json:"oldest_date"`
	NewestDate   string           `json:"newest_date"`
	TotalRuns    int              `json:"total_runs"`
	LastRunID    string           `json:"last_run_id"`
	LastRunTime  time.Time        `json:"last_run_time"`
	TableSizes   map[string]int64 `json:"table_sizes"`
}

// StoredRecord is a row of the daily records table, including its owner.
type StoredRecord struct {
	UserID string
	Record DailyRecord
}

// IngestRunRecord represents a row from the ingest runs table.
type IngestRunRecord struct {
	RunID        string
	UserID       string
	Source       IngestSource
	StartTime    time.Time
	EndTime      *time.Time
	DatesWritten []string
	DatesFailed  []string
	ErrorMessage *string
}
