package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver
)

// Table names for record storage.
const (
	dailyRecordsTable = "codepulse_daily_records"
	ingestRunsTable   = "codepulse_ingest_runs"
)

// RecordStoreImpl implements the RecordStore interface.
type RecordStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	now        func() time.Time
}

var _ contract.RecordStore = &RecordStoreImpl{} // Compile-time check

// NewRecordStore creates a new RecordStore with the specified backend.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (*RecordStoreImpl, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetStoreDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a store that holds nothing
		return &RecordStoreImpl{backend: backend, now: time.Now}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported backend: %s", schema.ErrConfiguration, backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createRecordTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create record tables: %w", err)
	}

	log.WithFields(log.Fields{"backend": backend}).Debug("record store opened")
	return &RecordStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		now:        time.Now,
	}, nil
}

// createRecordTables creates the record and ingest tables.
func createRecordTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{dailyRecordsTable, getCreateDailyRecordsQuery(backend)},
		{ingestRunsTable, getCreateIngestRunsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateDailyRecordsQuery returns the CREATE TABLE query for codepulse_daily_records.
func getCreateDailyRecordsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(dailyRecordsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id VARCHAR(191) NOT NULL,
				record_date CHAR(10) NOT NULL,
				total_seconds BIGINT NOT NULL,
				languages LONGTEXT NOT NULL,
				projects LONGTEXT NOT NULL,
				editors LONGTEXT NOT NULL,
				operating_systems LONGTEXT NOT NULL,
				created_at DATETIME(6) NOT NULL,
				updated_at DATETIME(6) NOT NULL,
				PRIMARY KEY (user_id, record_date)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT NOT NULL,
				record_date TEXT NOT NULL,
				total_seconds BIGINT NOT NULL,
				languages TEXT NOT NULL,
				projects TEXT NOT NULL,
				editors TEXT NOT NULL,
				operating_systems TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (user_id, record_date)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id TEXT NOT NULL,
				record_date TEXT NOT NULL,
				total_seconds INTEGER NOT NULL,
				languages TEXT NOT NULL,
				projects TEXT NOT NULL,
				editors TEXT NOT NULL,
				operating_systems TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (user_id, record_date)
			);
		`, quotedTableName)
	}
}

// getCreateIngestRunsQuery returns the CREATE TABLE query for codepulse_ingest_runs.
func getCreateIngestRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(ingestRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id CHAR(36) PRIMARY KEY,
				user_id VARCHAR(191) NOT NULL,
				source VARCHAR(32) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				dates_written TEXT,
				dates_failed TEXT,
				error_message TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				source TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				dates_written TEXT,
				dates_failed TEXT,
				error_message TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				source TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				dates_written TEXT,
				dates_failed TEXT,
				error_message TEXT
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store holds nothing.
func (rs *RecordStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// placeholders returns n parameter markers starting at position start (1-based).
func (rs *RecordStoreImpl) placeholders(start, n int) []string {
	out := make([]string, n)
	for i := range out {
		if rs.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", start+i)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// recordColumns is the select list shared by all record queries.
const recordColumns = "user_id, record_date, total_seconds, languages, projects, editors, operating_systems, created_at, updated_at"

// FindByDates returns the records of the user whose date is in dates, ascending by date.
func (rs *RecordStoreImpl) FindByDates(ctx context.Context, userID string, dates []string) ([]schema.DailyRecord, error) {
	if rs.disabled() || len(dates) == 0 {
		return []schema.DailyRecord{}, nil
	}

	marks := rs.placeholders(1, len(dates)+1)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = %s AND record_date IN (%s) ORDER BY record_date",
		recordColumns, quoteTableName(dailyRecordsTable, rs.backend), marks[0], strings.Join(marks[1:], ", "))

	args := make([]any, 0, len(dates)+1)
	args = append(args, userID)
	for _, d := range dates {
		args = append(args, d)
	}

	stored, err := rs.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return unwrapRecords(stored), nil
}

// FindByRange returns the records of the user in [start, end], ascending by date.
// An empty bound is open.
func (rs *RecordStoreImpl) FindByRange(ctx context.Context, userID string, start, end string) ([]schema.DailyRecord, error) {
	if rs.disabled() {
		return []schema.DailyRecord{}, nil
	}

	args := []any{userID}
	conditions := []string{"user_id = " + rs.placeholders(1, 1)[0]}
	if start != "" {
		args = append(args, start)
		conditions = append(conditions, "record_date >= "+rs.placeholders(len(args), 1)[0])
	}
	if end != "" {
		args = append(args, end)
		conditions = append(conditions, "record_date <= "+rs.placeholders(len(args), 1)[0])
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY record_date",
		recordColumns, quoteTableName(dailyRecordsTable, rs.backend), strings.Join(conditions, " AND "))

	stored, err := rs.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return unwrapRecords(stored), nil
}

// Upsert inserts the record or replaces the one stored for the same user and date.
// The original created_at survives a replacement.
func (rs *RecordStoreImpl) Upsert(ctx context.Context, userID string, rec schema.DailyRecord) error {
	if rs.disabled() {
		return nil
	}

	lists := make([]any, 0, len(schema.AllBreakdownLists))
	for _, list := range schema.AllBreakdownLists {
		encoded, err := encodeEntries(rec.List(list))
		if err != nil {
			return fmt.Errorf("failed to encode %s for %s: %w", list, rec.Date, err)
		}
		lists = append(lists, encoded)
	}

	now := formatTime(rs.now().UTC(), rs.backend)
	args := []any{userID, rec.Date, rec.TotalSeconds}
	args = append(args, lists...)
	args = append(args, now, now)

	if _, err := rs.db.ExecContext(ctx, rs.getUpsertQuery(), args...); err != nil {
		log.WithError(err).WithFields(log.Fields{"user": userID, "date": rec.Date}).Warn("upsert failed")
		return fmt.Errorf("failed to upsert record for %s: %w", rec.Date, err)
	}
	log.WithFields(log.Fields{"user": userID, "date": rec.Date, "seconds": rec.TotalSeconds}).Debug("record upserted")
	return nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (rs *RecordStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(dailyRecordsTable, rs.backend)
	marks := strings.Join(rs.placeholders(1, 9), ", ")

	switch rs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE total_seconds = new.total_seconds, languages = new.languages, projects = new.projects,
			editors = new.editors, operating_systems = new.operating_systems, updated_at = new.updated_at`, quotedTableName, recordColumns, marks)

	default: // SQLite and PostgreSQL
		return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
			ON CONFLICT (user_id, record_date) DO UPDATE SET total_seconds = EXCLUDED.total_seconds, languages = EXCLUDED.languages,
			projects = EXCLUDED.projects, editors = EXCLUDED.editors, operating_systems = EXCLUDED.operating_systems,
			updated_at = EXCLUDED.updated_at`, quotedTableName, recordColumns, marks)
	}
}

// BeginIngest opens an ingest run and returns its unique ID.
// The none backend still hands out an ID so callers can report it.
func (rs *RecordStoreImpl) BeginIngest(ctx context.Context, userID string, source schema.IngestSource, startTime time.Time) (string, error) {
	runID := uuid.NewString()
	if rs.disabled() {
		return runID, nil
	}

	marks := strings.Join(rs.placeholders(1, 4), ", ")
	query := fmt.Sprintf(`INSERT INTO %s (run_id, user_id, source, start_time) VALUES (%s)`, quoteTableName(ingestRunsTable, rs.backend), marks)
	if _, err := rs.db.ExecContext(ctx, query, runID, userID, string(source), formatTime(startTime.UTC(), rs.backend)); err != nil {
		return "", fmt.Errorf("failed to insert ingest run: %w", err)
	}
	log.WithFields(log.Fields{"run": runID, "user": userID, "source": source}).Debug("ingest run started")
	return runID, nil
}

// EndIngest closes an ingest run with the dates that were written and the dates that failed.
func (rs *RecordStoreImpl) EndIngest(ctx context.Context, runID string, endTime time.Time, written, failed []string, runErr error) error {
	if rs.disabled() {
		return nil
	}

	writtenJSON, err := sonic.MarshalString(nonNil(written))
	if err != nil {
		return fmt.Errorf("failed to encode written dates: %w", err)
	}
	failedJSON, err := sonic.MarshalString(nonNil(failed))
	if err != nil {
		return fmt.Errorf("failed to encode failed dates: %w", err)
	}
	var errMsg *string
	if runErr != nil {
		msg := runErr.Error()
		errMsg = &msg
	}

	marks := rs.placeholders(1, 5)
	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, dates_written = %s, dates_failed = %s, error_message = %s WHERE run_id = %s`,
		quoteTableName(ingestRunsTable, rs.backend), marks[0], marks[1], marks[2], marks[3], marks[4])
	result, err := rs.db.ExecContext(ctx, query, formatTime(endTime.UTC(), rs.backend), writtenJSON, failedJSON, errMsg, runID)
	if err != nil {
		return fmt.Errorf("failed to update ingest run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: ingest run %s", schema.ErrNotFound, runID)
	}
	log.WithFields(log.Fields{"run": runID, "written": len(written), "failed": len(failed)}).Debug("ingest run finished")
	return nil
}

// Close closes the underlying connection.
func (rs *RecordStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the record store.
func (rs *RecordStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	records := quoteTableName(dailyRecordsTable, rs.backend)
	runs := quoteTableName(ingestRunsTable, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT user_id) FROM %s", records))
	if err := row.Scan(&status.TotalRecords, &status.TotalUsers); err != nil {
		return status, fmt.Errorf("failed to get record counts: %w", err)
	}

	if status.TotalRecords > 0 {
		row = rs.db.QueryRow(fmt.Sprintf("SELECT MIN(record_date), MAX(record_date) FROM %s", records))
		if err := row.Scan(&status.OldestDate, &status.NewestDate); err != nil {
			return status, fmt.Errorf("failed to get date bounds: %w", err)
		}
	}

	row = rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRun storedTime
		row = rs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID, &lastRun); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRun.Time
	}

	status.TableSizes[dailyRecordsTable] = int64(status.TotalRecords)
	status.TableSizes[ingestRunsTable] = int64(status.TotalRuns)
	return status, nil
}

// GetAllRecords returns every stored record ordered by user and date.
func (rs *RecordStoreImpl) GetAllRecords() ([]schema.StoredRecord, error) {
	if rs.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY user_id, record_date", recordColumns, quoteTableName(dailyRecordsTable, rs.backend))
	return rs.queryRecords(context.Background(), query)
}

// GetAllIngestRuns returns every ingest run ordered by start time.
func (rs *RecordStoreImpl) GetAllIngestRuns() ([]schema.IngestRunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, user_id, source, start_time, end_time, dates_written, dates_failed, error_message
		FROM %s ORDER BY start_time, run_id`, quoteTableName(ingestRunsTable, rs.backend))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.IngestRunRecord
	for rows.Next() {
		var record schema.IngestRunRecord
		var source string
		var start, end storedTime
		var written, failed sql.NullString
		if err := rows.Scan(&record.RunID, &record.UserID, &source, &start, &end, &written, &failed, &record.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan ingest run: %w", err)
		}
		record.Source = schema.IngestSource(source)
		record.StartTime = start.Time
		if end.Valid {
			endTime := end.Time
			record.EndTime = &endTime
		}
		if record.DatesWritten, err = decodeDates(written); err != nil {
			return nil, err
		}
		if record.DatesFailed, err = decodeDates(failed); err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingest runs: %w", err)
	}
	return results, nil
}

// queryRecords runs a select over recordColumns and decodes every row.
func (rs *RecordStoreImpl) queryRecords(ctx context.Context, query string, args ...any) ([]schema.StoredRecord, error) {
	rows, err := rs.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []schema.StoredRecord{}
	for rows.Next() {
		var userID, date string
		var total int64
		var encoded [4]string
		var created, updated storedTime
		if err := rows.Scan(&userID, &date, &total, &encoded[0], &encoded[1], &encoded[2], &encoded[3], &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec := schema.NewDailyRecord(date, total)
		for i, list := range schema.AllBreakdownLists {
			entries, err := decodeEntries(encoded[i])
			if err != nil {
				return nil, fmt.Errorf("failed to decode %s for %s: %w", list, date, err)
			}
			rec.SetList(list, entries)
		}
		rec.CreatedAt = created.Time
		rec.UpdatedAt = updated.Time
		results = append(results, schema.StoredRecord{UserID: userID, Record: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return results, nil
}

func unwrapRecords(stored []schema.StoredRecord) []schema.DailyRecord {
	out := make([]schema.DailyRecord, len(stored))
	for i, s := range stored {
		out[i] = s.Record
	}
	return out
}

// encodeEntries serializes a breakdown list, writing "[]" for an empty list.
func encodeEntries(entries []schema.BreakdownEntry) (string, error) {
	if entries == nil {
		entries = []schema.BreakdownEntry{}
	}
	return sonic.MarshalString(entries)
}

// decodeEntries parses a breakdown list and never returns nil.
func decodeEntries(raw string) ([]schema.BreakdownEntry, error) {
	entries := []schema.BreakdownEntry{}
	if raw == "" || raw == "null" {
		return entries, nil
	}
	if err := sonic.UnmarshalString(raw, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []schema.BreakdownEntry{}
	}
	return entries, nil
}

func decodeDates(raw sql.NullString) ([]string, error) {
	dates := []string{}
	if !raw.Valid || raw.String == "" {
		return dates, nil
	}
	if err := sonic.UnmarshalString(raw.String, &dates); err != nil {
		return nil, fmt.Errorf("failed to decode dates: %w", err)
	}
	return dates, nil
}

func nonNil(dates []string) []string {
	if dates == nil {
		return []string{}
	}
	return dates
}
