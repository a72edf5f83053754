package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/codepulse/core/agg"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/internal/outwriter"
	"github.com/huangsam/codepulse/schema"
	log "github.com/sirupsen/logrus"
)

// ErrPartialIngest is returned when some dates of a batch could not be written.
var ErrPartialIngest = errors.New("some dates failed to ingest")

// ExecuteSync pulls the last cfg.SyncDays days from the data source and prints the outcome.
func ExecuteSync(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, client contract.FetchClient) error {
	result, err := RunSync(ctx, cfg, mgr, client)
	if err != nil && !errors.Is(err, ErrPartialIngest) {
		return err
	}
	if writeErr := outwriter.WriteIngestResult(result, cfg); writeErr != nil {
		return writeErr
	}
	return err
}

// ExecuteBackfill estimates and stores the days listed in cfg.EntriesFile and prints the outcome.
func ExecuteBackfill(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.EntriesFile == "" {
		return errors.New("--entries-file is required for backfill command")
	}
	file, err := os.Open(cfg.EntriesFile)
	if err != nil {
		return fmt.Errorf("failed to open entries file: %w", err)
	}
	defer func() { _ = file.Close() }()

	entries, err := ReadHistoricalEntries(file)
	if err != nil {
		return err
	}

	result, err := RunBackfill(ctx, cfg, mgr, entries)
	if err != nil && !errors.Is(err, ErrPartialIngest) {
		return err
	}
	if writeErr := outwriter.WriteIngestResult(result, cfg); writeErr != nil {
		return writeErr
	}
	return err
}

// RunSync fetches the inclusive range [today-(SyncDays-1), today] and upserts every day.
// All days are validated before the first write; one bad day aborts the batch.
func RunSync(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, client contract.FetchClient) (schema.IngestResult, error) {
	store, err := recordStore(mgr)
	if err != nil {
		return schema.IngestResult{}, err
	}

	start := schema.FormatDate(schema.AddDays(cfg.Today, -(cfg.SyncDays - 1)))
	end := schema.FormatDate(cfg.Today)
	progress(ctx, "Syncing %s to %s for %s...\n", start, end, cfg.User)

	return ingest(ctx, store, cfg.User, schema.SyncSource, func() ([]schema.DailyRecord, error) {
		raw, err := client.FetchRange(ctx, cfg.User, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s to %s: %w", start, end, err)
		}
		records := make([]schema.DailyRecord, 0, len(raw))
		for _, day := range raw {
			records = append(records, agg.FromRawSummary(day))
		}
		return records, nil
	})
}

// RunBackfill imputes breakdowns for totals-only entries from the reference window and upserts them.
// The records are tagged with the backfill source in the ingest ledger.
func RunBackfill(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, entries []schema.HistoricalEntry) (schema.IngestResult, error) {
	store, err := recordStore(mgr)
	if err != nil {
		return schema.IngestResult{}, err
	}

	refStart := schema.FormatDate(cfg.ReferenceStart)
	refEnd := schema.FormatDate(cfg.ReferenceEnd)
	reference, err := store.FindByRange(ctx, cfg.User, refStart, refEnd)
	if err != nil {
		return schema.IngestResult{}, fmt.Errorf("failed to load reference records: %w", err)
	}
	if len(reference) == 0 {
		return schema.IngestResult{}, fmt.Errorf("%w: no reference data between %s and %s, sync that window first",
			schema.ErrConfiguration, refStart, refEnd)
	}
	progress(ctx, "Backfilling %d days for %s using %d reference days...\n", len(entries), cfg.User, len(reference))

	return ingest(ctx, store, cfg.User, schema.BackfillSource, func() ([]schema.DailyRecord, error) {
		return agg.EstimateBackfill(entries, reference)
	})
}

// ingest runs one ledger-tracked batch: produce the records, validate all of them, then upsert
// each one and report which dates were written and which failed.
func ingest(ctx context.Context, store contract.RecordStore, userID string, source schema.IngestSource, produce func() ([]schema.DailyRecord, error)) (schema.IngestResult, error) {
	began := time.Now()
	runID, err := store.BeginIngest(ctx, userID, source, began)
	if err != nil {
		return schema.IngestResult{}, fmt.Errorf("failed to begin ingest run: %w", err)
	}
	result := schema.IngestResult{
		RunID:        runID,
		User:         userID,
		Source:       source,
		DatesWritten: []string{},
		DatesFailed:  []string{},
	}

	finish := func(runErr error) (schema.IngestResult, error) {
		result.Duration = time.Since(began)
		if endErr := store.EndIngest(ctx, runID, time.Now(), result.DatesWritten, result.DatesFailed, runErr); endErr != nil {
			log.WithError(endErr).WithFields(log.Fields{"run": runID}).Warn("failed to close ingest run")
		}
		return result, runErr
	}

	records, err := produce()
	if err != nil {
		return finish(err)
	}
	if err := agg.ValidateRecords(records); err != nil {
		for _, rec := range records {
			result.DatesFailed = append(result.DatesFailed, rec.Date)
		}
		return finish(fmt.Errorf("batch rejected before writing: %w", err))
	}

	for _, rec := range records {
		if err := store.Upsert(ctx, userID, rec); err != nil {
			log.WithError(err).WithFields(log.Fields{"run": runID, "date": rec.Date}).Warn("failed to write record")
			result.DatesFailed = append(result.DatesFailed, rec.Date)
			continue
		}
		result.DatesWritten = append(result.DatesWritten, rec.Date)
	}

	if len(result.DatesFailed) > 0 {
		return finish(fmt.Errorf("%w: %d of %d dates", ErrPartialIngest, len(result.DatesFailed), len(records)))
	}
	return finish(nil)
}

// progress prints a status line to stderr unless suppressed by the context.
func progress(ctx context.Context, format string, args ...any) {
	if shouldSuppressProgress(ctx) {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
