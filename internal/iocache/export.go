package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/internal/parquet"
)

// ExecuteStoreExport writes every stored record, breakdown entry and ingest run to Parquet files.
// The files are named outputFile plus a per-table suffix.
func ExecuteStoreExport(store contract.RecordStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRecords == 0 && status.TotalRuns == 0 {
		return errors.New("no stored data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total records: %d\n", status.TotalRecords)
	fmt.Printf("Total ingest runs: %d\n", status.TotalRuns)

	records, err := store.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve records: %w", err)
	}
	runs, err := store.GetAllIngestRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve ingest runs: %w", err)
	}

	dailyRows := parquet.ConvertDailyRecords(records)
	dailyFile := outputFile + ".daily_records.parquet"
	if err := parquet.WriteDailyRecordsParquet(dailyRows, dailyFile); err != nil {
		return fmt.Errorf("failed to write daily records: %w", err)
	}
	fmt.Printf("Exported %d daily records to: %s\n", len(dailyRows), dailyFile)

	breakdownRows := parquet.ConvertBreakdownEntries(records)
	breakdownFile := outputFile + ".breakdowns.parquet"
	if err := parquet.WriteBreakdownEntriesParquet(breakdownRows, breakdownFile); err != nil {
		return fmt.Errorf("failed to write breakdowns: %w", err)
	}
	fmt.Printf("Exported %d breakdown entries to: %s\n", len(breakdownRows), breakdownFile)

	runRows := parquet.ConvertIngestRunRecords(runs)
	runsFile := outputFile + ".ingest_runs.parquet"
	if err := parquet.WriteIngestRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write ingest runs: %w", err)
	}
	fmt.Printf("Exported %d ingest runs to: %s\n", len(runRows), runsFile)

	fmt.Println("\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow) or Spark.")
	return nil
}
