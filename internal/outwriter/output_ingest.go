package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/schema"
)

// Per-date ingest statuses in CSV output.
const (
	writtenStatus = "written"
	failedStatus  = "failed"
)

// WriteIngestResult outputs the outcome of a sync or backfill, dispatching based on the output format configured.
func WriteIngestResult(result schema.IngestResult, cfg *contract.Config) error {
	return dispatch(cfg,
		func(w io.Writer) error { return writeIngestText(w, result) },
		func(w io.Writer) error { return writeIngestCSV(w, result) },
		func(w io.Writer) error { return writeJSON(w, result) },
	)
}

func writeIngestText(w io.Writer, result schema.IngestResult) error {
	verb := "Synced"
	if result.Source == schema.BackfillSource {
		verb = "Backfilled"
	}
	if _, err := fmt.Fprintf(w, "%s %d days for %s (run %s) in %v\n",
		verb, len(result.DatesWritten), result.User, result.RunID, result.Duration); err != nil {
		return err
	}
	if len(result.DatesWritten) > 0 {
		if _, err := fmt.Fprintf(w, "Written: %s\n", strings.Join(result.DatesWritten, ", ")); err != nil {
			return err
		}
	}
	if len(result.DatesFailed) > 0 {
		if _, err := fmt.Fprintf(w, "Failed: %s\n", strings.Join(result.DatesFailed, ", ")); err != nil {
			return err
		}
	}
	if result.Source == schema.BackfillSource && len(result.DatesWritten) > 0 {
		_, err := fmt.Fprintln(w, "Note: backfilled breakdowns are estimated from the reference window, not measured.")
		return err
	}
	return nil
}

func writeIngestCSV(w io.Writer, result schema.IngestResult) error {
	header := []string{"run_id", "user", "source", "date", "status"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		write := func(dates []string, status string) error {
			for _, date := range dates {
				if err := cw.Write([]string{result.RunID, result.User, string(result.Source), date, status}); err != nil {
					return err
				}
			}
			return nil
		}
		if err := write(result.DatesWritten, writtenStatus); err != nil {
			return err
		}
		return write(result.DatesFailed, failedStatus)
	})
}
