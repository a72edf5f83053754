package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/bytedance/sonic"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// dispatch picks the writer for the configured output format.
func dispatch(cfg *contract.Config, writeText, writeCSV, writeJSONOut func(io.Writer) error) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, writeJSONOut, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, writeCSV, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, writeText, "Wrote table")
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := sonic.ConfigStd.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// renderTable writes rows under headers with right-aligned cells.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// activityLabel returns the colored or plain label of a level.
func activityLabel(level schema.ActivityLevel, useColors bool) string {
	if level == "" {
		return ""
	}
	if useColors {
		return contract.GetColorLabel(level)
	}
	return contract.GetPlainLabel(level)
}

// compactSeconds renders a possibly fractional number of seconds as "7h 40m".
func compactSeconds(seconds float64) string {
	return schema.FormatCompact(math.Round(seconds))
}

// breakdownRows renders ranked entries as table rows with truncated names.
func breakdownRows(entries []schema.AggregatedEntry, nameWidth int, fmtFloat func(float64) string) [][]string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			contract.TruncateName(e.Name, nameWidth),
			schema.FormatDuration(e.TotalSeconds).Digital,
			fmtFloat(e.Percent) + "%",
		})
	}
	return rows
}

// listTitle names a breakdown list for section headings.
func listTitle(list schema.BreakdownList) string {
	switch list {
	case schema.Languages:
		return "Languages"
	case schema.Projects:
		return "Projects"
	case schema.Editors:
		return "Editors"
	case schema.OperatingSystems:
		return "Operating Systems"
	default:
		return string(list)
	}
}
