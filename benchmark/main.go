// Package main provides a performance benchmarking tool for the codepulse CLI.
// It seeds SQLite stores with synthetic histories of different lengths, then measures
// execution times of every query command, running each one multiple times, treating the
// first successful run as cold and averaging the rest as warm, and writes CSV output
// for performance analysis and documentation.
//
// Prerequisites:
// - codepulse binary installed and available in PATH
//
// Usage: go run ./benchmark [work-dir]
//
//	work-dir: Directory where the seeded SQLite files are created (defaults to a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/codepulse/internal/iocache"
	"github.com/huangsam/codepulse/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	HistoryDays int
	Command     string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Today    time.Time
	Timeout  time.Duration
	Runs     int
	Sizes    []int
	Commands [][]string
}

// Synthetic breakdown names used when seeding.
var (
	languages = []string{"Go", "Python", "TypeScript", "SQL", "Markdown", "YAML"}
	projects  = []string{"codepulse", "infra", "website", "notebooks"}
	editors   = []string{"Neovim", "VS Code"}
	systems   = []string{"Linux", "Mac"}
)

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "codepulse-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: workDir,
		Today:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Timeout: 2 * time.Minute,
		Runs:    5,
		Sizes:   []int{90, 365, 1825},
		Commands: [][]string{
			{"summaries", "--interval", "7days"},
			{"summaries", "--interval", "alltime"},
			{"stats"},
			{"weekly"},
			{"monthly"},
			{"cumulative"},
		},
	}

	if _, err := exec.LookPath("codepulse"); err != nil {
		fmt.Printf("Prerequisites check failed: codepulse binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks seeds one store per history size and times every command against it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %d commands, %v timeout, %d runs each\n",
		len(config.Sizes), len(config.Commands), config.Timeout, config.Runs)

	for _, days := range config.Sizes {
		dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("history_%d.db", days))
		fmt.Printf("Seeding %d days into %s\n", days, dbPath)
		if err := seedStore(dbPath, days, config.Today); err != nil {
			return nil, fmt.Errorf("failed to seed %d days: %w", days, err)
		}

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, dbPath, days, command))
		}
	}
	return results, nil
}

// seedStore writes a deterministic synthetic history ending at today.
// Roughly one day in five is left empty so that gap filling and coverage are exercised.
func seedStore(dbPath string, days int, today time.Time) error {
	_ = os.Remove(dbPath)
	store, err := iocache.NewRecordStore(schema.SQLiteBackend, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rng := rand.New(rand.NewPCG(uint64(days), 42))
	ctx := context.Background()
	for i := days - 1; i >= 0; i-- {
		if rng.IntN(5) == 0 {
			continue
		}
		date := schema.FormatDate(schema.AddDays(today, -i))
		total := int64(1800 + rng.IntN(8*3600))

		rec := schema.NewDailyRecord(date, total)
		rec.Languages = splitTotal(rng, languages, total)
		rec.Projects = splitTotal(rng, projects, total)
		rec.Editors = splitTotal(rng, editors, total)
		rec.OperatingSystems = splitTotal(rng, systems, total)
		if err := store.Upsert(ctx, "me", rec); err != nil {
			return err
		}
	}
	return nil
}

// splitTotal spreads total over a random subset of names without exceeding it.
func splitTotal(rng *rand.Rand, names []string, total int64) []schema.BreakdownEntry {
	count := 1 + rng.IntN(len(names))
	weights := make([]int, count)
	sum := 0
	for i := range weights {
		weights[i] = 1 + rng.IntN(10)
		sum += weights[i]
	}

	entries := make([]schema.BreakdownEntry, 0, count)
	for i, w := range weights {
		seconds := total * int64(w) / int64(sum)
		parts := schema.FormatDuration(seconds)
		entries = append(entries, schema.BreakdownEntry{
			Name:         names[i],
			TotalSeconds: seconds,
			Percent:      float64(w) * 100 / float64(sum),
			Digital:      parts.Digital,
			Text:         parts.Text,
		})
	}
	return entries
}

// runBenchmarkSuite runs one command config.Runs times against the seeded store.
func runBenchmarkSuite(config BenchmarkConfig, dbPath string, days int, command []string) BenchmarkResult {
	name := command[0]
	if len(command) > 2 {
		name = command[0] + ":" + command[2]
	}
	fmt.Printf("  %s (%d runs)\n", name, config.Runs)

	cold, times := runBenchmark(config, dbPath, command)

	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}
	warmAvg := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)
	return BenchmarkResult{
		HistoryDays: days,
		Command:     name,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a codepulse command multiple times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, dbPath string, command []string) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command...)
	args = append(args,
		"--store-backend", "sqlite",
		"--store-db-connect", dbPath,
		"--today", schema.FormatDate(config.Today),
		"--timezone", "UTC",
		"--output", "json",
	)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		cmd := exec.CommandContext(ctx, "codepulse", args...)
		cmd.Dir = config.WorkDir
		if err := cmd.Run(); err == nil {
			times = append(times, time.Since(start).Seconds())
		}
		cancel()
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("codepulse_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"history_days", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.HistoryDays), result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by history size.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, days := range config.Sizes {
		fmt.Printf("%d days of history:\n", days)
		for _, result := range results {
			if result.HistoryDays == days {
				fmt.Printf("  %-18s: Cold: %s, Warm: %s\n", result.Command, result.ColdTime, result.WarmTime)
			}
		}
	}
}
