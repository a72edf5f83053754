package cmd

import (
	"github.com/huangsam/codepulse/core"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/spf13/cobra"
)

// summariesCmd prints the records of a named interval.
var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "Show daily activity for a named interval.",
	Long: `Show one row per day for the selected interval, followed by the interval totals
and the top languages, projects, editors and operating systems.

Intervals:
  7days   - the last 7 days including today, missing days shown as zero
  14days  - the last 14 days including today, missing days shown as zero
  1month  - the last 30 days, only days with stored records
  alltime - every stored record

Examples:
  # Last week at a glance
  codepulse summaries

  # Everything, as JSON
  codepulse summaries --interval alltime --output json

  # A month of records for a second user
  codepulse summaries -i 1month --user teammate`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummaries(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run summaries", err)
		}
	},
}

// statsCmd prints all-time statistics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show all-time totals, daily average and top breakdowns.",
	Long: `Summarize every stored record of the user.

Shows:
- Total time and number of tracked days
- Average time per tracked day
- Top languages, projects, editors and operating systems with percents of the all-time total

Examples:
  codepulse stats
  codepulse stats --top 5 --output csv --output-file stats.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute stats", err)
		}
	},
}

// weeklyCmd prints 7-day windows anchored at the tracking start.
var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Group tracked days into consecutive 7-day windows.",
	Long: `Split the history from the tracking start to today into 7-day windows.

Each window shows its total, tracked days, average per tracked day, coverage and an
activity level (Above, Steady, Below or Idle) relative to the overall weekly average.
The last window is clipped to today.

Examples:
  codepulse weekly
  codepulse weekly --tracking-start 2026-01-05`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeekly(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run weekly grouping", err)
		}
	},
}

// monthlyCmd prints calendar month buckets.
var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Group tracked days by calendar month.",
	Long: `Bucket tracked days by calendar month. Only months with at least one record are shown;
coverage is tracked days over the days in the month.

Examples:
  codepulse monthly
  codepulse monthly --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMonthly(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run monthly grouping", err)
		}
	},
}

// cumulativeCmd prints the running average series.
var cumulativeCmd = &cobra.Command{
	Use:   "cumulative",
	Short: "Show the running total and running average per tracked day.",
	Long: `Walk tracked days in date order and show the running total and the running
average after each one. Days without records are skipped.

Examples:
  codepulse cumulative
  codepulse cumulative --output csv --output-file cumulative.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCumulative(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot compute cumulative averages", err)
		}
	},
}
