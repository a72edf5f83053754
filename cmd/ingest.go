package cmd

import (
	"github.com/huangsam/codepulse/core"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/internal/wakatime"
	"github.com/spf13/cobra"
)

// syncCmd pulls recent days from WakaTime into the record store.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull recent daily summaries from WakaTime into the record store.",
	Long: `Fetch the last --sync-days days ending today from the WakaTime summaries API and
upsert one record per day.

The API key is read from WAKATIME_API_KEY_<USER> (user upper-cased), falling back to
WAKATIME_API_KEY. Every day is validated before the first write; if any day is malformed
nothing is written. Each run is recorded in the ingest ledger with the dates written and
the dates that failed.

Examples:
  WAKATIME_API_KEY=... codepulse sync
  codepulse sync --sync-days 30 --user teammate`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client := wakatime.NewClient(cfg.WakaTimeBaseURL, cfg.WakaTimeTimeout)
		if err := core.ExecuteSync(rootCtx, cfg, storeManager, client); err != nil {
			contract.LogFatal("Cannot sync activity", err)
		}
	},
}

// backfillCmd estimates breakdowns for totals-only history.
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Store historical totals with breakdowns estimated from a reference window.",
	Long: `Read a CSV of date,hours,minutes rows (header optional, '#' starts a comment) and store
one record per row. Breakdowns are estimated from the average mix of the reference window,
so backfilled records are heuristic, not measured. They are tagged as backfill in the
ingest ledger.

The reference window defaults to the 7 days ending today and must contain stored records.

Examples:
  codepulse backfill --entries-file history.csv
  codepulse backfill --entries-file history.csv --reference-start 2026-01-01 --reference-end 2026-01-31`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBackfill(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot backfill activity", err)
		}
	},
}
