// Package cmd defines the command-line interface for codepulse.
package cmd

import (
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summariesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(weeklyCmd)
	rootCmd.AddCommand(monthlyCmd)
	rootCmd.AddCommand(cumulativeCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("user", "u", contract.DefaultUser, "User whose records are read and written")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Maximum number of stored records returned by queries")
	rootCmd.PersistentFlags().Int("top", contract.DefaultTopN, "Number of entries kept per breakdown list")
	rootCmd.PersistentFlags().String("timezone", "Local", "IANA timezone that decides what 'today' is")
	rootCmd.PersistentFlags().String("today", "", "Override the current date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of summariesCmd to Viper
	summariesCmd.Flags().StringP("interval", "i", string(schema.Interval7Days), "Interval: 7days or 14days or 1month or alltime")
	if err := viper.BindPFlags(summariesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding summaries flags", err)
	}

	// Bind all flags of weeklyCmd to Viper
	weeklyCmd.Flags().String("tracking-start", "", "First day of the first week (YYYY-MM-DD, defaults to the earliest record)")
	if err := viper.BindPFlags(weeklyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding weekly flags", err)
	}

	// Bind all flags of syncCmd to Viper
	syncCmd.Flags().Int("sync-days", contract.DefaultSyncDays, "Number of days ending today to pull")
	syncCmd.Flags().String("wakatime-base-url", contract.DefaultWakaTimeBaseURL, "Base URL of the WakaTime API")
	syncCmd.Flags().String("wakatime-timeout", contract.DefaultWakaTimeTimeout.String(), "HTTP timeout for WakaTime requests")
	if err := viper.BindPFlags(syncCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sync flags", err)
	}

	// Bind all flags of backfillCmd to Viper
	backfillCmd.Flags().String("entries-file", "", "CSV file of date,hours,minutes rows to backfill")
	backfillCmd.Flags().String("reference-start", "", "First day of the reference window (defaults to 6 days before the end)")
	backfillCmd.Flags().String("reference-end", "", "Last day of the reference window (defaults to today)")
	if err := viper.BindPFlags(backfillCmd.Flags()); err != nil {
		contract.LogFatal("Error binding backfill flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
