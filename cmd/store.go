package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/internal/iocache"
	"github.com/huangsam/codepulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadStoreConfig reads only the store-related settings.
// Store subcommands skip the full shared setup since they never resolve dates or intervals.
func loadStoreConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("%w: invalid store backend '%s'. must be sqlite, mysql, postgresql, none", schema.ErrConfiguration, backend)
	}
	connStr := viper.GetString("store-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetupWrapper opens the record store for status and export.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := loadStoreConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}
	return nil
}

// storeMigrateSetupWrapper loads the store settings without opening the store,
// allowing migrations to run on a fresh database.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := loadStoreConfig(); err != nil {
		return err
	}
	// For SQLite backend with empty connection string, use default path
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect == "" {
		cfg.StoreDBConnect = contract.GetStoreDBFilePath()
	}
	return nil
}

// storeCmd focused on record store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the record store",
	Long: `Manage the daily records and the ingest ledger.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show record and ingest run statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all stored data
  migrate - Run database schema migrations`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record store statistics and connection details",
	Long: `Show the backend, connection state, record and user counts, the stored date range,
the last ingest run and table sizes.

Examples:
  codepulse store status
  codepulse store status --store-backend postgresql --store-db-connect "host=localhost dbname=codepulse"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRecordStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// storeExportCmd exports stored data to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records to Parquet for BI tools and analytics",
	Long: `Export all stored data to three Parquet files next to --output-file:
- <file>.daily_records.parquet - one row per user and date
- <file>.breakdowns.parquet    - one row per user, date, list and name
- <file>.ingest_runs.parquet   - one row per sync or backfill run

Examples:
  codepulse store export --output-file codepulse
  duckdb -c "SELECT * FROM 'codepulse.breakdowns.parquet' LIMIT 10"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteStoreExport(iocache.Manager.GetRecordStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}

// storeClearCmd removes all stored data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored records and ingest runs",
	Long: `Delete every daily record and every ingest run.

For SQLite the database file is removed; for MySQL and PostgreSQL the tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  codepulse store export --output-file backup
  codepulse store clear`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store data", err)
		}
		fmt.Println("Store data cleared successfully.")
	},
}

// storeMigrateCmd runs schema migrations.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations for the record store",
	Long: `Apply or roll back the embedded schema migrations.

MySQL connection strings need multiStatements=true.

Examples:
  # Migrate to the latest version
  codepulse store migrate

  # Roll back everything
  codepulse store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
