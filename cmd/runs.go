package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/internal/iocache"
	"github.com/huangsam/incentive/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsBackendFromConfig reads the run history backend. Empty means none.
func runsBackendFromConfig() (schema.DatabaseBackend, string, error) {
	return storeBackend("runs-backend", "runs-db-connect", schema.NoneBackend)
}

// runsSetup loads minimal configuration needed for run history operations.
func runsSetup() error {
	backend, connStr, err := runsBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no sheet cache for runs commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup does NOT initialize stores or create tables, so
// migrations can run on a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := runsBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunsDBFilePath()
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	return nil
}

// runsCmd focused on run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of computed reports and exports",
	Long: `Manage the history of report runs.

When --runs-backend is set, every report run is stored with:
- Run metadata (window, configuration, duration)
- The result of each base, with every pillar value

Pillars that did not apply are stored as NULL, never as zero.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show run history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check run history status
  incentive runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  incentive runs export --runs-backend sqlite --output-file runs`,
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored report runs",
	Long: `Delete all stored runs and base results.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  incentive runs export --output-file backup
  incentive runs clear`,
	PreRunE: runsSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		iocache.CloseCaching()
		if err := iocache.ClearRuns(cfg.RunsBackend, contract.GetRunsDBFilePath(), cfg.RunsDBConnect); err != nil {
			return fmt.Errorf("failed to clear run history: %w", err)
		}
		fmt.Println("Run history cleared successfully.")
		return nil
	},
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show detailed information about the run history.

Displays:
- Backend type and connection status
- Total number of runs and base results stored
- Last and oldest run timestamps
- Database table sizes`,
	PreRunE: runsSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			return fmt.Errorf("run history is not configured")
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get run status: %w", err)
		}
		iocache.PrintRunStatus(os.Stdout, status)
		return nil
	},
}

// runsExportCmd exports the run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs to Parquet format.

Exports two datasets:
- <output-file>.runs.parquet - metadata about each run
- <output-file>.base_results.parquet - per-base results of each run

Requires: --output-file parameter

Examples:
  incentive runs export --output-file incentive
  duckdb -c "SELECT * FROM read_parquet('incentive.base_results.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := iocache.ExecuteRunsExport(cfg.OutputFile, os.Stdout); err != nil {
			return fmt.Errorf("failed to export run history: %w", err)
		}
		return nil
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  incentive runs migrate --runs-backend sqlite

  # Rollback to the initial state
  incentive runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion, os.Stdout); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	},
}
