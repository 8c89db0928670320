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

// storeBackend reads and validates one backend/connection flag pair.
// An empty backend resolves to fallback.
func storeBackend(backendKey, connKey string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}
	backend := fallback
	if b := viper.GetString(backendKey); b != "" {
		backend = schema.DatabaseBackend(b)
	}
	connStr := viper.GetString(connKey)
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// cacheSetup opens only the sheet cache, skipping source validation.
func cacheSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeBackend("cache-backend", "cache-db-connect", schema.SQLiteBackend)
	if err != nil {
		return err
	}
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheCmd groups the sheet cache subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the sheet cache",
	Long: `Every fetched sheet tab is stored with its fetch time and reused while it is
younger than --cache-ttl. Pass --refresh to bypass it for a single run.

Backends: sqlite (default), mysql, postgresql, none.

Examples:
  incentive cache status
  incentive cache clear   # after the workbook was corrected`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached sheet tabs",
	Long: `Remove the sheet cache. SQLite deletes the database file; MySQL and
PostgreSQL drop the cache table.

Example:
  INCENTIVE_CACHE_BACKEND=mysql INCENTIVE_CACHE_DB_CONNECT="..." incentive cache clear`,
	PreRunE: cacheSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		iocache.CloseCaching()
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared successfully.")
		return nil
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long:    `Print the backend, the number of cached tabs, the newest and oldest fetch times and the table size.`,
	PreRunE: cacheSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iocache.Manager.GetSheetStore()
		if store == nil {
			return fmt.Errorf("sheet cache is not configured")
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get cache status: %w", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
		return nil
	},
}
