package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
)

// sheetCacheTable is the name of the table for sheet payload caching.
const sheetCacheTable = "sheet_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run history.
func GetRunsDBFilePath() string {
	return contract.GetRunsDBFilePath()
}

// InitStores initializes the global manager with the sheet cache and run stores.
// An empty backend leaves the corresponding store disabled.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, runsBackend schema.DatabaseBackend, runsConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var sheetStore contract.CacheStore
		if cacheBackend != "" {
			store, err := NewCacheStore(sheetCacheTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize sheet caching: %w", err)
				return
			}
			sheetStore = store
		}

		var runStore contract.RunStore
		if runsBackend != "" {
			store, err := NewRunStore(runsBackend, runsConnStr)
			if err != nil {
				if sheetStore != nil {
					_ = sheetStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize run store: %w", err)
				return
			}
			runStore = store
		}

		Manager.Lock()
		Manager.sheet = sheetStore
		Manager.runs = runStore
		Manager.Unlock()
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.sheet != nil {
			_ = Manager.sheet.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearCache clears the sheet cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, sheetCacheTable)
}

// ClearRuns clears the run history for the specified backend, including the
// migration bookkeeping table.
func ClearRuns(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, baseResultsTable, runsTable, migrationsTable)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	driverName := driverFor(backend)
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}

// validateTableName rejects anything that is not a plain SQL identifier.
func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// quoteTableName quotes an identifier for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// driverFor returns the database/sql driver name of a backend.
func driverFor(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite"
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return ""
	}
}

// openDB opens and pings a connection. defaultPath is used for SQLite when
// connStr is empty.
func openDB(backend schema.DatabaseBackend, connStr, defaultPath string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = defaultPath
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}
