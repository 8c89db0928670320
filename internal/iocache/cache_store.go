package iocache

import (
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// CacheStoreImpl keeps sheet payloads keyed by origin and tab.
type CacheStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
	builder   sq.StatementBuilderType
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

var cacheColumns = []string{"cache_key", "cache_value", "cache_version", "cache_timestamp"}

// NewCacheStore opens the sheet cache on the backend. NoneBackend yields a
// store that never hits.
func NewCacheStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	store := &CacheStoreImpl{tableName: tableName, backend: backend, connStr: connStr, builder: statementBuilder(backend)}
	if backend == schema.NoneBackend {
		return store, nil
	}

	db, err := openDB(backend, connStr, GetDBFilePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(cacheTableDDL(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	store.db = db
	return store, nil
}

// cacheTableDDL differs per backend only in the blob and text types.
func cacheTableDDL(tableName string, backend schema.DatabaseBackend) string {
	keyType, blobType, tsType := "TEXT", "BLOB", "INTEGER"
	switch backend {
	case schema.MySQLBackend:
		keyType, blobType, tsType = "VARCHAR(255)", "LONGBLOB", "BIGINT"
	case schema.PostgreSQLBackend:
		blobType, tsType = "BYTEA", "BIGINT"
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	cache_key %s PRIMARY KEY,
	cache_value %s NOT NULL,
	cache_version INTEGER NOT NULL,
	cache_timestamp %s NOT NULL
)`, quoteTableName(tableName, backend), keyType, blobType, tsType)
}

func (ps *CacheStoreImpl) disabled() bool {
	return ps.backend == schema.NoneBackend || ps.db == nil
}

func (ps *CacheStoreImpl) table() string {
	return quoteTableName(ps.tableName, ps.backend)
}

// Get returns sql.ErrNoRows when the key was never stored.
func (ps *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if ps.disabled() {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64
	err := ps.builder.Select("cache_value", "cache_version", "cache_timestamp").
		From(ps.table()).
		Where(sq.Eq{"cache_key": key}).
		RunWith(ps.db).QueryRow().Scan(&value, &version, &ts)
	if err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set upserts the payload of key.
func (ps *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if ps.disabled() {
		return nil
	}
	_, err := ps.upsert().Values(key, value, version, timestamp).RunWith(ps.db).Exec()
	return err
}

// upsert is the backend flavor of insert-or-replace.
func (ps *CacheStoreImpl) upsert() sq.InsertBuilder {
	var insert sq.InsertBuilder
	switch ps.backend {
	case schema.MySQLBackend:
		insert = ps.builder.Insert(ps.table()).Suffix("AS new ON DUPLICATE KEY UPDATE " +
			"cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp")
	case schema.PostgreSQLBackend:
		insert = ps.builder.Insert(ps.table()).Suffix("ON CONFLICT (cache_key) DO UPDATE SET " +
			"cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp")
	default: // SQLite
		insert = ps.builder.Replace(ps.table())
	}
	return insert.Columns(cacheColumns...)
}

// Close closes the underlying DB connection.
func (ps *CacheStoreImpl) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus returns status information about the cache store.
func (ps *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ps.backend),
		Connected: ps.db != nil,
	}
	if ps.disabled() {
		return status, nil
	}

	if err := ps.builder.Select("COUNT(*)").From(ps.table()).RunWith(ps.db).QueryRow().Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}
	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	err := ps.builder.Select("MAX(cache_timestamp)", "MIN(cache_timestamp)").From(ps.table()).
		RunWith(ps.db).QueryRow().Scan(&lastTs, &oldestTs)
	if err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)
	status.TableSizeBytes = ps.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize asks the backend for the table size, falling back to a rough
// estimate from the row count.
func (ps *CacheStoreImpl) tableSize(rows int) int64 {
	estimate := int64(rows) * 1000
	var size int64
	switch ps.backend {
	case schema.SQLiteBackend:
		if err := ps.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()").Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		query := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ps.db.QueryRow(query, cfg.DBName, ps.tableName).Scan(&size); err != nil {
			return estimate
		}
	case schema.PostgreSQLBackend:
		if err := ps.db.QueryRow("SELECT pg_total_relation_size($1)", ps.tableName).Scan(&size); err != nil {
			return estimate
		}
	default:
		return estimate
	}
	return size
}
