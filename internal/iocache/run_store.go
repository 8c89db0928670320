package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
)

// Table names for run history.
const (
	runsTable        = "incentive_runs"
	baseResultsTable = "incentive_base_results"
	migrationsTable  = "schema_migrations"
)

// sqliteTimeLayout is fixed width so stored times sort lexicographically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var runColumns = []string{"run_id", "started_at", "finished_at", "window_start", "window_end", "total_bases", "config_params"}

var baseResultColumns = []string{
	"run_id", "base_code", "leader", "eligible", "gate_status",
	"volume", "delivery_success", "compliance", "loss", "protagonism", "total", "projected",
}

// RunStoreImpl implements contract.RunStore with squirrel-built queries.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	builder sq.StatementBuilderType
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore opens the run store and creates its tables from the first
// embedded migration when they are missing.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetRunsDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}
	return newRunStoreWithDB(db, backend), nil
}

func newRunStoreWithDB(db *sql.DB, backend schema.DatabaseBackend) *RunStoreImpl {
	return &RunStoreImpl{db: db, backend: backend, builder: statementBuilder(backend)}
}

// statementBuilder picks the placeholder format of the backend.
func statementBuilder(backend schema.DatabaseBackend) sq.StatementBuilderType {
	if backend == schema.PostgreSQLBackend {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// createRunTables executes the statements of the initial migration one at a time.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	body, err := fs.ReadFile(migrationsFS, fmt.Sprintf("migrations/%s/%s", migrationDir(backend), initialMigration))
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(string(body), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func (rs *RunStoreImpl) formatTime(t time.Time) any {
	if rs.backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startedAt time.Time, w schema.Window, configParams map[string]any) (string, error) {
	if rs.disabled() {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	_, err = rs.builder.Insert(quoteTableName(runsTable, rs.backend)).
		Columns("run_id", "started_at", "window_start", "window_end", "config_params").
		Values(runID, rs.formatTime(startedAt), w.Start.String(), w.End.String(), string(configJSON)).
		RunWith(rs.db).
		Exec()
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// RecordBaseResult stores the outcome of one base. Pillars that were not
// applicable are stored as NULL.
func (rs *RunStoreImpl) RecordBaseResult(runID string, report schema.BaseIncentiveReport) error {
	if rs.disabled() {
		return nil
	}

	pillarValue := func(p schema.Pillar) any {
		pr := report.Pillar(p)
		if !pr.Applicable() {
			return nil
		}
		return pr.Value.InexactFloat64()
	}

	var eligible any
	if report.Eligible != nil {
		eligible = *report.Eligible
	}

	_, err := rs.builder.Insert(quoteTableName(baseResultsTable, rs.backend)).
		Columns(baseResultColumns...).
		Values(
			runID, report.Code, report.Base.LeaderName, eligible, string(report.Gate.Status),
			pillarValue(schema.VolumePillar),
			pillarValue(schema.DeliverySuccessPillar),
			pillarValue(schema.CompliancePillar),
			pillarValue(schema.LossPillar),
			pillarValue(schema.ProtagonismPillar),
			report.Total.InexactFloat64(),
			report.Projected.InexactFloat64(),
		).
		RunWith(rs.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to record base %s: %w", report.Code, err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID string, finishedAt time.Time, totalBases int) error {
	if rs.disabled() {
		return nil
	}

	res, err := rs.builder.Update(quoteTableName(runsTable, rs.backend)).
		Set("finished_at", rs.formatTime(finishedAt)).
		Set("total_bases", totalBases).
		Where(sq.Eq{"run_id": runID}).
		RunWith(rs.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	for _, table := range []string{runsTable, baseResultsTable} {
		var n int64
		if err := rs.builder.Select("COUNT(*)").From(quoteTableName(table, rs.backend)).RunWith(rs.db).QueryRow().Scan(&n); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.TableSizes[table] = n
	}
	status.TotalRuns = int(status.TableSizes[runsTable])
	status.TotalBaseResults = int(status.TableSizes[baseResultsTable])
	if status.TotalRuns == 0 {
		return status, nil
	}

	var last, oldest dbTime
	err := rs.builder.Select("run_id", "started_at").From(quoteTableName(runsTable, rs.backend)).
		OrderBy("started_at DESC").Limit(1).
		RunWith(rs.db).QueryRow().Scan(&status.LastRunID, &last)
	if err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	err = rs.builder.Select("started_at").From(quoteTableName(runsTable, rs.backend)).
		OrderBy("started_at ASC").Limit(1).
		RunWith(rs.db).QueryRow().Scan(&oldest)
	if err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	status.LastRunTime = last.Time
	status.OldestRunTime = oldest.Time
	return status, nil
}

// GetAllRuns returns every recorded run, newest first.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	rows, err := rs.builder.Select(runColumns...).From(quoteTableName(runsTable, rs.backend)).
		OrderBy("started_at DESC").
		RunWith(rs.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.RunRecord
	for rows.Next() {
		var (
			rec        schema.RunRecord
			started    dbTime
			finished   dbTime
			totalBases sql.NullInt64
			params     sql.NullString
		)
		if err := rows.Scan(&rec.RunID, &started, &finished, &rec.WindowStart, &rec.WindowEnd, &totalBases, &params); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.StartedAt = started.Time
		if finished.Valid {
			t := finished.Time
			rec.FinishedAt = &t
		}
		if totalBases.Valid {
			n := int(totalBases.Int64)
			rec.TotalBases = &n
		}
		if params.Valid {
			s := params.String
			rec.ConfigParams = &s
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return records, nil
}

// GetAllBaseResults returns every recorded base result ordered by run and base.
func (rs *RunStoreImpl) GetAllBaseResults() ([]schema.BaseResultRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	rows, err := rs.builder.Select(baseResultColumns...).From(quoteTableName(baseResultsTable, rs.backend)).
		OrderBy("run_id", "base_code").
		RunWith(rs.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query base results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.BaseResultRecord
	for rows.Next() {
		var (
			rec     schema.BaseResultRecord
			leader   sql.NullString
			eligible sql.NullBool
			pillars  [5]sql.NullFloat64
		)
		if err := rows.Scan(&rec.RunID, &rec.BaseCode, &leader, &eligible, &rec.GateStatus,
			&pillars[0], &pillars[1], &pillars[2], &pillars[3], &pillars[4],
			&rec.Total, &rec.Projected); err != nil {
			return nil, fmt.Errorf("failed to scan base result: %w", err)
		}
		rec.Leader = leader.String
		if eligible.Valid {
			rec.Eligible = &eligible.Bool
		}
		rec.Volume = nullableFloat(pillars[0])
		rec.DeliverySuccess = nullableFloat(pillars[1])
		rec.Compliance = nullableFloat(pillars[2])
		rec.Loss = nullableFloat(pillars[3])
		rec.Protagonism = nullableFloat(pillars[4])
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating base results: %w", err)
	}
	return records, nil
}

// Close closes the underlying DB connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// dbTime scans native timestamps as well as the text form SQLite stores.
type dbTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v, true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed, true
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}
