// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/incentive/schema"
)

// DataSource supplies the collections one computation reads.
// Implementations return an empty collection on fetch failure, never an error;
// an empty collection means "no data".
type DataSource interface {
	FetchOperationalRecords(ctx context.Context, w schema.Window) []schema.OperationalRecord
	FetchComplianceRecords(ctx context.Context) []schema.ComplianceRecord
	FetchLossEvents(ctx context.Context, w schema.Window) []schema.LossEvent
	FetchProtagonismScores(ctx context.Context) []schema.ProtagonismScore
	FetchGoalDefinitions(ctx context.Context, pillar schema.Pillar) []schema.GoalDefinition
	FetchBaseDirectory(ctx context.Context) []schema.Base
	FetchBankBalances(ctx context.Context) []schema.BankBalance
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSheetStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore records report runs and their per-base results.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startedAt time.Time, w schema.Window, configParams map[string]any) (string, error)

	// RecordBaseResult stores the outcome of one base in a run
	RecordBaseResult(runID string, report schema.BaseIncentiveReport) error

	// EndRun updates the run with completion data
	EndRun(runID string, finishedAt time.Time, totalBases int) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run, newest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllBaseResults returns every recorded base result
	GetAllBaseResults() ([]schema.BaseResultRecord, error)

	// Close closes the underlying connection
	Close() error
}

// ReportPublisher emits computed reports to downstream consumers.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report schema.IncentiveReport) error
	Close() error
}
