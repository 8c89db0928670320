package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// RunStatus represents the status of the report run store.
type RunStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	LastRunID        string           `json:"last_run_id"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TotalBaseResults int              `json:"total_base_results"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the incentive_runs table.
type RunRecord struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   *time.Time
	WindowStart  string
	WindowEnd    string
	TotalBases   *int
	ConfigParams *string
}

// BaseResultRecord represents a row from the incentive_base_results table.
// Nil pillar values were not applicable in that run.
type BaseResultRecord struct {
	RunID           string
	BaseCode        string
	Leader          string
	Eligible        *bool // nil when the gate was not applicable
	GateStatus      string
	Volume          *float64
	DeliverySuccess *float64
	Compliance      *float64
	Loss            *float64
	Protagonism     *float64
	Total           float64
	Projected       float64
}
