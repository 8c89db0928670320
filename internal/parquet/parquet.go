// Package parquet provides row types and writers for exporting incentive runs
// and reports to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/incentive/schema"
	"github.com/parquet-go/parquet-go"
)

// Run is one recorded report run.
// This struct maps to the incentive_runs database table.
type Run struct {
	RunID string `parquet:"run_id,snappy"`

	// StartedAt is stored as TIMESTAMP with nanosecond precision
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is nil for runs that never completed
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// RunDurationMs is derived from the two timestamps (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	WindowStart  string  `parquet:"window_start,snappy"`
	WindowEnd    string  `parquet:"window_end,snappy"`
	TotalBases   *int32  `parquet:"total_bases,optional,snappy"`
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// BaseResult is the stored outcome of one base in one run.
// This struct maps to the incentive_base_results database table.
// Nil pillar values were not applicable in that run.
type BaseResult struct {
	RunID           string   `parquet:"run_id,snappy"`
	BaseCode        string   `parquet:"base_code,snappy"`
	Leader          string   `parquet:"leader,snappy"`
	Eligible        *bool    `parquet:"eligible,optional"`
	GateStatus      string   `parquet:"gate_status,snappy"`
	Volume          *float64 `parquet:"volume,optional,snappy"`
	DeliverySuccess *float64 `parquet:"delivery_success,optional,snappy"`
	Compliance      *float64 `parquet:"compliance,optional,snappy"`
	Loss            *float64 `parquet:"loss,optional,snappy"`
	Protagonism     *float64 `parquet:"protagonism,optional,snappy"`
	Total           float64  `parquet:"total,snappy"`
	Projected       float64  `parquet:"projected,snappy"`
}

// ReportRow is one base of a computed report, flattened for export.
type ReportRow struct {
	WindowStart     string   `parquet:"window_start,snappy"`
	WindowEnd       string   `parquet:"window_end,snappy"`
	Rank            int32    `parquet:"rank"`
	BaseCode        string   `parquet:"base_code,snappy"`
	Leader          string   `parquet:"leader,snappy"`
	Coordinator     string   `parquet:"coordinator,snappy"`
	Locality        string   `parquet:"locality,snappy"`
	UniqueRoutes    int32    `parquet:"unique_routes"`
	Shipments       int32    `parquet:"shipments"`
	Delivered       int32    `parquet:"delivered"`
	GateOpen        bool     `parquet:"gate_open"`
	AccessTier      int32    `parquet:"access_tier"`
	Volume          *float64 `parquet:"volume,optional,snappy"`
	DeliverySuccess *float64 `parquet:"delivery_success,optional,snappy"`
	Compliance      *float64 `parquet:"compliance,optional,snappy"`
	Loss            *float64 `parquet:"loss,optional,snappy"`
	Protagonism     *float64 `parquet:"protagonism,optional,snappy"`
	Total           float64  `parquet:"total,snappy"`
	Projected       float64  `parquet:"projected,snappy"`
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteBaseResultsParquet writes base results to a Parquet file.
func WriteBaseResultsParquet(data []BaseResult, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteReportRows writes report rows to w.
func WriteReportRows(w io.Writer, data []ReportRow) error {
	return writeRows(w, data)
}

func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// writeRows infers the schema from the struct tags of T.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		row := Run{
			RunID:        record.RunID,
			StartedAt:    record.StartedAt,
			FinishedAt:   record.FinishedAt,
			WindowStart:  record.WindowStart,
			WindowEnd:    record.WindowEnd,
			ConfigParams: record.ConfigParams,
		}
		if record.FinishedAt != nil {
			ms := record.FinishedAt.Sub(record.StartedAt).Milliseconds()
			row.RunDurationMs = &ms
		}
		if record.TotalBases != nil {
			n := int32(*record.TotalBases)
			row.TotalBases = &n
		}
		result[i] = row
	}
	return result
}

// ConvertBaseResultRecords converts schema.BaseResultRecord to BaseResult for Parquet export.
func ConvertBaseResultRecords(records []schema.BaseResultRecord) []BaseResult {
	result := make([]BaseResult, len(records))
	for i, record := range records {
		result[i] = BaseResult{
			RunID:           record.RunID,
			BaseCode:        record.BaseCode,
			Leader:          record.Leader,
			Eligible:        record.Eligible,
			GateStatus:      record.GateStatus,
			Volume:          record.Volume,
			DeliverySuccess: record.DeliverySuccess,
			Compliance:      record.Compliance,
			Loss:            record.Loss,
			Protagonism:     record.Protagonism,
			Total:           record.Total,
			Projected:       record.Projected,
		}
	}
	return result
}

// ConvertReport flattens a computed report. Not-applicable pillars are null.
func ConvertReport(report schema.IncentiveReport) []ReportRow {
	result := make([]ReportRow, len(report.Reports))
	for i, r := range report.Reports {
		result[i] = ReportRow{
			WindowStart:     report.Window.Start.String(),
			WindowEnd:       report.Window.End.String(),
			Rank:            int32(r.Rank),
			BaseCode:        r.Code,
			Leader:          r.Base.LeaderName,
			Coordinator:     r.Base.CoordinatorName,
			Locality:        r.Base.Locality,
			UniqueRoutes:    int32(r.Activity.UniqueRoutes),
			Shipments:       int32(r.Activity.Shipments),
			Delivered:       int32(r.Activity.Delivered),
			GateOpen:        r.Gate.Open,
			AccessTier:      int32(r.AccessTier),
			Volume:          PillarValue(r.Pillar(schema.VolumePillar)),
			DeliverySuccess: PillarValue(r.Pillar(schema.DeliverySuccessPillar)),
			Compliance:      PillarValue(r.Pillar(schema.CompliancePillar)),
			Loss:            PillarValue(r.Pillar(schema.LossPillar)),
			Protagonism:     PillarValue(r.Pillar(schema.ProtagonismPillar)),
			Total:           r.Total.InexactFloat64(),
			Projected:       r.Projected.InexactFloat64(),
		}
	}
	return result
}

// PillarValue returns nil for a not-applicable pillar.
func PillarValue(p schema.PillarResult) *float64 {
	if !p.Applicable() {
		return nil
	}
	v := p.Value.InexactFloat64()
	return &v
}
