package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteComparison outputs the period-over-period volume comparison.
func WriteComparison(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "comparison",
		func(w io.Writer) error { return writeComparisonTable(w, result, cfg, duration) },
		func(w io.Writer) error { return writeComparisonCSV(w, result) },
		func(w io.Writer) error { return writeJSON(w, result) },
		nil,
	)
}

// formatDelta signs the delta and colors it by direction.
func formatDelta(cfg *contract.Config, delta int) string {
	switch {
	case delta > 0:
		return painter(cfg, contract.GainColor)("+" + strconv.Itoa(delta))
	case delta < 0:
		return painter(cfg, contract.LossColor)(strconv.Itoa(delta))
	default:
		return "0"
	}
}

func trendMark(t schema.Trend) string {
	if t == schema.TrendUp {
		return "▲"
	}
	return "▼"
}

func writeComparisonTable(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	headers := []string{"Base", "Leader", "Previous", "Current", "Delta", "Trend", "Status"}
	if cfg.Detail {
		headers = append(headers, "Avg Load", "Peak Load")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 60)

	var data [][]string
	for _, d := range result.Details {
		row := []string{
			d.Code,
			contract.TruncateName(d.Leader, nameWidth),
			strconv.Itoa(d.PreviousRoutes),
			strconv.Itoa(d.CurrentRoutes),
			formatDelta(cfg, d.Delta),
			trendMark(d.Trend),
			string(d.Status),
		}
		if cfg.Detail {
			row = append(row, strconv.Itoa(d.AverageLoad), strconv.Itoa(d.PeakLoad))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	s := result.Summary
	if _, err := fmt.Fprintf(w, "Routes: %d → %d (net %s). Bases: %d active, %d new, %d inactive. Peak load: %d\n",
		s.PreviousTotal, s.CurrentTotal, formatDelta(cfg, s.NetDelta),
		s.TotalActiveBases, s.TotalNewBases, s.TotalInactiveBases, s.MaxPeakLoad); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Compared %s with %s in %v\n", result.Current, result.Previous, duration)
	return err
}

func writeComparisonCSV(w io.Writer, result schema.ComparisonResult) error {
	header := []string{"code", "locality", "leader", "coordinator", "previous_routes", "current_routes", "delta", "trend", "average_load", "peak_load", "status"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range result.Details {
			rec := []string{
				d.Code,
				d.Locality,
				d.Leader,
				d.Coordinator,
				strconv.Itoa(d.PreviousRoutes),
				strconv.Itoa(d.CurrentRoutes),
				strconv.Itoa(d.Delta),
				string(d.Trend),
				strconv.Itoa(d.AverageLoad),
				strconv.Itoa(d.PeakLoad),
				string(d.Status),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
