package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/internal/parquet"
	"github.com/huangsam/incentive/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/shopspring/decimal"
)

// podiumMarks decorate the top three ranks in text output.
var podiumMarks = [...]string{"🥇", "🥈", "🥉"}

// WriteReport outputs the incentive report, dispatching based on the output format configured.
func WriteReport(report schema.IncentiveReport, cfg *contract.Config, duration time.Duration) error {
	return writeReportView(report, cfg, duration, false)
}

// WritePodium outputs the top of the ranking. Only the table differs from WriteReport.
func WritePodium(report schema.IncentiveReport, cfg *contract.Config, duration time.Duration) error {
	return writeReportView(report, cfg, duration, true)
}

func writeReportView(report schema.IncentiveReport, cfg *contract.Config, duration time.Duration, podium bool) error {
	return dispatch(cfg, "report",
		func(w io.Writer) error { return writeReportTable(w, report, cfg, duration, podium) },
		func(w io.Writer) error { return writeReportCSV(w, report, cfg.Precision) },
		func(w io.Writer) error { return writeJSON(w, report) },
		func(w io.Writer) error { return parquet.WriteReportRows(w, parquet.ConvertReport(report)) },
	)
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(w io.Writer, report schema.IncentiveReport, cfg *contract.Config, duration time.Duration, podium bool) error {
	_, fmtMoney := createFormatters(cfg.Precision)
	fmtFloat, _ := createFormatters(1)
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Base", "Leader", "Routes", "Gate", "Access"}
	for _, p := range schema.AllPillars {
		headers = append(headers, pillarHeaders[p])
	}
	headers = append(headers, "Total")
	if cfg.Detail {
		headers = append(headers, "Shipments", "DS %", "Projected")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	fixed := 90
	if cfg.Detail {
		fixed += 35
	}
	nameWidth := getMaxNameWidth(cfg, fixed)
	na := painter(cfg, contract.NAColor)(contract.NAValue)

	var data [][]string
	eligible := 0
	total := decimal.Zero
	for i, r := range report.Reports {
		rank := strconv.Itoa(r.Rank)
		if podium && i < len(podiumMarks) {
			rank = podiumMarks[i] + " " + rank
		}
		row := []string{
			rank,
			r.Code,
			contract.TruncateName(r.Base.LeaderName, nameWidth),
			strconv.Itoa(r.Activity.UniqueRoutes),
			gateCell(r.Gate, cfg),
			contract.GetAccessLabel(r.AccessTier),
		}
		for _, p := range schema.AllPillars {
			row = append(row, pillarCell(r.Pillar(p), fmtMoney, na))
		}
		row = append(row, fmtMoney(r.Total))
		if cfg.Detail {
			row = append(row,
				strconv.Itoa(r.Activity.Shipments),
				fmtFloat(r.Activity.DeliverySuccessRate),
				fmtMoney(r.Projected),
			)
		}
		data = append(data, row)
		if r.IsEligible() {
			eligible++
		}
		total = total.Add(r.Total)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d bases for %s (eligible: %d, payout: %s, network routes: %d)\n",
		len(report.Reports), report.Window, eligible, fmtMoney(total), report.Totals.UniqueRoutes); err != nil {
		return err
	}
	if d := report.Diagnostics; d.UnattributedRoutes > 0 {
		if _, err := fmt.Fprintf(w, "Unattributed: %d routes from %d codes outside the base directory\n", d.UnattributedRoutes, len(d.UnattributedCodes)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Computed in %v. Cache backend: %s\n", duration, backendLabel(cfg.CacheBackend)); err != nil {
		return err
	}
	return nil
}

// gateCell shows the gate as actual/target, or the reason it could not be evaluated.
func gateCell(g schema.GateResult, cfg *contract.Config) string {
	if g.Status != schema.ValueStatus {
		return painter(cfg, contract.NAColor)(contract.NAValue)
	}
	if g.Reason == schema.ReasonNoGoal {
		return painter(cfg, contract.NAColor)("no goal")
	}
	text := fmt.Sprintf("%d/%d", g.Actual, g.Target)
	if g.Open {
		return painter(cfg, contract.GainColor)(text)
	}
	return painter(cfg, contract.LossColor)(text)
}

func backendLabel(b schema.DatabaseBackend) string {
	if b == "" {
		return string(schema.NoneBackend)
	}
	return string(b)
}

// writeReportCSV writes one row per base. Each pillar has a status and a
// value column; the value of a not-applicable pillar is empty.
func writeReportCSV(w io.Writer, report schema.IncentiveReport, precision int) error {
	fmtFloat, fmtMoney := createFormatters(precision)
	header := []string{
		"rank", "code", "leader", "coordinator", "locality",
		"unique_routes", "shipments", "delivery_success_rate",
		"gate_status", "gate_target", "eligible", "access_tier",
	}
	for _, p := range schema.AllPillars {
		header = append(header, string(p)+"_status", string(p)+"_value")
	}
	header = append(header, "total", "projected")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range report.Reports {
			rec := []string{
				strconv.Itoa(r.Rank),
				r.Code,
				r.Base.LeaderName,
				r.Base.CoordinatorName,
				r.Base.Locality,
				strconv.Itoa(r.Activity.UniqueRoutes),
				strconv.Itoa(r.Activity.Shipments),
				fmtFloat(r.Activity.DeliverySuccessRate),
				string(r.Gate.Status),
				strconv.Itoa(r.Gate.Target),
				boolCell(r.Eligible),
				contract.GetAccessLabel(r.AccessTier),
			}
			for _, p := range schema.AllPillars {
				pr := r.Pillar(p)
				rec = append(rec, string(pr.Status), pillarCell(pr, fmtMoney, ""))
			}
			rec = append(rec, fmtMoney(r.Total), fmtMoney(r.Projected))
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
