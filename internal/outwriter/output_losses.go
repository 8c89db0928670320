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

// WriteLossSummary outputs delivery bands and the bases holding the most pending shipments.
func WriteLossSummary(summary schema.LossSummary, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "losses",
		func(w io.Writer) error { return writeLossTables(w, summary, cfg, duration) },
		func(w io.Writer) error { return writeLossCSV(w, summary, cfg.Precision) },
		func(w io.Writer) error { return writeJSON(w, summary) },
		nil,
	)
}

func bandLabel(cfg *contract.Config, band schema.DeliveryBand) string {
	if cfg.UseColors {
		return contract.GetColorLabel(band)
	}
	return contract.GetPlainLabel(band)
}

func lossRows(rows []schema.BaseLossRow, cfg *contract.Config, nameWidth int) [][]string {
	fmtFloat, _ := createFormatters(cfg.Precision)
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			r.Code,
			contract.TruncateName(r.Leader, nameWidth),
			strconv.Itoa(r.Shipments),
			strconv.Itoa(r.Delivered),
			strconv.Itoa(r.Pending),
			fmtFloat(r.DeliverySuccessRate),
			bandLabel(cfg, r.Band),
			fmtFloat(r.PNRRate),
			fmtFloat(r.StuckRate),
		})
	}
	return data
}

func renderLossTable(w io.Writer, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Base", "Leader", "Shipments", "Delivered", "Pending", "DS %", "Band", "PNR %", "Stuck %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeLossTables(w io.Writer, summary schema.LossSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	nameWidth := getMaxNameWidth(cfg, 80)

	if err := renderLossTable(w, lossRows(summary.Bases, cfg, nameWidth)); err != nil {
		return err
	}
	if len(summary.TopPending) > 0 {
		if _, err := fmt.Fprintln(w, "Most pending shipments:"); err != nil {
			return err
		}
		if err := renderLossTable(w, lossRows(summary.TopPending, cfg, nameWidth)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Network %s: %d shipments, %d delivered, %d pending, PNR %s%%, stuck %s%%\n",
		summary.Window, summary.Shipments, summary.Delivered, summary.Pending,
		fmtFloat(summary.PNRRate), fmtFloat(summary.StuckRate)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Computed in %v\n", duration)
	return err
}

func writeLossCSV(w io.Writer, summary schema.LossSummary, precision int) error {
	fmtFloat, _ := createFormatters(precision)
	header := []string{"code", "leader", "shipments", "delivered", "failures", "pending", "delivery_success_rate", "band", "pnr_rate", "stuck_rate"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range summary.Bases {
			rec := []string{
				r.Code,
				r.Leader,
				strconv.Itoa(r.Shipments),
				strconv.Itoa(r.Delivered),
				strconv.Itoa(r.Failures),
				strconv.Itoa(r.Pending),
				fmtFloat(r.DeliverySuccessRate),
				string(r.Band),
				fmtFloat(r.PNRRate),
				fmtFloat(r.StuckRate),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
