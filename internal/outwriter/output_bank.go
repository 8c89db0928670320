package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteBankStatement outputs the virtual bank balances.
func WriteBankStatement(stmt schema.BankStatement, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "bank",
		func(w io.Writer) error { return writeBankTable(w, stmt, cfg, duration) },
		func(w io.Writer) error { return writeBankCSV(w, stmt, cfg.Precision) },
		func(w io.Writer) error { return writeJSON(w, stmt) },
		nil,
	)
}

func writeBankTable(w io.Writer, stmt schema.BankStatement, cfg *contract.Config, duration time.Duration) error {
	_, fmtMoney := createFormatters(cfg.Precision)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Base", "Leader", "Coordinator", "Eligible", "Accumulated", "Projected", "Combined"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 70)
	gain := painter(cfg, contract.GainColor)

	var data [][]string
	for _, r := range stmt.Rows {
		projected := fmtMoney(r.Projected)
		if r.Projected.IsPositive() {
			projected = gain("+" + projected)
		}
		data = append(data, []string{
			r.Code,
			contract.TruncateName(r.Leader, nameWidth),
			contract.TruncateName(schema.AbbreviateName(r.Coordinator), nameWidth),
			yesNo(r.Eligible),
			fmtMoney(r.Accumulated),
			projected,
			fmtMoney(r.Combined),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Bank for %s: accumulated %s, projected %s, combined %s\n",
		stmt.Window, fmtMoney(stmt.Accumulated), fmtMoney(stmt.Projected), fmtMoney(stmt.Combined)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Computed in %v\n", duration)
	return err
}

func writeBankCSV(w io.Writer, stmt schema.BankStatement, precision int) error {
	_, fmtMoney := createFormatters(precision)
	header := []string{"code", "leader", "coordinator", "eligible", "accumulated", "projected", "combined"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range stmt.Rows {
			rec := []string{
				r.Code,
				r.Leader,
				r.Coordinator,
				boolCell(r.Eligible),
				fmtMoney(r.Accumulated),
				fmtMoney(r.Projected),
				fmtMoney(r.Combined),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
