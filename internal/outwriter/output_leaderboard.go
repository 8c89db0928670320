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

// WriteLeaderboard outputs the ranked leaderboard.
func WriteLeaderboard(lb schema.Leaderboard, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "leaderboard",
		func(w io.Writer) error { return writeLeaderboardTable(w, lb, cfg, duration) },
		func(w io.Writer) error { return writeLeaderboardCSV(w, lb, cfg.Precision) },
		func(w io.Writer) error { return writeJSON(w, lb) },
		nil,
	)
}

func writeLeaderboardTable(w io.Writer, lb schema.Leaderboard, cfg *contract.Config, duration time.Duration) error {
	_, fmtMoney := createFormatters(cfg.Precision)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Base", "Leader", "Coordinator", "Access", "Guaranteed", "Projected", "At Stake"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxNameWidth(cfg, 75)
	stake := painter(cfg, contract.LossColor)

	var data [][]string
	for _, e := range lb.Entries {
		atStake := fmtMoney(e.AtStake)
		if e.AtStake.IsPositive() {
			atStake = stake(atStake)
		}
		data = append(data, []string{
			strconv.Itoa(e.Rank),
			e.Code,
			contract.TruncateName(e.Leader, nameWidth),
			contract.TruncateName(schema.AbbreviateName(e.Coordinator), nameWidth),
			contract.GetAccessLabel(e.AccessTier),
			fmtMoney(e.Guaranteed),
			fmtMoney(e.Projected),
			atStake,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	s := lb.Summary
	if _, err := fmt.Fprintf(w, "Showing %d of %d bases for %s (eligible: %d, guaranteed: %s, projected: %s, at stake: %s)\n",
		len(lb.Entries), s.TotalBases, lb.Window, s.EligibleBases,
		fmtMoney(s.Guaranteed), fmtMoney(s.Projected), fmtMoney(s.AtStake)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Computed in %v\n", duration)
	return err
}

func writeLeaderboardCSV(w io.Writer, lb schema.Leaderboard, precision int) error {
	_, fmtMoney := createFormatters(precision)
	header := []string{"rank", "code", "leader", "coordinator", "locality", "eligible", "access_tier", "guaranteed", "projected", "at_stake"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range lb.Entries {
			rec := []string{
				strconv.Itoa(e.Rank),
				e.Code,
				e.Leader,
				e.Coordinator,
				e.Locality,
				boolCell(e.Eligible),
				strconv.Itoa(e.AccessTier),
				fmtMoney(e.Guaranteed),
				fmtMoney(e.Projected),
				fmtMoney(e.AtStake),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
