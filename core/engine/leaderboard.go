package engine

import (
	"sort"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
)

// BuildLeaderboard ranks the report and splits each total into what the base
// has guaranteed and what it would earn with the gate open.
// A limit of zero or less keeps every entry; the summary always covers all.
func BuildLeaderboard(report schema.IncentiveReport, limit int) schema.Leaderboard {
	ranked := RankReports(report.Reports)
	lb := schema.Leaderboard{
		Window: report.Window,
		Summary: schema.LeaderboardSummary{
			TotalBases: len(ranked),
			Guaranteed: decimal.Zero,
			Projected:  decimal.Zero,
			AtStake:    decimal.Zero,
		},
	}
	for _, r := range ranked {
		guaranteed := decimal.Zero
		if r.IsEligible() {
			guaranteed = r.Total
			lb.Summary.EligibleBases++
		}
		entry := schema.LeaderboardEntry{
			Rank:        r.Rank,
			Code:        r.Code,
			Leader:      r.Base.LeaderName,
			Coordinator: r.Base.CoordinatorName,
			Locality:    r.Base.Locality,
			Eligible:    r.Eligible,
			AccessTier:  r.AccessTier,
			Guaranteed:  guaranteed,
			Projected:   r.Projected,
			AtStake:     r.Projected.Sub(guaranteed),
			Pillars:     r.Pillars,
		}
		lb.Summary.Guaranteed = lb.Summary.Guaranteed.Add(entry.Guaranteed)
		lb.Summary.Projected = lb.Summary.Projected.Add(entry.Projected)
		lb.Summary.AtStake = lb.Summary.AtStake.Add(entry.AtStake)
		if limit <= 0 || len(lb.Entries) < limit {
			lb.Entries = append(lb.Entries, entry)
		}
	}
	return lb
}

// BuildBankStatement pairs each virtual bank balance with the engine total
// of the window. Balances without a report project zero; reports without a
// balance start from zero. term filters by base, leader or coordinator.
func BuildBankStatement(report schema.IncentiveReport, balances []schema.BankBalance, term string) schema.BankStatement {
	byCode := make(map[string]schema.BaseIncentiveReport, len(report.Reports))
	for _, r := range report.Reports {
		byCode[NormalizeCode(r.Code)] = r
	}

	rows := make(map[string]schema.BankStatementRow)
	for _, b := range balances {
		code := NormalizeCode(b.BaseCode)
		if code == "" {
			continue
		}
		row, ok := rows[code]
		if !ok {
			row = schema.BankStatementRow{Code: code, Leader: b.Leader, Coordinator: b.Coordinator, Accumulated: decimal.Zero, Projected: decimal.Zero}
		}
		row.Accumulated = row.Accumulated.Add(b.Accumulated)
		rows[code] = row
	}
	for code, r := range byCode {
		row, ok := rows[code]
		if !ok {
			row = schema.BankStatementRow{Code: code, Accumulated: decimal.Zero}
		}
		if row.Leader == "" {
			row.Leader = r.Base.LeaderName
		}
		if row.Coordinator == "" {
			row.Coordinator = r.Base.CoordinatorName
		}
		row.Projected = r.Total
		row.Eligible = r.Eligible
		rows[code] = row
	}

	st := schema.BankStatement{Window: report.Window, Accumulated: decimal.Zero, Projected: decimal.Zero, Combined: decimal.Zero}
	for _, row := range rows {
		if term != "" && !schema.ContainsFold(row.Code, term) && !schema.ContainsFold(row.Leader, term) && !schema.ContainsFold(row.Coordinator, term) {
			continue
		}
		row.Combined = row.Accumulated.Add(row.Projected)
		st.Rows = append(st.Rows, row)
		st.Accumulated = st.Accumulated.Add(row.Accumulated)
		st.Projected = st.Projected.Add(row.Projected)
		st.Combined = st.Combined.Add(row.Combined)
	}
	sort.Slice(st.Rows, func(i, j int) bool {
		if c := st.Rows[i].Combined.Cmp(st.Rows[j].Combined); c != 0 {
			return c > 0
		}
		return st.Rows[i].Code < st.Rows[j].Code
	})
	return st
}
