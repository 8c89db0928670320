package engine

import (
	"testing"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLeaderboard(t *testing.T) {
	report := ComputeIncentiveReport(fixture(), window("2024-03-01", "2024-03-10"), "")

	lb := BuildLeaderboard(report, 0)
	require.Len(t, lb.Entries, 3)
	assert.Equal(t, 3, lb.Summary.TotalBases)
	assert.Equal(t, 1, lb.Summary.EligibleBases)

	first := lb.Entries[0]
	assert.Equal(t, "LRJ01", first.Code)
	assert.True(t, first.Guaranteed.Equal(decimal.NewFromInt(1150)))
	assert.True(t, first.AtStake.IsZero())
	assert.Equal(t, 2, first.AccessTier)

	var lrj02 schema.LeaderboardEntry
	for _, e := range lb.Entries {
		if e.Code == "LRJ02" {
			lrj02 = e
		}
	}
	assert.True(t, lrj02.Guaranteed.IsZero())
	assert.True(t, lrj02.Projected.Equal(decimal.NewFromInt(250)))
	assert.True(t, lrj02.AtStake.Equal(decimal.NewFromInt(250)))

	assert.True(t, lb.Summary.Guaranteed.Equal(decimal.NewFromInt(1150)))
	assert.True(t, lb.Summary.Projected.Equal(decimal.NewFromInt(1400)))
	assert.True(t, lb.Summary.AtStake.Equal(decimal.NewFromInt(250)))

	limited := BuildLeaderboard(report, 1)
	assert.Len(t, limited.Entries, 1)
	assert.Equal(t, 3, limited.Summary.TotalBases, "summary covers all bases")
}

func TestBuildBankStatement(t *testing.T) {
	report := ComputeIncentiveReport(fixture(), window("2024-03-01", "2024-03-10"), "")
	balances := []schema.BankBalance{
		{BaseCode: "LRJ01", Leader: "Carlos Mendes", Coordinator: "Ana", Accumulated: decimal.NewFromInt(300)},
		{BaseCode: "LRJ 50", Leader: "Paula", Coordinator: "Bruno", Accumulated: decimal.NewFromInt(80)},
	}

	st := BuildBankStatement(report, balances, "")
	require.Len(t, st.Rows, 4)
	assert.Equal(t, "LRJ01", st.Rows[0].Code)
	assert.True(t, st.Rows[0].Combined.Equal(decimal.NewFromInt(1450)))
	assert.True(t, st.Accumulated.Equal(decimal.NewFromInt(380)))
	assert.True(t, st.Projected.Equal(decimal.NewFromInt(1150)))
	assert.True(t, st.Combined.Equal(decimal.NewFromInt(1530)))

	var orphan schema.BankStatementRow
	for _, r := range st.Rows {
		if r.Code == "LRJ50" {
			orphan = r
		}
	}
	assert.True(t, orphan.Projected.IsZero(), "balance without a report projects zero")

	byCoordinator := BuildBankStatement(report, balances, "bruno")
	codes := []string{}
	for _, r := range byCoordinator.Rows {
		codes = append(codes, r.Code)
	}
	assert.ElementsMatch(t, []string{"LRJ50", "LES03"}, codes)

	byLeader := BuildBankStatement(report, balances, "roberta")
	require.Len(t, byLeader.Rows, 1)
	assert.Equal(t, "LRJ02", byLeader.Rows[0].Code)
}
