package engine

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routes returns n distinct route records for the base on the date.
func routes(base, date string, n, shipped, delivered int) []schema.OperationalRecord {
	out := make([]schema.OperationalRecord, n)
	for i := range out {
		out[i] = op(date, base, fmt.Sprintf("%s-%s-%d", base, date, i), i, shipped, delivered, shipped-delivered)
	}
	return out
}

func compliant(base string, n int) []schema.ComplianceRecord {
	out := make([]schema.ComplianceRecord, n)
	for i := range out {
		out[i] = schema.ComplianceRecord{
			BaseCode:      base,
			DriverName:    fmt.Sprintf("driver %d", i),
			LicenseStatus: schema.Compliant,
			DriverStatus:  schema.Compliant,
			RiskStatus:    schema.Compliant,
		}
	}
	return out
}

// fixture is a March window with one eligible and one ineligible base.
func fixture() schema.EngineInput {
	var ops []schema.OperationalRecord
	ops = append(ops, routes("LRJ01", "2024-03-01", 60, 10, 10)...)
	ops = append(ops, routes("LRJ01", "2024-03-02", 60, 10, 10)...)
	ops = append(ops, routes("LRJ02", "2024-03-01", 99, 10, 9)...)
	ops = append(ops, routes("LXX99", "2024-03-01", 7, 10, 10)...) // not in the directory

	goals := []schema.GoalDefinition{
		goal(schema.VolumePillar, "LRJ01", "Março", 1, 10, 500),
		goal(schema.VolumePillar, "LRJ01", "Março", 2, 11, 700),
		goal(schema.VolumePillar, "LRJ01", "Março", 3, 13, 900),
		goal(schema.VolumePillar, "LRJ02", "Março", 1, 10, 500),
		goal(schema.DeliverySuccessPillar, "LRJ01", "", 1, 95, 100),
		goal(schema.DeliverySuccessPillar, "LRJ02", "", 1, 85, 100),
		goal(schema.CompliancePillar, "LRJ01", "", 1, 2, 100),
		goal(schema.CompliancePillar, "LRJ02", "", 1, 2, 100),
		goal(schema.LossPillar, "LRJ01", "", 1, 1.0, 50),
		goal(schema.LossPillar, "LRJ01", "", 3, 0.5, 200),
		goal(schema.ProtagonismPillar, "LRJ01", "Março", 1, 8, 50),
		goal(schema.ProtagonismPillar, "LRJ02", "Março", 1, 8, 50),
	}

	compliance := append(compliant("LRJ01", 2), compliant("LRJ02", 3)...)
	compliance = append(compliance, schema.ComplianceRecord{
		BaseCode: "LRJ01", LicenseStatus: schema.Compliant, DriverStatus: schema.Compliant, RiskStatus: schema.Pending,
	})

	return schema.EngineInput{
		Operations: ops,
		Compliance: compliance,
		Losses: []schema.LossEvent{
			{Date: schema.MustParseDate("2024-03-01"), BaseCode: "LRJ01"},
			{Date: schema.MustParseDate("2024-03-02"), BaseCode: "LRJ01", Reversed: true},
		},
		Protagonism: []schema.ProtagonismScore{
			{BaseCode: "LRJ01", AverageScore: 9},
			{BaseCode: "LRJ02", AverageScore: 9},
		},
		Goals: goals,
		Bases: []schema.Base{
			{Code: "LRJ01", LeaderName: "Carlos Mendes", CoordinatorName: "Ana"},
			{Code: "lrj-02", LeaderName: "Roberta Lima", CoordinatorName: "Ana"},
			{Code: "LES03", LeaderName: "Carla Souza", CoordinatorName: "Bruno"},
		},
	}
}

func TestComputeIncentiveReportEligibleBase(t *testing.T) {
	w := window("2024-03-01", "2024-03-10")
	report := ComputeIncentiveReport(fixture(), w, "")

	require.Len(t, report.Reports, 3)
	top := report.Reports[0]
	assert.Equal(t, "LRJ01", top.Code)
	assert.Equal(t, 1, top.Rank)
	require.NotNil(t, top.Eligible)
	assert.True(t, *top.Eligible)
	assert.Equal(t, 100, top.Gate.Target)
	assert.Equal(t, 120, top.Gate.Actual)

	// 120 routes against targets 100/110/130 reaches tier 2.
	vol := top.Pillar(schema.VolumePillar)
	assert.Equal(t, schema.ValueStatus, vol.Status)
	assert.Equal(t, 2, vol.Tier)
	assert.True(t, decimal.NewFromInt(700).Equal(vol.Value))
	assert.Equal(t, 2, top.AccessTier)

	assert.True(t, decimal.NewFromInt(100).Equal(top.Pillar(schema.DeliverySuccessPillar).Value))
	assert.Equal(t, 2.0, top.Pillar(schema.CompliancePillar).Actual, "pending risk check does not count")
	assert.True(t, decimal.NewFromInt(100).Equal(top.Pillar(schema.CompliancePillar).Value))

	// One counted loss over 1200 shipments is 0.083%, under the strictest ceiling.
	loss := top.Pillar(schema.LossPillar)
	assert.InDelta(t, 100.0/1200.0, loss.Actual, 1e-9)
	assert.Equal(t, 3, loss.Tier)
	assert.True(t, decimal.NewFromInt(200).Equal(loss.Value))

	assert.True(t, decimal.NewFromInt(50).Equal(top.Pillar(schema.ProtagonismPillar).Value))
	assert.True(t, decimal.NewFromInt(1150).Equal(top.Total), top.Total.String())
	assert.True(t, top.Total.Equal(top.Projected))
}

func TestComputeIncentiveReportGateClosure(t *testing.T) {
	w := window("2024-03-01", "2024-03-10")
	report := ComputeIncentiveReport(fixture(), w, "LRJ02")

	require.Len(t, report.Reports, 1)
	r := report.Reports[0]
	assert.Equal(t, "LRJ02", r.Code)
	require.NotNil(t, r.Eligible, "a closed gate is a definite no")
	assert.False(t, *r.Eligible)
	assert.Equal(t, 100, r.Gate.Target)
	assert.Equal(t, 99, r.Gate.Actual)

	for _, p := range r.Pillars {
		assert.Equal(t, schema.NotApplicableStatus, p.Status, p.Pillar)
		assert.Equal(t, schema.ReasonGateClosed, p.Reason, p.Pillar)
	}
	assert.Equal(t, 99.0, r.Pillar(schema.VolumePillar).Actual, "attempt value stays visible")
	assert.True(t, r.Total.IsZero())
	assert.Equal(t, 0, r.AccessTier)

	// Ungated, DS (90%), compliance (3) and protagonism (9) would pay.
	assert.True(t, decimal.NewFromInt(250).Equal(r.Projected), r.Projected.String())
}

func TestComputeIncentiveReportCrossMonth(t *testing.T) {
	w := window("2024-01-25", "2024-02-05")
	report := ComputeIncentiveReport(fixture(), w, "")

	assert.Equal(t, 12, report.DayCount)
	assert.False(t, report.SingleMonth)
	for _, r := range report.Reports {
		assert.Nil(t, r.Eligible, r.Code)
		assert.False(t, r.IsEligible())
		assert.Equal(t, schema.NotApplicableStatus, r.Gate.Status)

		raw, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"eligible":null`)
		vol := r.Pillar(schema.VolumePillar)
		assert.Equal(t, schema.NotApplicableStatus, vol.Status)
		assert.Equal(t, schema.ReasonCrossMonth, vol.Reason)
		for _, p := range r.Pillars {
			assert.Equal(t, schema.NotApplicableStatus, p.Status)
		}
		assert.True(t, r.Total.IsZero())
	}
}

func TestComputeIncentiveReportDiagnostics(t *testing.T) {
	report := ComputeIncentiveReport(fixture(), window("2024-03-01", "2024-03-10"), "")

	assert.Equal(t, 7, report.Diagnostics.UnattributedRoutes)
	assert.Equal(t, 7, report.Diagnostics.UnattributedRecords)
	assert.Equal(t, []string{"LXX99"}, report.Diagnostics.UnattributedCodes)
	assert.Equal(t, 120+99+7, report.Totals.UniqueRoutes, "unattributed volume stays in the totals")

	kinds := map[schema.WarningKind]int{}
	for _, w := range report.Diagnostics.Warnings {
		kinds[w.Kind]++
	}
	assert.Equal(t, 1, kinds[schema.UnnormalizedJoinMiss])
	assert.Equal(t, 1, kinds[schema.MissingGoalDefinition], "LES03 has no volume goal")

	var les schema.BaseIncentiveReport
	for _, r := range report.Reports {
		if r.Code == "LES03" {
			les = r
		}
	}
	assert.Equal(t, "LES03", les.Code)
	assert.False(t, les.IsEligible())
	assert.True(t, les.Total.IsZero())
}

func TestComputeIncentiveReportEmptyInput(t *testing.T) {
	report := ComputeIncentiveReport(schema.EngineInput{}, window("2024-03-01", "2024-03-31"), "")
	assert.Empty(t, report.Reports)
	assert.Equal(t, 0, report.Totals.UniqueRoutes)
	assert.Equal(t, "Março", report.MonthLabel)
}

func TestComputeIncentiveReportDeterministic(t *testing.T) {
	w := window("2024-03-01", "2024-03-10")
	first := ComputeIncentiveReport(fixture(), w, "")
	for i := 0; i < 5; i++ {
		again := ComputeIncentiveReport(fixture(), w, "")
		require.Len(t, again.Reports, len(first.Reports))
		for j := range first.Reports {
			assert.Equal(t, first.Reports[j].Code, again.Reports[j].Code)
			assert.True(t, first.Reports[j].Total.Equal(again.Reports[j].Total))
		}
	}
}
