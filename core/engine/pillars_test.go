package engine

import (
	"testing"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func openGate() schema.GateResult {
	return schema.GateResult{Status: schema.ValueStatus, Open: true}
}

func TestEvaluateDeliverySuccess(t *testing.T) {
	goals := []schema.GoalDefinition{
		goal(schema.DeliverySuccessPillar, "LRJ01", "", 1, 95, 25),
		goal(schema.DeliverySuccessPillar, "LRJ01", "", 2, 97, 50),
		goal(schema.DeliverySuccessPillar, "LRJ01", "", 3, 99, 100),
	}
	ec := NewEvalContext(window("2024-03-01", "2024-03-31"), "LRJ01", openGate())

	got := EvaluateDeliverySuccess(ec, schema.BaseActivity{DeliverySuccessRate: 98.2}, goals)
	assert.Equal(t, schema.ValueStatus, got.Status)
	assert.Equal(t, 2, got.Tier)
	assert.True(t, decimal.NewFromInt(50).Equal(got.Value))

	got = EvaluateDeliverySuccess(ec, schema.BaseActivity{DeliverySuccessRate: 90}, goals)
	assert.Equal(t, schema.ValueStatus, got.Status, "evaluated but unmet is a value")
	assert.Equal(t, 0, got.Tier)
	assert.True(t, got.Value.IsZero())
}

func TestEvaluatePillarGateStates(t *testing.T) {
	goals := []schema.GoalDefinition{goal(schema.ProtagonismPillar, "LRJ01", "", 1, 5, 40)}
	scores := []schema.ProtagonismScore{{BaseCode: "lrj01", AverageScore: 7}}
	march := window("2024-03-01", "2024-03-31")

	tests := []struct {
		name       string
		gate       schema.GateResult
		wantStatus schema.ResultStatus
		wantValue  int64
		wantReason string
	}{
		{"open", openGate(), schema.ValueStatus, 40, ""},
		{"closed", schema.GateResult{Status: schema.ValueStatus}, schema.NotApplicableStatus, 0, schema.ReasonGateClosed},
		{"undefined", schema.GateResult{Status: schema.NotApplicableStatus}, schema.NotApplicableStatus, 0, schema.ReasonCrossMonth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateProtagonism(NewEvalContext(march, "LRJ01", tt.gate), scores, goals)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.True(t, decimal.NewFromInt(tt.wantValue).Equal(got.Value))
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.True(t, decimal.NewFromInt(40).Equal(got.Attempt), "attempt is kept")
			assert.Equal(t, 7.0, got.Actual)
		})
	}
}

func TestEvaluateVolumeCrossMonth(t *testing.T) {
	goals := []schema.GoalDefinition{goal(schema.VolumePillar, "LRJ01", "Janeiro", 1, 1, 40)}
	ec := NewEvalContext(window("2024-01-25", "2024-02-05"), "LRJ01", schema.GateResult{Status: schema.NotApplicableStatus})
	got := EvaluateVolume(ec, schema.BaseActivity{UniqueRoutes: 500}, goals)
	assert.Equal(t, schema.NotApplicableStatus, got.Status)
	assert.Equal(t, schema.ReasonCrossMonth, got.Reason)
	assert.Equal(t, 500.0, got.Actual)
}

func TestCountCompliant(t *testing.T) {
	records := []schema.ComplianceRecord{
		{BaseCode: "LRJ01", LicenseStatus: schema.Compliant, DriverStatus: schema.Compliant, RiskStatus: schema.Compliant},
		{BaseCode: "lrj 01", LicenseStatus: schema.Compliant, DriverStatus: schema.Compliant, RiskStatus: schema.Compliant},
		{BaseCode: "LRJ01", LicenseStatus: schema.Compliant, DriverStatus: schema.Compliant, RiskStatus: schema.Pending},
		{BaseCode: "LRJ01", LicenseStatus: schema.NonCompliant, DriverStatus: schema.Compliant, RiskStatus: schema.Compliant},
		{BaseCode: "LRJ02", LicenseStatus: schema.Compliant, DriverStatus: schema.Compliant, RiskStatus: schema.Compliant},
	}
	assert.Equal(t, 2, CountCompliant(records, "LRJ01"))
	assert.Equal(t, 0, CountCompliant(records, "LRJ09"))
}

func TestLossRate(t *testing.T) {
	w := window("2024-03-01", "2024-03-31")
	events := []schema.LossEvent{
		{Date: schema.MustParseDate("2024-03-02"), BaseCode: "LRJ01"},
		{Date: schema.MustParseDate("2024-03-03"), BaseCode: "LAJ01"},
		{Date: schema.MustParseDate("2024-03-04"), BaseCode: "LRJ01", Reversed: true},
		{Date: schema.MustParseDate("2024-04-01"), BaseCode: "LRJ01"},
	}
	assert.InDelta(t, 1.0, LossRate(events, w, "LRJ01", 200), 1e-9)
	assert.Equal(t, 0.0, LossRate(events, w, "LRJ01", 0))
}

func TestScoreFor(t *testing.T) {
	scores := []schema.ProtagonismScore{{BaseCode: "LRJ01", AverageScore: 8.5}}
	assert.Equal(t, 8.5, ScoreFor(scores, "lrj_01"))
	assert.Equal(t, 0.0, ScoreFor(scores, "LRJ02"))
}
