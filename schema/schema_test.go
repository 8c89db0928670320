package schema

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComplianceRecordCompliant(t *testing.T) {
	all := ComplianceRecord{LicenseStatus: Compliant, DriverStatus: Compliant, RiskStatus: Compliant}
	assert.True(t, all.Compliant())

	pending := all
	pending.RiskStatus = Pending
	assert.False(t, pending.Compliant())

	bad := all
	bad.LicenseStatus = NonCompliant
	assert.False(t, bad.Compliant())
}

func TestGoalThreshold(t *testing.T) {
	tests := []struct {
		goal GoalDefinition
		want float64
	}{
		{GoalDefinition{Pillar: VolumePillar, DailyRate: 12.5, Percent: 99}, 12.5},
		{GoalDefinition{Pillar: DeliverySuccessPillar, Percent: 97}, 97},
		{GoalDefinition{Pillar: LossPillar, Percent: 0.5}, 0.5},
		{GoalDefinition{Pillar: CompliancePillar, Count: 14}, 14},
		{GoalDefinition{Pillar: ProtagonismPillar, Score: 8.5}, 8.5},
		{GoalDefinition{Pillar: Pillar("unknown"), Score: 8.5}, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.goal.Pillar), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.goal.Threshold())
			assert.Equal(t, tt.want, tt.goal.WithThreshold(tt.want).Threshold())
		})
	}
}

func TestPillarProperties(t *testing.T) {
	assert.False(t, LossPillar.HigherIsBetter())
	assert.True(t, VolumePillar.HigherIsBetter())
	assert.True(t, DeliverySuccessPillar.IsPercent())
	assert.True(t, LossPillar.IsPercent())
	assert.False(t, CompliancePillar.IsPercent())
	assert.Len(t, AllPillars, len(ValidPillars))
}

func TestReportPillarLookup(t *testing.T) {
	r := BaseIncentiveReport{Pillars: []PillarResult{
		{Pillar: VolumePillar, Status: ValueStatus, Value: decimal.NewFromInt(100)},
	}}
	assert.True(t, r.Pillar(VolumePillar).Applicable())
	assert.Equal(t, NotApplicableStatus, r.Pillar(LossPillar).Status)
}
