package source

import (
	"context"
	"fmt"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of contract.DataSource for testing.
type MockDataSource struct {
	mock.Mock
}

var _ contract.DataSource = &MockDataSource{} // Compile-time check

// FetchOperationalRecords implements the DataSource interface.
func (m *MockDataSource) FetchOperationalRecords(ctx context.Context, w schema.Window) []schema.OperationalRecord {
	ret := m.Called(ctx, w)
	out, _ := ret.Get(0).([]schema.OperationalRecord)
	return out
}

// FetchComplianceRecords implements the DataSource interface.
func (m *MockDataSource) FetchComplianceRecords(ctx context.Context) []schema.ComplianceRecord {
	ret := m.Called(ctx)
	out, _ := ret.Get(0).([]schema.ComplianceRecord)
	return out
}

// FetchLossEvents implements the DataSource interface.
func (m *MockDataSource) FetchLossEvents(ctx context.Context, w schema.Window) []schema.LossEvent {
	ret := m.Called(ctx, w)
	out, _ := ret.Get(0).([]schema.LossEvent)
	return out
}

// FetchProtagonismScores implements the DataSource interface.
func (m *MockDataSource) FetchProtagonismScores(ctx context.Context) []schema.ProtagonismScore {
	ret := m.Called(ctx)
	out, _ := ret.Get(0).([]schema.ProtagonismScore)
	return out
}

// FetchGoalDefinitions implements the DataSource interface.
func (m *MockDataSource) FetchGoalDefinitions(ctx context.Context, pillar schema.Pillar) []schema.GoalDefinition {
	ret := m.Called(ctx, pillar)
	out, _ := ret.Get(0).([]schema.GoalDefinition)
	return out
}

// FetchBaseDirectory implements the DataSource interface.
func (m *MockDataSource) FetchBaseDirectory(ctx context.Context) []schema.Base {
	ret := m.Called(ctx)
	out, _ := ret.Get(0).([]schema.Base)
	return out
}

// FetchBankBalances implements the DataSource interface.
func (m *MockDataSource) FetchBankBalances(ctx context.Context) []schema.BankBalance {
	ret := m.Called(ctx)
	out, _ := ret.Get(0).([]schema.BankBalance)
	return out
}

// NewMockDataSourceWith returns a mock that serves in and balances for any
// window. Operations and losses are returned unfiltered.
func NewMockDataSourceWith(in schema.EngineInput, balances []schema.BankBalance) *MockDataSource {
	m := &MockDataSource{}
	m.On("FetchOperationalRecords", mock.Anything, mock.Anything).Return(in.Operations)
	m.On("FetchComplianceRecords", mock.Anything).Return(in.Compliance)
	m.On("FetchLossEvents", mock.Anything, mock.Anything).Return(in.Losses)
	m.On("FetchProtagonismScores", mock.Anything).Return(in.Protagonism)
	m.On("FetchBaseDirectory", mock.Anything).Return(in.Bases)
	m.On("FetchBankBalances", mock.Anything).Return(balances)
	for _, p := range schema.AllPillars {
		var goals []schema.GoalDefinition
		for _, g := range in.Goals {
			if g.Pillar == p {
				goals = append(goals, g)
			}
		}
		m.On("FetchGoalDefinitions", mock.Anything, p).Return(goals)
	}
	return m
}

// MockEngineInput generates a March 2024 network for demonstration and tests.
// LRJ01 opens the gate and reaches volume tier 2, LRJ02 misses the gate and
// LES03 has no goals at all.
func MockEngineInput() schema.EngineInput {
	var ops []schema.OperationalRecord
	addRoutes := func(base, date string, n, shipped, delivered int) {
		d := schema.MustParseDate(date)
		for i := range n {
			ops = append(ops, schema.OperationalRecord{
				Date:           d,
				BaseCode:       base,
				DriverName:     fmt.Sprintf("driver %d", i),
				RouteCode:      fmt.Sprintf("%s-%s-%d", base, date, i),
				Ordinal:        len(ops),
				ShipmentCount:  shipped,
				DeliveredCount: delivered,
				PendingCount:   shipped - delivered,
			})
		}
	}
	addRoutes("LRJ01", "2024-03-01", 60, 10, 10)
	addRoutes("LRJ01", "2024-03-02", 60, 10, 10)
	addRoutes("LRJ02", "2024-03-01", 50, 10, 9)
	addRoutes("LRJ02", "2024-02-05", 80, 10, 10)

	goal := func(p schema.Pillar, base, period string, tier int, threshold float64, reward int64) schema.GoalDefinition {
		g := schema.GoalDefinition{Pillar: p, BaseCode: base, Period: period, Tier: tier, RewardAmount: decimal.NewFromInt(reward)}
		return g.WithThreshold(threshold)
	}

	compliance := make([]schema.ComplianceRecord, 0, 2)
	for i := range 2 {
		compliance = append(compliance, schema.ComplianceRecord{
			BaseCode:      "LRJ01",
			DriverName:    fmt.Sprintf("driver %d", i),
			LicenseStatus: schema.Compliant,
			DriverStatus:  schema.Compliant,
			RiskStatus:    schema.Compliant,
		})
	}

	return schema.EngineInput{
		Operations: ops,
		Compliance: compliance,
		Goals: []schema.GoalDefinition{
			goal(schema.VolumePillar, "LRJ01", "Março", 1, 10, 500),
			goal(schema.VolumePillar, "LRJ01", "Março", 2, 11, 700),
			goal(schema.VolumePillar, "LRJ02", "Março", 1, 10, 500),
			goal(schema.DeliverySuccessPillar, "LRJ01", "", 1, 95, 100),
			goal(schema.DeliverySuccessPillar, "LRJ02", "", 1, 85, 100),
			goal(schema.CompliancePillar, "LRJ01", "", 1, 2, 100),
		},
		Bases: []schema.Base{
			{Code: "LRJ01", Locality: "Rio de Janeiro", LeaderName: "Carlos Mendes", CoordinatorName: "Ana Souza"},
			{Code: "LRJ02", Locality: "Niterói", LeaderName: "Roberta Lima", CoordinatorName: "Ana Souza"},
			{Code: "LES03", Locality: "Vitória", LeaderName: "Carla Souza", CoordinatorName: "Bruno Alves"},
		},
	}
}

// MockBankBalances pairs with MockEngineInput.
func MockBankBalances() []schema.BankBalance {
	return []schema.BankBalance{
		{BaseCode: "LRJ01", Leader: "Carlos Mendes", Coordinator: "Ana Souza", Accumulated: decimal.NewFromInt(1000)},
		{BaseCode: "LRJ02", Leader: "Roberta Lima", Coordinator: "Ana Souza", Accumulated: decimal.NewFromInt(250)},
	}
}
