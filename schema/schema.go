// Package schema has the records, goals and results shared by all parts of incentive.
package schema

import "github.com/shopspring/decimal"

// OperationalRecord is one row of the daily operations feed.
// A row usually represents one driver trip on one route (an "AT").
type OperationalRecord struct {
	Date           Date   `json:"date"`
	BaseCode       string `json:"base_code"`
	DriverName     string `json:"driver_name"`
	RouteCode      string `json:"route_code,omitempty"` // empty when the feed has no route id
	Ordinal        int    `json:"ordinal"`              // source row position, used for synthetic route keys
	ShipmentCount  int    `json:"shipment_count"`
	DeliveredCount int    `json:"delivered_count"`
	PendingCount   int    `json:"pending_count"`
	Coordinator    string `json:"coordinator,omitempty"`
	Leader         string `json:"leader,omitempty"`
	Locality       string `json:"locality,omitempty"`
}

// ComplianceRecord holds the three document checks for one driver.
type ComplianceRecord struct {
	BaseCode      string           `json:"base_code"`
	DriverName    string           `json:"driver_name"`
	LicenseStatus ComplianceStatus `json:"license_status"`
	DriverStatus  ComplianceStatus `json:"driver_status"`
	RiskStatus    ComplianceStatus `json:"risk_status"`
}

// Compliant is true only when all three checks are compliant.
func (c ComplianceRecord) Compliant() bool {
	return c.LicenseStatus == Compliant && c.DriverStatus == Compliant && c.RiskStatus == Compliant
}

// LossEvent is one shipment reported as not received.
type LossEvent struct {
	Date       Date   `json:"date"`
	BaseCode   string `json:"base_code"`
	DriverName string `json:"driver_name,omitempty"`
	TrackingID string `json:"tracking_id,omitempty"`
	Reversed   bool   `json:"reversed"` // a reversed event was later found and does not count
}

// ProtagonismScore is the averaged survey score of a base.
type ProtagonismScore struct {
	BaseCode     string  `json:"base_code"`
	AverageScore float64 `json:"average_score"`
	Responses    int     `json:"responses"`
}

// Base is one entry of the base directory.
type Base struct {
	Code            string `json:"code"`
	Locality        string `json:"locality"`
	LeaderName      string `json:"leader_name"`
	CoordinatorName string `json:"coordinator_name"`
}

// BankBalance is the accumulated balance a base already holds in its virtual bank.
type BankBalance struct {
	BaseCode    string          `json:"base_code"`
	Leader      string          `json:"leader"`
	Coordinator string          `json:"coordinator"`
	Accumulated decimal.Decimal `json:"accumulated"`
}

// GoalDefinition is one tier of one pillar for one base.
// Each pillar measures in its own unit, so each unit has its own field and
// Threshold picks the one that applies.
type GoalDefinition struct {
	Pillar       Pillar          `json:"pillar"`
	BaseCode     string          `json:"base_code"`
	Period       string          `json:"period"` // month label, empty means evergreen
	Tier         int             `json:"tier"`
	DailyRate    float64         `json:"daily_rate,omitempty"` // volume: unique routes per day
	Percent      float64         `json:"percent,omitempty"`    // delivery success and loss, in points
	Count        int             `json:"count,omitempty"`      // compliance: compliant drivers
	Score        float64         `json:"score,omitempty"`      // protagonism: average survey score
	RewardAmount decimal.Decimal `json:"reward_amount"`
}

// Threshold returns the raw threshold in the pillar's unit.
// Volume returns the daily rate; the gate and resolver scale it by the window.
func (g GoalDefinition) Threshold() float64 {
	switch g.Pillar {
	case VolumePillar:
		return g.DailyRate
	case DeliverySuccessPillar, LossPillar:
		return g.Percent
	case CompliancePillar:
		return float64(g.Count)
	case ProtagonismPillar:
		return g.Score
	default:
		return 0
	}
}

// WithThreshold returns a copy with the pillar's threshold field replaced.
func (g GoalDefinition) WithThreshold(v float64) GoalDefinition {
	switch g.Pillar {
	case VolumePillar:
		g.DailyRate = v
	case DeliverySuccessPillar, LossPillar:
		g.Percent = v
	case CompliancePillar:
		g.Count = int(v)
	case ProtagonismPillar:
		g.Score = v
	}
	return g
}

// EngineInput is the full set of collections one computation reads.
type EngineInput struct {
	Operations  []OperationalRecord `json:"operations"`
	Compliance  []ComplianceRecord  `json:"compliance"`
	Losses      []LossEvent         `json:"losses"`
	Protagonism []ProtagonismScore  `json:"protagonism"`
	Goals       []GoalDefinition    `json:"goals"`
	Bases       []Base              `json:"bases"`
	Warnings    []DataWarning       `json:"warnings,omitempty"` // raised while ingesting
}

// DataWarning is an in-band data quality note. It never aborts a computation.
type DataWarning struct {
	Kind     WarningKind `json:"kind"`
	BaseCode string      `json:"base_code,omitempty"`
	Pillar   Pillar      `json:"pillar,omitempty"`
	Message  string      `json:"message"`
}
