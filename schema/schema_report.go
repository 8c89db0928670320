package schema

import "github.com/shopspring/decimal"

// DailyCount is the number of unique routes a base ran on one day.
type DailyCount struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// BaseActivity is the aggregated operational summary of one base in a window.
type BaseActivity struct {
	BaseCode            string       `json:"base_code"`
	Records             int          `json:"records"`
	UniqueRoutes        int          `json:"unique_routes"`
	DailyCounts         []DailyCount `json:"daily_counts"` // operated days only, ascending
	DaysOperated        int          `json:"days_operated"`
	AverageLoad         int          `json:"average_load"`
	PeakLoad            int          `json:"peak_load"`
	Shipments           int          `json:"shipments"`
	Delivered           int          `json:"delivered"`
	Pending             int          `json:"pending"`
	Failures            int          `json:"failures"`
	DeliverySuccessRate float64      `json:"delivery_success_rate"`
}

// GateResult is the outcome of the volume eligibility gate.
type GateResult struct {
	Status    ResultStatus `json:"status"`
	Open      bool         `json:"open"`
	Target    int          `json:"target"`
	Actual    int          `json:"actual"`
	DailyRate float64      `json:"daily_rate"`
	Reason    string       `json:"reason,omitempty"`
}

// Eligibility is nil when the gate does not apply, so a cross-month window
// never reads as ineligible.
func (g GateResult) Eligibility() *bool {
	if g.Status != ValueStatus {
		return nil
	}
	open := g.Open
	return &open
}

// PillarResult is the tagged outcome of one pillar.
// Value is only meaningful when Status is ValueStatus; Attempt always holds
// what the pillar would pay without the gate.
type PillarResult struct {
	Pillar      Pillar          `json:"pillar"`
	Status      ResultStatus    `json:"status"`
	Value       decimal.Decimal `json:"value"`
	Tier        int             `json:"tier"`
	Actual      float64         `json:"actual"`
	Threshold   float64         `json:"threshold,omitempty"`
	Attempt     decimal.Decimal `json:"attempt"`
	AttemptTier int             `json:"attempt_tier"`
	Reason      string          `json:"reason,omitempty"`
}

// Applicable reports whether the pillar carries a value.
func (p PillarResult) Applicable() bool { return p.Status == ValueStatus }

// BaseIncentiveReport is the full breakdown of one base.
type BaseIncentiveReport struct {
	Rank       int             `json:"rank"`
	Code       string          `json:"code"`
	Base       Base            `json:"base"`
	Activity   BaseActivity    `json:"activity"`
	Gate       GateResult      `json:"gate"`
	Eligible   *bool           `json:"eligible"` // nil when the gate is not applicable
	AccessTier int             `json:"access_tier"` // volume tier reached, 0 when none
	Pillars    []PillarResult  `json:"pillars"`
	Total      decimal.Decimal `json:"total"`
	Projected  decimal.Decimal `json:"projected"`
}

// IsEligible reports whether the gate applied and opened.
func (r BaseIncentiveReport) IsEligible() bool { return r.Eligible != nil && *r.Eligible }

// Pillar returns the result for p, or a not-applicable result if absent.
func (r BaseIncentiveReport) Pillar(p Pillar) PillarResult {
	for _, pr := range r.Pillars {
		if pr.Pillar == p {
			return pr
		}
	}
	return PillarResult{Pillar: p, Status: NotApplicableStatus}
}

// NetworkTotals include volume from codes missing in the base directory.
type NetworkTotals struct {
	UniqueRoutes int `json:"unique_routes"`
	Shipments    int `json:"shipments"`
	Delivered    int `json:"delivered"`
	Pending      int `json:"pending"`
}

// Diagnostics collects everything that did not fit a per-base breakdown.
type Diagnostics struct {
	UnattributedRoutes  int           `json:"unattributed_routes"`
	UnattributedRecords int           `json:"unattributed_records"`
	UnattributedCodes   []string      `json:"unattributed_codes,omitempty"`
	Warnings            []DataWarning `json:"warnings,omitempty"`
}

// IncentiveReport is the result of one computation over a window.
type IncentiveReport struct {
	Window      Window                `json:"window"`
	MonthLabel  string                `json:"month_label"`
	DayCount    int                   `json:"day_count"`
	SingleMonth bool                  `json:"single_month"`
	Reports     []BaseIncentiveReport `json:"reports"`
	Totals      NetworkTotals         `json:"totals"`
	Diagnostics Diagnostics           `json:"diagnostics"`
}

// LeaderboardEntry is one ranked base with its guaranteed and projected split.
type LeaderboardEntry struct {
	Rank        int             `json:"rank"`
	Code        string          `json:"code"`
	Leader      string          `json:"leader"`
	Coordinator string          `json:"coordinator"`
	Locality    string          `json:"locality"`
	Eligible    *bool           `json:"eligible"`
	AccessTier  int             `json:"access_tier"`
	Guaranteed  decimal.Decimal `json:"guaranteed"`
	Projected   decimal.Decimal `json:"projected"`
	AtStake     decimal.Decimal `json:"at_stake"`
	Pillars     []PillarResult  `json:"pillars"`
}

// LeaderboardSummary aggregates a leaderboard.
type LeaderboardSummary struct {
	TotalBases    int             `json:"total_bases"`
	EligibleBases int             `json:"eligible_bases"`
	Guaranteed    decimal.Decimal `json:"guaranteed"`
	Projected     decimal.Decimal `json:"projected"`
	AtStake       decimal.Decimal `json:"at_stake"`
}

// Leaderboard is the ranked view of a report.
type Leaderboard struct {
	Window  Window             `json:"window"`
	Entries []LeaderboardEntry `json:"entries"`
	Summary LeaderboardSummary `json:"summary"`
}

// BankStatementRow pairs the balance a base already holds with what the
// current window projects.
type BankStatementRow struct {
	Code        string          `json:"code"`
	Leader      string          `json:"leader"`
	Coordinator string          `json:"coordinator"`
	Eligible    *bool           `json:"eligible"`
	Accumulated decimal.Decimal `json:"accumulated"`
	Projected   decimal.Decimal `json:"projected"`
	Combined    decimal.Decimal `json:"combined"`
}

// BankStatement is the virtual bank view.
type BankStatement struct {
	Window      Window             `json:"window"`
	Rows        []BankStatementRow `json:"rows"`
	Accumulated decimal.Decimal    `json:"accumulated"`
	Projected   decimal.Decimal    `json:"projected"`
	Combined    decimal.Decimal    `json:"combined"`
}

// BaseLossRow is the delivery and loss picture of one base.
type BaseLossRow struct {
	Code                string       `json:"code"`
	Leader              string       `json:"leader"`
	Shipments           int          `json:"shipments"`
	Delivered           int          `json:"delivered"`
	Failures            int          `json:"failures"`
	Pending             int          `json:"pending"`
	DeliverySuccessRate float64      `json:"delivery_success_rate"`
	Band                DeliveryBand `json:"band"`
	PNRRate             float64      `json:"pnr_rate"`
	StuckRate           float64      `json:"stuck_rate"`
}

// LossSummary is the network-wide not-received and stuck view.
type LossSummary struct {
	Window     Window        `json:"window"`
	Shipments  int           `json:"shipments"`
	Delivered  int           `json:"delivered"`
	Failures   int           `json:"failures"`
	Pending    int           `json:"pending"`
	PNRRate    float64       `json:"pnr_rate"`
	StuckRate  float64       `json:"stuck_rate"`
	Bases      []BaseLossRow `json:"bases"`
	TopPending []BaseLossRow `json:"top_pending"`
}
