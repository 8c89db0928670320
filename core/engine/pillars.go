package engine

import (
	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
)

// EvalContext is what every pillar evaluation needs to know about the window.
type EvalContext struct {
	Window     schema.Window
	Code       string // normalized base code
	MonthLabel string
	DayCount   int
	Gate       schema.GateResult
}

// NewEvalContext builds the context for one base.
func NewEvalContext(w schema.Window, code string, gate schema.GateResult) EvalContext {
	return EvalContext{
		Window:     w,
		Code:       NormalizeCode(code),
		MonthLabel: MonthLabel(w.Start),
		DayCount:   DayCount(w),
		Gate:       gate,
	}
}

// EvaluateVolume resolves the volume tier against the window-scaled targets.
func EvaluateVolume(ec EvalContext, activity schema.BaseActivity, goals []schema.GoalDefinition) schema.PillarResult {
	actual := float64(activity.UniqueRoutes)
	if !IsSingleMonth(ec.Window) {
		return schema.PillarResult{
			Pillar:  schema.VolumePillar,
			Status:  schema.NotApplicableStatus,
			Value:   decimal.Zero,
			Actual:  actual,
			Attempt: decimal.Zero,
			Reason:  schema.ReasonCrossMonth,
		}
	}
	matched := ScaleVolumeGoals(MatchGoals(schema.VolumePillar, ec.Code, ec.MonthLabel, goals), ec.DayCount)
	return gated(ec.Gate, schema.VolumePillar, actual, resolveMatched(schema.VolumePillar, matched, actual))
}

// EvaluateDeliverySuccess resolves the delivered/shipped percentage.
func EvaluateDeliverySuccess(ec EvalContext, activity schema.BaseActivity, goals []schema.GoalDefinition) schema.PillarResult {
	actual := activity.DeliverySuccessRate
	res := ResolveTier(schema.DeliverySuccessPillar, ec.Code, ec.MonthLabel, actual, goals)
	return gated(ec.Gate, schema.DeliverySuccessPillar, actual, res)
}

// EvaluateCompliance resolves the number of fully compliant drivers.
func EvaluateCompliance(ec EvalContext, records []schema.ComplianceRecord, goals []schema.GoalDefinition) schema.PillarResult {
	actual := float64(CountCompliant(records, ec.Code))
	res := ResolveTier(schema.CompliancePillar, ec.Code, ec.MonthLabel, actual, goals)
	return gated(ec.Gate, schema.CompliancePillar, actual, res)
}

// EvaluateLoss resolves the not-received rate, where lower is better.
func EvaluateLoss(ec EvalContext, activity schema.BaseActivity, events []schema.LossEvent, goals []schema.GoalDefinition) schema.PillarResult {
	actual := LossRate(events, ec.Window, ec.Code, activity.Shipments)
	res := ResolveTier(schema.LossPillar, ec.Code, ec.MonthLabel, actual, goals)
	return gated(ec.Gate, schema.LossPillar, actual, res)
}

// EvaluateProtagonism resolves the averaged survey score.
func EvaluateProtagonism(ec EvalContext, scores []schema.ProtagonismScore, goals []schema.GoalDefinition) schema.PillarResult {
	actual := ScoreFor(scores, ec.Code)
	res := ResolveTier(schema.ProtagonismPillar, ec.Code, ec.MonthLabel, actual, goals)
	return gated(ec.Gate, schema.ProtagonismPillar, actual, res)
}

// gated applies the eligibility gate to a resolution. The attempt is always kept.
func gated(gate schema.GateResult, pillar schema.Pillar, actual float64, res Resolution) schema.PillarResult {
	pr := schema.PillarResult{
		Pillar:      pillar,
		Actual:      actual,
		Attempt:     res.Reward,
		AttemptTier: res.Tier,
		Threshold:   res.Threshold,
	}
	switch {
	case gate.Status == schema.NotApplicableStatus:
		pr.Status = schema.NotApplicableStatus
		pr.Value = decimal.Zero
		pr.Reason = schema.ReasonCrossMonth
	case !gate.Open:
		pr.Status = schema.NotApplicableStatus
		pr.Value = decimal.Zero
		pr.Reason = schema.ReasonGateClosed
	default:
		pr.Status = schema.ValueStatus
		pr.Value = res.Reward
		pr.Tier = res.Tier
	}
	return pr
}

// CountCompliant counts the base's drivers whose three checks all pass.
func CountCompliant(records []schema.ComplianceRecord, code string) int {
	code = NormalizeCode(code)
	n := 0
	for _, r := range records {
		if NormalizeCode(r.BaseCode) == code && r.Compliant() {
			n++
		}
	}
	return n
}

// LossRate is the share of shipments reported as not received, in points.
// Reversed events do not count.
func LossRate(events []schema.LossEvent, w schema.Window, code string, shipments int) float64 {
	code = NormalizeCode(code)
	n := 0
	for _, e := range events {
		if e.Reversed || !w.Contains(e.Date) || NormalizeCode(e.BaseCode) != code {
			continue
		}
		n++
	}
	return Rate(n, shipments)
}

// ScoreFor returns the averaged survey score of the base, or 0 without a survey.
func ScoreFor(scores []schema.ProtagonismScore, code string) float64 {
	code = NormalizeCode(code)
	for _, s := range scores {
		if NormalizeCode(s.BaseCode) == code {
			return s.AverageScore
		}
	}
	return 0
}
