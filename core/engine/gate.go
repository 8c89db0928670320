package engine

import "github.com/huangsam/incentive/schema"

// EvaluateGate decides whether a base is in the campaign for the window.
// volumeGoals are unscaled volume goals; the tier-1 daily rate is scaled by
// the window length. A window that spans months cannot be evaluated.
func EvaluateGate(w schema.Window, activity schema.BaseActivity, volumeGoals []schema.GoalDefinition, code string) schema.GateResult {
	if !IsSingleMonth(w) {
		return schema.GateResult{
			Status: schema.NotApplicableStatus,
			Actual: activity.UniqueRoutes,
			Reason: schema.ReasonCrossMonth,
		}
	}

	gate := schema.GateResult{Status: schema.ValueStatus, Actual: activity.UniqueRoutes}
	for _, g := range MatchGoals(schema.VolumePillar, code, MonthLabel(w.Start), volumeGoals) {
		if g.Tier != 1 {
			continue
		}
		gate.DailyRate = g.DailyRate
		gate.Target = ScaledTarget(g.DailyRate, DayCount(w))
		gate.Open = gate.Target > 0 && activity.UniqueRoutes >= gate.Target
		return gate
	}
	gate.Reason = schema.ReasonNoGoal
	return gate
}
