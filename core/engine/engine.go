package engine

import (
	"fmt"
	"sort"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
)

// ComputeIncentiveReport evaluates every base of the directory over the window.
// When baseCode is non-empty only that base is reported; network totals and
// diagnostics always cover the whole input.
func ComputeIncentiveReport(in schema.EngineInput, w schema.Window, baseCode string) schema.IncentiveReport {
	activity := AggregateActivity(in.Operations, w)
	directory := indexDirectory(in.Bases)
	goals := goalsByPillar(in.Goals)

	report := schema.IncentiveReport{
		Window:      w,
		MonthLabel:  MonthLabel(w.Start),
		DayCount:    DayCount(w),
		SingleMonth: IsSingleMonth(w),
		Totals:      networkTotals(activity),
		Diagnostics: unattributed(activity, directory),
	}
	report.Diagnostics.Warnings = append(report.Diagnostics.Warnings, in.Warnings...)
	report.Diagnostics.Warnings = append(report.Diagnostics.Warnings, CheckTierMonotonicity(in.Goals)...)

	filter := NormalizeCode(baseCode)
	for _, code := range directory.order {
		if filter != "" && code != filter {
			continue
		}
		base := directory.bases[code]
		r := EvaluateBase(w, base, activity[code], in, goals)
		if r.Gate.Reason == schema.ReasonNoGoal {
			report.Diagnostics.Warnings = append(report.Diagnostics.Warnings, schema.DataWarning{
				Kind:     schema.MissingGoalDefinition,
				BaseCode: code,
				Pillar:   schema.VolumePillar,
				Message:  fmt.Sprintf("no tier 1 volume goal for %s", report.MonthLabel),
			})
		}
		report.Reports = append(report.Reports, r)
	}

	report.Reports = RankReports(report.Reports)
	return report
}

// EvaluateBase runs the gate and all five pillars for one base.
func EvaluateBase(w schema.Window, base schema.Base, activity schema.BaseActivity, in schema.EngineInput, goals map[schema.Pillar][]schema.GoalDefinition) schema.BaseIncentiveReport {
	code := NormalizeCode(base.Code)
	activity.BaseCode = code

	gate := EvaluateGate(w, activity, goals[schema.VolumePillar], code)
	ec := NewEvalContext(w, code, gate)

	pillars := []schema.PillarResult{
		EvaluateVolume(ec, activity, goals[schema.VolumePillar]),
		EvaluateDeliverySuccess(ec, activity, goals[schema.DeliverySuccessPillar]),
		EvaluateCompliance(ec, in.Compliance, goals[schema.CompliancePillar]),
		EvaluateLoss(ec, activity, in.Losses, goals[schema.LossPillar]),
		EvaluateProtagonism(ec, in.Protagonism, goals[schema.ProtagonismPillar]),
	}

	total, projected := decimal.Zero, decimal.Zero
	for _, p := range pillars {
		if p.Applicable() {
			total = total.Add(p.Value)
		}
		projected = projected.Add(p.Attempt)
	}

	return schema.BaseIncentiveReport{
		Code:       code,
		Base:       base,
		Activity:   activity,
		Gate:       gate,
		Eligible:   gate.Eligibility(),
		AccessTier: pillars[0].Tier,
		Pillars:    pillars,
		Total:      total,
		Projected:  projected,
	}
}

// directoryIndex keeps the first directory entry of every normalized code.
type directoryIndex struct {
	bases map[string]schema.Base
	order []string
}

func indexDirectory(bases []schema.Base) directoryIndex {
	idx := directoryIndex{bases: make(map[string]schema.Base, len(bases))}
	for _, b := range bases {
		code := NormalizeCode(b.Code)
		if code == "" {
			continue
		}
		if _, ok := idx.bases[code]; ok {
			continue
		}
		idx.bases[code] = b
		idx.order = append(idx.order, code)
	}
	return idx
}

func goalsByPillar(goals []schema.GoalDefinition) map[schema.Pillar][]schema.GoalDefinition {
	out := make(map[schema.Pillar][]schema.GoalDefinition, len(schema.AllPillars))
	for _, g := range goals {
		out[g.Pillar] = append(out[g.Pillar], g)
	}
	return out
}

func networkTotals(activity map[string]schema.BaseActivity) schema.NetworkTotals {
	var t schema.NetworkTotals
	for _, a := range activity {
		t.UniqueRoutes += a.UniqueRoutes
		t.Shipments += a.Shipments
		t.Delivered += a.Delivered
		t.Pending += a.Pending
	}
	return t
}

// unattributed counts activity whose code is missing from the directory.
func unattributed(activity map[string]schema.BaseActivity, directory directoryIndex) schema.Diagnostics {
	var d schema.Diagnostics
	for code, a := range activity {
		if _, ok := directory.bases[code]; ok {
			continue
		}
		d.UnattributedRoutes += a.UniqueRoutes
		d.UnattributedRecords += a.Records
		d.UnattributedCodes = append(d.UnattributedCodes, code)
	}
	sort.Strings(d.UnattributedCodes)
	for _, code := range d.UnattributedCodes {
		d.Warnings = append(d.Warnings, schema.DataWarning{
			Kind:     schema.UnnormalizedJoinMiss,
			BaseCode: code,
			Message:  fmt.Sprintf("%d routes from %s are not in the base directory", activity[code].UniqueRoutes, code),
		})
	}
	return d
}
