package engine

import (
	"fmt"
	"sort"

	"github.com/huangsam/incentive/schema"
	"github.com/shopspring/decimal"
)

// Resolution is the outcome of resolving one pillar against its goal tiers.
type Resolution struct {
	Tier      int             `json:"tier"` // 0 when no tier was reached
	Reward    decimal.Decimal `json:"reward"`
	Threshold float64         `json:"threshold"` // threshold of the reached tier
	NoGoals   bool            `json:"no_goals"`  // no goal rows matched the base and period
}

// MatchGoals keeps the goals of one pillar that apply to the base and period.
// A goal applies when its normalized base matches and its period equals the
// label or is empty. When both a month-scoped and an evergreen row declare the
// same tier, the month-scoped row wins; otherwise the first row wins.
func MatchGoals(pillar schema.Pillar, code, periodLabel string, goals []schema.GoalDefinition) []schema.GoalDefinition {
	code = NormalizeCode(code)
	label := NormalizeLabel(periodLabel)

	byTier := make(map[int]schema.GoalDefinition, schema.MaxTier)
	scoped := make(map[int]bool, schema.MaxTier)
	for _, g := range goals {
		if g.Pillar != pillar || g.Tier < 1 || g.Tier > schema.MaxTier {
			continue
		}
		if NormalizeCode(g.BaseCode) != code {
			continue
		}
		period := NormalizeLabel(g.Period)
		if period != "" && period != label {
			continue
		}
		isScoped := period != ""
		if _, seen := byTier[g.Tier]; seen && (scoped[g.Tier] || !isScoped) {
			continue
		}
		byTier[g.Tier] = g
		scoped[g.Tier] = isScoped
	}

	matched := make([]schema.GoalDefinition, 0, len(byTier))
	for _, g := range byTier {
		matched = append(matched, g)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Tier < matched[j].Tier })
	return matched
}

// ResolveTier matches the goals for the base and period and returns the best
// tier the actual value reaches. Rewards are never summed across tiers.
func ResolveTier(pillar schema.Pillar, code, periodLabel string, actual float64, goals []schema.GoalDefinition) Resolution {
	return resolveMatched(pillar, MatchGoals(pillar, code, periodLabel, goals), actual)
}

// resolveMatched runs the tier selection over already matched goals.
func resolveMatched(pillar schema.Pillar, matched []schema.GoalDefinition, actual float64) Resolution {
	if len(matched) == 0 {
		return Resolution{Reward: decimal.Zero, NoGoals: true}
	}
	ordered := make([]schema.GoalDefinition, len(matched))
	copy(ordered, matched)

	if pillar.HigherIsBetter() {
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Tier > ordered[j].Tier })
		for _, g := range ordered {
			if actual >= g.Threshold() {
				return Resolution{Tier: g.Tier, Reward: g.RewardAmount, Threshold: g.Threshold()}
			}
		}
		return Resolution{Reward: decimal.Zero}
	}

	// Lower is better: the first threshold above the rate is the best tier reachable.
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Threshold() == ordered[j].Threshold() {
			return ordered[i].Tier > ordered[j].Tier
		}
		return ordered[i].Threshold() < ordered[j].Threshold()
	})
	for _, g := range ordered {
		if actual < g.Threshold() {
			return Resolution{Tier: g.Tier, Reward: g.RewardAmount, Threshold: g.Threshold()}
		}
	}
	return Resolution{Reward: decimal.Zero}
}

// ScaleVolumeGoals returns copies of the volume goals with the daily rate
// replaced by the rounded target for a window of dayCount days.
func ScaleVolumeGoals(goals []schema.GoalDefinition, dayCount int) []schema.GoalDefinition {
	scaled := make([]schema.GoalDefinition, len(goals))
	for i, g := range goals {
		scaled[i] = g.WithThreshold(float64(ScaledTarget(g.DailyRate, dayCount)))
	}
	return scaled
}

// PrepareGoals normalizes goal units once at ingestion: percentage thresholds
// stored as fractions (at most 1.0) are rescaled to points.
func PrepareGoals(goals []schema.GoalDefinition) []schema.GoalDefinition {
	out := make([]schema.GoalDefinition, len(goals))
	for i, g := range goals {
		if g.Pillar.IsPercent() && g.Percent > 0 && g.Percent <= 1.0 {
			g.Percent *= 100
		}
		out[i] = g
	}
	return out
}

// CheckTierMonotonicity flags tier sets whose thresholds do not tighten with
// the tier. Resolution still runs as usual; the warning is for data owners.
func CheckTierMonotonicity(goals []schema.GoalDefinition) []schema.DataWarning {
	type setKey struct {
		pillar schema.Pillar
		code   string
		period string
	}
	sets := make(map[setKey][]schema.GoalDefinition)
	var keys []setKey
	for _, g := range goals {
		k := setKey{g.Pillar, NormalizeCode(g.BaseCode), NormalizeLabel(g.Period)}
		if _, ok := sets[k]; !ok {
			keys = append(keys, k)
		}
		sets[k] = append(sets[k], g)
	}

	var warnings []schema.DataWarning
	for _, k := range keys {
		set := sets[k]
		sort.SliceStable(set, func(i, j int) bool { return set[i].Tier < set[j].Tier })
		for i := 1; i < len(set); i++ {
			prev, cur := set[i-1], set[i]
			if prev.Tier == cur.Tier {
				continue
			}
			broken := cur.Threshold() < prev.Threshold()
			if !k.pillar.HigherIsBetter() {
				broken = cur.Threshold() > prev.Threshold()
			}
			if broken {
				warnings = append(warnings, schema.DataWarning{
					Kind:     schema.MalformedThreshold,
					BaseCode: k.code,
					Pillar:   k.pillar,
					Message: fmt.Sprintf("tier %d threshold %g is looser than tier %d threshold %g (period %q)",
						cur.Tier, cur.Threshold(), prev.Tier, prev.Threshold(), k.period),
				})
			}
		}
	}
	return warnings
}
