package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/huangsam/incentive/core/engine"
	"github.com/huangsam/incentive/schema"
)

// Compliance feed filters.
const (
	complianceClient       = "SHOPEE"
	excludedComplianceBase = "XPT BONSUCESSO"
)

// placeholderBase is what some exports write into empty base cells.
const placeholderBase = "undefined"

// parseOperations converts the operations tab. Rows without a driver or a
// shipment count are dropped. Ordinal is the row position in the payload.
func parseOperations(tab string, rows []Row) ([]schema.OperationalRecord, []schema.DataWarning) {
	cols, warnings, ok := Resolve(tab, operationsMapping, rows)
	if !ok {
		return nil, warnings
	}

	records := make([]schema.OperationalRecord, 0, len(rows))
	for i, row := range rows {
		driver := cols.Text(row, "driver")
		shipments := cols.Text(row, "shipments")
		if driver == "" || shipments == "" {
			continue
		}
		date, err := schema.ParseDate(cols.Text(row, "date"))
		if err != nil {
			continue
		}
		records = append(records, schema.OperationalRecord{
			Date:           date,
			BaseCode:       cols.Text(row, "base"),
			DriverName:     driver,
			RouteCode:      cols.Text(row, "route"),
			Ordinal:        i,
			ShipmentCount:  parseCount(cols.Value(row, "shipments")),
			DeliveredCount: parseCount(cols.Value(row, "delivered")),
			PendingCount:   parseCount(cols.Value(row, "pending")),
			Coordinator:    cols.Text(row, "coordinator"),
			Leader:         cols.Text(row, "leader"),
			Locality:       cols.Text(row, "locality"),
		})
	}
	return records, warnings
}

// parseBaseDirectory converts the base directory tab, keeping row order.
func parseBaseDirectory(rows []Row) ([]schema.Base, []schema.DataWarning) {
	cols, warnings, ok := Resolve(BaseDirectoryTab, directoryMapping, rows)
	if !ok {
		return nil, warnings
	}

	bases := make([]schema.Base, 0, len(rows))
	for _, row := range rows {
		code := cols.Text(row, "base")
		if code == "" || code == placeholderBase {
			continue
		}
		bases = append(bases, schema.Base{
			Code:            code,
			Locality:        cols.Text(row, "locality"),
			LeaderName:      cols.Text(row, "leader"),
			CoordinatorName: cols.Text(row, "coordinator"),
		})
	}
	return bases, warnings
}

// parseCompliance converts the driver roster, keeping only the contracted
// client and dropping the excluded base.
func parseCompliance(rows []Row) ([]schema.ComplianceRecord, []schema.DataWarning) {
	cols, warnings, ok := Resolve(ComplianceTab, complianceMapping, rows)
	if !ok {
		return nil, warnings
	}

	records := make([]schema.ComplianceRecord, 0, len(rows))
	for _, row := range rows {
		base := cols.Text(row, "base")
		if strings.ToUpper(cols.Text(row, "client")) != complianceClient ||
			strings.Contains(strings.ToUpper(base), excludedComplianceBase) {
			continue
		}
		records = append(records, schema.ComplianceRecord{
			BaseCode:      base,
			DriverName:    cols.Text(row, "driver"),
			LicenseStatus: parseComplianceStatus(cols.Text(row, "license")),
			DriverStatus:  parseComplianceStatus(cols.Text(row, "driver_status")),
			RiskStatus:    parseComplianceStatus(cols.Text(row, "risk")),
		})
	}
	return records, warnings
}

// parseSurvey averages the survey answers per normalized base.
// Answers without a base or a numeric score are skipped.
func parseSurvey(rows []Row) ([]schema.ProtagonismScore, []schema.DataWarning) {
	cols, warnings, ok := Resolve(SurveyTab, surveyMapping, rows)
	if !ok {
		return nil, warnings
	}

	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[string]*acc)
	for _, row := range rows {
		code := engine.NormalizeCode(cols.Text(row, "base"))
		score, ok := parseNumber(cols.Value(row, "score"))
		if code == "" || !ok {
			continue
		}
		a, found := sums[code]
		if !found {
			a = &acc{}
			sums[code] = a
		}
		a.sum += score
		a.n++
	}

	scores := make([]schema.ProtagonismScore, 0, len(sums))
	for code, a := range sums {
		scores = append(scores, schema.ProtagonismScore{BaseCode: code, AverageScore: a.sum / float64(a.n), Responses: a.n})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].BaseCode < scores[j].BaseCode })
	return scores, warnings
}

// parseLossEvents converts the loss event tab. Undated rows are dropped.
func parseLossEvents(rows []Row) ([]schema.LossEvent, []schema.DataWarning) {
	cols, warnings, ok := Resolve(LossEventsTab, lossEventsMapping, rows)
	if !ok {
		return nil, warnings
	}

	events := make([]schema.LossEvent, 0, len(rows))
	for _, row := range rows {
		date, err := schema.ParseDate(cols.Text(row, "date"))
		base := cols.Text(row, "base")
		if err != nil || base == "" {
			continue
		}
		events = append(events, schema.LossEvent{
			Date:       date,
			BaseCode:   base,
			DriverName: cols.Text(row, "driver"),
			TrackingID: cols.Text(row, "tracking"),
			Reversed:   parseFlag(cols.Value(row, "reversed")),
		})
	}
	return events, warnings
}

// parseBank converts the virtual bank balances.
func parseBank(rows []Row) ([]schema.BankBalance, []schema.DataWarning) {
	cols, warnings, ok := Resolve(BankTab, bankMapping, rows)
	if !ok {
		return nil, warnings
	}

	balances := make([]schema.BankBalance, 0, len(rows))
	for _, row := range rows {
		base := cols.Text(row, "base")
		amount, ok := parseMoney(cols.Value(row, "accumulated"))
		if base == "" || !ok {
			continue
		}
		balances = append(balances, schema.BankBalance{
			BaseCode:    base,
			Leader:      cols.Text(row, "leader"),
			Coordinator: cols.Text(row, "coordinator"),
			Accumulated: amount,
		})
	}
	return balances, warnings
}

// parseGoals converts one goal tab. Rows with a malformed threshold, reward or
// tier are dropped with a warning. Compliance rows without a tier are tier 1;
// tierless loss rows are ranked by strictness afterwards.
func parseGoals(pillar schema.Pillar, rows []Row) ([]schema.GoalDefinition, []schema.DataWarning) {
	m, found := goalMappings[pillar]
	if !found {
		return nil, nil
	}
	cols, warnings, ok := Resolve(m.Tab, m, rows)
	if !ok {
		return nil, warnings
	}

	malformed := func(base, format string, args ...any) {
		warnings = append(warnings, schema.DataWarning{
			Kind:     schema.MalformedThreshold,
			BaseCode: base,
			Pillar:   pillar,
			Message:  fmt.Sprintf("%s: ", m.Tab) + fmt.Sprintf(format, args...),
		})
	}

	goals := make([]schema.GoalDefinition, 0, len(rows))
	var tierless []schema.GoalDefinition
	for _, row := range rows {
		base := cols.Text(row, "base")
		if base == "" {
			continue
		}
		threshold, ok := parseNumber(cols.Value(row, "threshold"))
		if !ok {
			malformed(base, "threshold %q is not a number", cols.Text(row, "threshold"))
			continue
		}
		reward, ok := parseMoney(cols.Value(row, "reward"))
		if !ok {
			malformed(base, "reward %q is not a number", cols.Text(row, "reward"))
			continue
		}

		g := schema.GoalDefinition{
			Pillar:       pillar,
			BaseCode:     base,
			Period:       cols.Text(row, "period"),
			RewardAmount: reward,
		}.WithThreshold(threshold)

		tier, hasTier := parseNumber(cols.Value(row, "tier"))
		switch {
		case hasTier && (tier < 1 || tier > schema.MaxTier):
			malformed(base, "tier %v is outside 1..%d", tier, schema.MaxTier)
			continue
		case hasTier:
			g.Tier = int(tier)
		case pillar == schema.CompliancePillar:
			g.Tier = 1
		case pillar == schema.LossPillar:
			tierless = append(tierless, g)
			continue
		default:
			malformed(base, "row has no tier")
			continue
		}
		goals = append(goals, g)
	}

	ranked, rankWarnings := assignLossTiers(engine.PrepareGoals(tierless))
	return append(engine.PrepareGoals(goals), ranked...), append(warnings, rankWarnings...)
}

// assignLossTiers gives tierless loss goals a tier by strictness within each
// base and period: the lowest threshold gets the highest tier.
func assignLossTiers(goals []schema.GoalDefinition) ([]schema.GoalDefinition, []schema.DataWarning) {
	type setKey struct{ code, period string }
	sets := make(map[setKey][]schema.GoalDefinition)
	var keys []setKey
	for _, g := range goals {
		k := setKey{engine.NormalizeCode(g.BaseCode), engine.NormalizeLabel(g.Period)}
		if _, ok := sets[k]; !ok {
			keys = append(keys, k)
		}
		sets[k] = append(sets[k], g)
	}

	var out []schema.GoalDefinition
	var warnings []schema.DataWarning
	for _, k := range keys {
		set := sets[k]
		sort.SliceStable(set, func(i, j int) bool { return set[i].Percent < set[j].Percent })
		for i, g := range set {
			if i >= schema.MaxTier {
				warnings = append(warnings, schema.DataWarning{
					Kind:     schema.MalformedThreshold,
					BaseCode: k.code,
					Pillar:   schema.LossPillar,
					Message:  fmt.Sprintf("%s: more than %d tierless rows, %g ignored", LossGoalsTab, schema.MaxTier, g.Percent),
				})
				continue
			}
			g.Tier = schema.MaxTier - i
			out = append(out, g)
		}
	}
	return out, warnings
}
