package engine

import (
	"math"
	"sort"

	"github.com/huangsam/incentive/schema"
)

// ComparePeriods compares unique-route volume per base between the window and
// its previous calendar month. Bases seen only in the previous window are kept
// with zero current totals. coordinator, when set, keeps only the bases whose
// coordinator name contains it.
func ComparePeriods(records []schema.OperationalRecord, bases []schema.Base, w schema.Window, coordinator string) schema.ComparisonResult {
	prevWindow := PreviousPeriod(w)
	current := AggregateActivity(records, w)
	previous := AggregateActivity(records, prevWindow)
	directory := indexDirectory(bases)
	meta := recordMetadata(records)

	codes := make(map[string]struct{}, len(current)+len(previous))
	for code := range current {
		codes[code] = struct{}{}
	}
	for code := range previous {
		codes[code] = struct{}{}
	}

	result := schema.ComparisonResult{Current: w, Previous: prevWindow}
	for code := range codes {
		detail := comparisonDetail(code, current[code], previous[code], directory, meta)
		if coordinator != "" && !schema.ContainsFold(detail.Coordinator, coordinator) {
			continue
		}
		result.Details = append(result.Details, detail)
	}
	sort.Slice(result.Details, func(i, j int) bool { return result.Details[i].Code < result.Details[j].Code })
	result.Summary = summarizeComparison(result.Details)
	return result
}

func comparisonDetail(code string, cur, prev schema.BaseActivity, directory directoryIndex, meta map[string]schema.Base) schema.ComparisonDetail {
	info, ok := directory.bases[code]
	if !ok {
		info = meta[code]
	}
	d := schema.ComparisonDetail{
		Code:           code,
		Locality:       info.Locality,
		Leader:         info.LeaderName,
		Coordinator:    info.CoordinatorName,
		PreviousRoutes: prev.UniqueRoutes,
		CurrentRoutes:  cur.UniqueRoutes,
		Delta:          cur.UniqueRoutes - prev.UniqueRoutes,
		AverageLoad:    cur.AverageLoad,
		PeakLoad:       cur.PeakLoad,
		Trend:          schema.TrendDown,
	}
	if d.CurrentRoutes >= d.PreviousRoutes {
		d.Trend = schema.TrendUp
	}
	switch {
	case d.PreviousRoutes == 0 && d.CurrentRoutes > 0:
		d.Status = schema.NewStatus
	case d.CurrentRoutes == 0 && d.PreviousRoutes > 0:
		d.Status = schema.InactiveStatus
	case d.CurrentRoutes > 0:
		d.Status = schema.ActiveStatus
	default:
		d.Status = schema.UnknownStatus
	}
	return d
}

// recordMetadata recovers base metadata carried on the feed rows, for codes
// the directory does not know.
func recordMetadata(records []schema.OperationalRecord) map[string]schema.Base {
	meta := make(map[string]schema.Base)
	for _, r := range records {
		code := NormalizeCode(r.BaseCode)
		b := meta[code]
		if b.Code == "" {
			b.Code = code
		}
		if b.Locality == "" {
			b.Locality = r.Locality
		}
		if b.LeaderName == "" {
			b.LeaderName = r.Leader
		}
		if b.CoordinatorName == "" {
			b.CoordinatorName = r.Coordinator
		}
		meta[code] = b
	}
	return meta
}

func summarizeComparison(details []schema.ComparisonDetail) schema.ComparisonSummary {
	var s schema.ComparisonSummary
	loadSum := 0
	for _, d := range details {
		s.PreviousTotal += d.PreviousRoutes
		s.CurrentTotal += d.CurrentRoutes
		loadSum += d.AverageLoad
		if d.PeakLoad > s.MaxPeakLoad {
			s.MaxPeakLoad = d.PeakLoad
		}
		switch d.Status {
		case schema.NewStatus:
			s.TotalNewBases++
		case schema.InactiveStatus:
			s.TotalInactiveBases++
		case schema.ActiveStatus:
			s.TotalActiveBases++
		}
	}
	s.NetDelta = s.CurrentTotal - s.PreviousTotal
	if len(details) > 0 {
		s.MeanAverageLoad = int(math.Round(float64(loadSum) / float64(len(details))))
	}
	return s
}
