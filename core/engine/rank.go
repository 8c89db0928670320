package engine

import (
	"sort"

	"github.com/huangsam/incentive/schema"
)

// PodiumSize is the number of bases on the podium.
const PodiumSize = 3

// RankReports returns a copy sorted by total descending, ties broken by
// normalized code ascending, with 1-based ranks assigned.
func RankReports(reports []schema.BaseIncentiveReport) []schema.BaseIncentiveReport {
	ranked := make([]schema.BaseIncentiveReport, len(reports))
	copy(ranked, reports)
	sort.SliceStable(ranked, func(i, j int) bool {
		if c := ranked[i].Total.Cmp(ranked[j].Total); c != 0 {
			return c > 0
		}
		return NormalizeCode(ranked[i].Code) < NormalizeCode(ranked[j].Code)
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Podium returns the top three of the ranking.
func Podium(reports []schema.BaseIncentiveReport) []schema.BaseIncentiveReport {
	ranked := RankReports(reports)
	if len(ranked) > PodiumSize {
		return ranked[:PodiumSize]
	}
	return ranked
}

// SearchLeader returns the ranked reports whose leader name contains term,
// ignoring case. An empty term matches every report.
func SearchLeader(reports []schema.BaseIncentiveReport, term string) []schema.BaseIncentiveReport {
	var out []schema.BaseIncentiveReport
	for _, r := range RankReports(reports) {
		if schema.ContainsFold(r.Base.LeaderName, term) {
			out = append(out, r)
		}
	}
	return out
}
