package engine

import (
	"crypto/sha256"
	"fmt"
	"math"
	"sort"

	"github.com/huangsam/incentive/schema"
)

// baseGroup is the first-phase grouping of one base.
type baseGroup struct {
	records   int
	routes    map[schema.Date]map[string]struct{}
	shipments int
	delivered int
	pending   int
	failures  int
}

// SyntheticRouteKey returns the deterministic stand-in for a record that has
// no route code. index is the record's position in the input, so distinct rows
// never collide even when the caller leaves ordinal unset. Reruns over the same
// input produce the same key.
func SyntheticRouteKey(baseCode string, date schema.Date, ordinal, index int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d", NormalizeCode(baseCode), date, ordinal, index)))
	return fmt.Sprintf("~%x", sum[:12])
}

// routeKey returns the dedup key of the record at index i.
func routeKey(r schema.OperationalRecord, i int) string {
	if r.RouteCode == "" {
		return SyntheticRouteKey(r.BaseCode, r.Date, r.Ordinal, i)
	}
	return r.RouteCode
}

// AggregateActivity groups records inside the window by normalized base and
// reduces each group into an immutable BaseActivity.
func AggregateActivity(records []schema.OperationalRecord, w schema.Window) map[string]schema.BaseActivity {
	groups := groupRecords(records, w)
	out := make(map[string]schema.BaseActivity, len(groups))
	for code, g := range groups {
		out[code] = reduceGroup(code, g)
	}
	return out
}

// groupRecords is the pure grouping phase.
func groupRecords(records []schema.OperationalRecord, w schema.Window) map[string]*baseGroup {
	groups := make(map[string]*baseGroup)
	for i, r := range records {
		if !w.Contains(r.Date) {
			continue
		}
		code := NormalizeCode(r.BaseCode)
		g, ok := groups[code]
		if !ok {
			g = &baseGroup{routes: make(map[schema.Date]map[string]struct{})}
			groups[code] = g
		}
		day, ok := g.routes[r.Date]
		if !ok {
			day = make(map[string]struct{})
			g.routes[r.Date] = day
		}
		day[routeKey(r, i)] = struct{}{}

		g.records++
		g.shipments += r.ShipmentCount
		g.delivered += r.DeliveredCount
		g.pending += r.PendingCount
		g.failures += Failures(r.ShipmentCount, r.DeliveredCount)
	}
	return groups
}

// reduceGroup is the reduction phase; it never mutates the group.
func reduceGroup(code string, g *baseGroup) schema.BaseActivity {
	daily := make([]schema.DailyCount, 0, len(g.routes))
	total, peak := 0, 0
	for date, routes := range g.routes {
		n := len(routes)
		daily = append(daily, schema.DailyCount{Date: date, Count: n})
		total += n
		if n > peak {
			peak = n
		}
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})

	return schema.BaseActivity{
		BaseCode:            code,
		Records:             g.records,
		UniqueRoutes:        total,
		DailyCounts:         daily,
		DaysOperated:        len(daily),
		AverageLoad:         AverageLoad(daily),
		PeakLoad:            peak,
		Shipments:           g.shipments,
		Delivered:           g.delivered,
		Pending:             g.pending,
		Failures:            g.failures,
		DeliverySuccessRate: Rate(g.delivered, g.shipments),
	}
}

// AverageLoad is the rounded mean over days with at least one route.
func AverageLoad(daily []schema.DailyCount) int {
	sum, days := 0, 0
	for _, d := range daily {
		if d.Count == 0 {
			continue
		}
		sum += d.Count
		days++
	}
	if days == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(days)))
}

// Rate returns part/whole as a percentage, or 0 when whole is 0.
func Rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Failures is the shipment shortfall of one row, never negative.
func Failures(shipments, delivered int) int {
	if delivered >= shipments {
		return 0
	}
	return shipments - delivered
}
