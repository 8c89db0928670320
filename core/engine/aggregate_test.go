package engine

import (
	"testing"

	"github.com/huangsam/incentive/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func op(date, base, route string, ordinal, shipped, delivered, pending int) schema.OperationalRecord {
	return schema.OperationalRecord{
		Date:           schema.MustParseDate(date),
		BaseCode:       base,
		DriverName:     "driver",
		RouteCode:      route,
		Ordinal:        ordinal,
		ShipmentCount:  shipped,
		DeliveredCount: delivered,
		PendingCount:   pending,
	}
}

func TestAggregateActivityDedup(t *testing.T) {
	w := window("2024-03-01", "2024-03-31")

	tests := []struct {
		name    string
		records []schema.OperationalRecord
		want    int
	}{
		{
			name: "same route same day counts once",
			records: []schema.OperationalRecord{
				op("2024-03-01", "LRJ01", "AT-1", 0, 10, 10, 0),
				op("2024-03-01", "LRJ01", "AT-1", 1, 5, 5, 0),
			},
			want: 1,
		},
		{
			name: "distinct routes count twice",
			records: []schema.OperationalRecord{
				op("2024-03-01", "LRJ01", "AT-1", 0, 10, 10, 0),
				op("2024-03-01", "LRJ01", "AT-2", 1, 5, 5, 0),
			},
			want: 2,
		},
		{
			name: "missing routes are singletons",
			records: []schema.OperationalRecord{
				op("2024-03-01", "LRJ01", "", 0, 10, 10, 0),
				op("2024-03-01", "LRJ01", "", 1, 5, 5, 0),
			},
			want: 2,
		},
		{
			name: "same route on different days counts per day",
			records: []schema.OperationalRecord{
				op("2024-03-01", "LRJ01", "AT-1", 0, 10, 10, 0),
				op("2024-03-02", "LRJ01", "AT-1", 1, 5, 5, 0),
			},
			want: 2,
		},
		{
			name: "raw codes join after normalization",
			records: []schema.OperationalRecord{
				op("2024-03-01", "lrj 01", "AT-1", 0, 10, 10, 0),
				op("2024-03-01", "LAJ-01", "AT-1", 1, 5, 5, 0),
			},
			want: 1,
		},
		{
			name: "records outside the window are ignored",
			records: []schema.OperationalRecord{
				op("2024-02-29", "LRJ01", "AT-1", 0, 10, 10, 0),
				op("2024-03-01", "LRJ01", "AT-2", 1, 5, 5, 0),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateActivity(tt.records, w)
			require.Contains(t, got, "LRJ01")
			assert.Equal(t, tt.want, got["LRJ01"].UniqueRoutes)
		})
	}
}

func TestAggregateActivityLoads(t *testing.T) {
	// Daily unique counts 5, none, 7, 9 over four calendar days.
	var records []schema.OperationalRecord
	ordinal := 0
	add := func(date string, n int) {
		for i := 0; i < n; i++ {
			records = append(records, op(date, "LES03", "", ordinal, 2, 1, 1))
			ordinal++
		}
	}
	add("2024-03-01", 5)
	add("2024-03-03", 7)
	add("2024-03-04", 9)

	got := AggregateActivity(records, window("2024-03-01", "2024-03-04"))["LES03"]
	assert.Equal(t, 21, got.UniqueRoutes)
	assert.Equal(t, 3, got.DaysOperated)
	assert.Equal(t, 7, got.AverageLoad)
	assert.Equal(t, 9, got.PeakLoad)
	require.Len(t, got.DailyCounts, 3)
	assert.Equal(t, "2024-03-01", got.DailyCounts[0].Date.String())
	assert.Equal(t, "2024-03-04", got.DailyCounts[2].Date.String())

	// Row-level sums are not deduplicated.
	assert.Equal(t, 42, got.Shipments)
	assert.Equal(t, 21, got.Delivered)
	assert.Equal(t, 21, got.Pending)
	assert.Equal(t, 21, got.Failures)
	assert.InDelta(t, 50.0, got.DeliverySuccessRate, 1e-9)
}

func TestAggregateActivityZeroShipments(t *testing.T) {
	got := AggregateActivity([]schema.OperationalRecord{op("2024-03-01", "LRJ01", "AT-1", 0, 0, 0, 0)}, window("2024-03-01", "2024-03-31"))
	assert.Equal(t, 0.0, got["LRJ01"].DeliverySuccessRate)
}

func TestSyntheticRouteKey(t *testing.T) {
	d := schema.MustParseDate("2024-03-01")
	assert.Equal(t, SyntheticRouteKey("LRJ01", d, 3, 0), SyntheticRouteKey("lrj-01", d, 3, 0))
	assert.NotEqual(t, SyntheticRouteKey("LRJ01", d, 3, 0), SyntheticRouteKey("LRJ01", d, 4, 0))
	assert.NotEqual(t, SyntheticRouteKey("LRJ01", d, 3, 0), SyntheticRouteKey("LRJ01", d.AddDays(1), 3, 0))
	assert.NotEqual(t, SyntheticRouteKey("LRJ01", d, 0, 0), SyntheticRouteKey("LRJ01", d, 0, 1))
}

func TestAggregateActivityRoutelessWithoutOrdinal(t *testing.T) {
	d := schema.MustParseDate("2024-03-01")
	records := []schema.OperationalRecord{
		{Date: d, BaseCode: "LRJ01", ShipmentCount: 10, DeliveredCount: 9},
		{Date: d, BaseCode: "LRJ01", ShipmentCount: 12, DeliveredCount: 12},
	}

	w := window("2024-03-01", "2024-03-31")
	got := AggregateActivity(records, w)["LRJ01"]
	assert.Equal(t, 2, got.UniqueRoutes, "two rows without a route code are two routes")
	assert.Equal(t, 22, got.Shipments)

	again := AggregateActivity(records, w)["LRJ01"]
	assert.Equal(t, got.UniqueRoutes, again.UniqueRoutes)
}

func TestAverageLoadSkipsEmptyDays(t *testing.T) {
	daily := []schema.DailyCount{{Count: 5}, {Count: 0}, {Count: 7}, {Count: 9}}
	assert.Equal(t, 7, AverageLoad(daily))
	assert.Equal(t, 0, AverageLoad(nil))
}

func TestFailures(t *testing.T) {
	assert.Equal(t, 3, Failures(10, 7))
	assert.Equal(t, 0, Failures(10, 12))
	assert.Equal(t, 0, Failures(0, 0))
}
