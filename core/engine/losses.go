package engine

import (
	"math"
	"sort"

	"github.com/huangsam/incentive/schema"
)

// Delivery band cut-offs, applied to the rate rounded to one decimal.
const (
	metCutoff  = 97.99
	nearCutoff = 94.99
)

// TopPendingSize is the number of bases listed by pending volume.
const TopPendingSize = 10

// ClassifyDeliveryRate returns the display band of a delivery-success rate.
func ClassifyDeliveryRate(rate float64) schema.DeliveryBand {
	rounded := math.Round(rate*10) / 10
	switch {
	case rounded > metCutoff:
		return schema.BandMet
	case rounded > nearCutoff:
		return schema.BandNear
	default:
		return schema.BandBelow
	}
}

// SummarizeLosses builds the not-received and stuck view of the window.
// Rows cover every base with activity; leader names come from the directory.
func SummarizeLosses(records []schema.OperationalRecord, bases []schema.Base, w schema.Window) schema.LossSummary {
	activity := AggregateActivity(records, w)
	directory := indexDirectory(bases)

	summary := schema.LossSummary{Window: w}
	for code, a := range activity {
		row := schema.BaseLossRow{
			Code:                code,
			Leader:              directory.bases[code].LeaderName,
			Shipments:           a.Shipments,
			Delivered:           a.Delivered,
			Failures:            a.Failures,
			Pending:             a.Pending,
			DeliverySuccessRate: a.DeliverySuccessRate,
			Band:                ClassifyDeliveryRate(a.DeliverySuccessRate),
			PNRRate:             Rate(a.Failures, a.Shipments),
			StuckRate:           Rate(a.Pending, a.Shipments),
		}
		summary.Bases = append(summary.Bases, row)
		summary.Shipments += a.Shipments
		summary.Delivered += a.Delivered
		summary.Failures += a.Failures
		summary.Pending += a.Pending
	}
	summary.PNRRate = Rate(summary.Failures, summary.Shipments)
	summary.StuckRate = Rate(summary.Pending, summary.Shipments)

	sort.Slice(summary.Bases, func(i, j int) bool { return summary.Bases[i].Code < summary.Bases[j].Code })

	top := make([]schema.BaseLossRow, len(summary.Bases))
	copy(top, summary.Bases)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Pending > top[j].Pending })
	if len(top) > TopPendingSize {
		top = top[:TopPendingSize]
	}
	summary.TopPending = top
	return summary
}
