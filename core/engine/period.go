package engine

import (
	"math"
	"time"

	"github.com/huangsam/incentive/schema"
)

// monthLabels are the month names goal sheets use to scope rows.
var monthLabels = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// DayCount returns the inclusive number of days in the window.
// An inverted window counts as zero days.
func DayCount(w schema.Window) int {
	days := int(w.End.Time().Sub(w.Start.Time()).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// MonthLabel returns the goal-sheet month name of d.
func MonthLabel(d schema.Date) string {
	if d.Month < time.January || d.Month > time.December {
		return ""
	}
	return monthLabels[d.Month-1]
}

// IsSingleMonth reports whether both bounds fall in the same calendar month.
func IsSingleMonth(w schema.Window) bool {
	return w.Start.Year == w.End.Year && w.Start.Month == w.End.Month
}

// PreviousPeriod shifts both bounds back exactly one calendar month.
// A day that does not exist in the target month is clamped to its last day,
// so 2024-03-31 becomes 2024-02-29.
func PreviousPeriod(w schema.Window) schema.Window {
	return schema.Window{Start: shiftMonth(w.Start, -1), End: shiftMonth(w.End, -1)}
}

func shiftMonth(d schema.Date, months int) schema.Date {
	first := time.Date(d.Year, d.Month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	day := d.Day
	if day > last {
		day = last
	}
	return schema.Date{Year: first.Year(), Month: first.Month(), Day: day}
}

// ScaledTarget converts a daily rate into a target for the whole window.
func ScaledTarget(dailyRate float64, dayCount int) int {
	return int(math.Round(dailyRate * float64(dayCount)))
}
