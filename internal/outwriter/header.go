package outwriter

import (
	"fmt"
	"os"

	"github.com/huangsam/incentive/core/engine"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
)

// LogReportHeader prints a concise, 2-line header to stderr.
func LogReportHeader(cfg *contract.Config) {
	scope := "all"
	if cfg.BaseFilter != "" {
		scope = engine.NormalizeCode(cfg.BaseFilter)
	}
	month := engine.MonthLabel(cfg.Window.Start)
	if !engine.IsSingleMonth(cfg.Window) {
		month += " (cross-month)"
	}
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Bases: %s (Month: %s)\n", scope, month)
	_, _ = fmt.Fprintf(os.Stderr, "📅 Range: %s → %s (%d days)\n", cfg.Window.Start, cfg.Window.End, engine.DayCount(cfg.Window))
}

// LogCompareHeader prints a header for the period comparison.
func LogCompareHeader(cfg *contract.Config, previous schema.Window) {
	_, _ = fmt.Fprintf(os.Stderr, "📊 Comparing: %s ↔ %s\n", previous, cfg.Window)
	if cfg.Coordinator != "" {
		_, _ = fmt.Fprintf(os.Stderr, "👤 Coordinator: %s\n", cfg.Coordinator)
	}
}
