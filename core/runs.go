package core

import (
	"time"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
)

// runConfigParams captures the settings that shaped a run.
func runConfigParams(cfg *contract.Config) map[string]any {
	params := map[string]any{
		"start":          cfg.Window.Start.String(),
		"end":            cfg.Window.End.String(),
		"operations_tab": cfg.OperationsTab,
		"precision":      cfg.Precision,
		"result_limit":   cfg.ResultLimit,
	}
	if cfg.BaseFilter != "" {
		params["base"] = cfg.BaseFilter
	}
	switch {
	case cfg.SourceDir != "":
		params["source"] = "dir"
	case cfg.SourceURL != "":
		params["source"] = "url"
	}
	return params
}

// recordRun stores the report in the run history. Failures are logged and
// never fail the computation.
func recordRun(store contract.RunStore, cfg *contract.Config, report schema.IncentiveReport) {
	if store == nil {
		return
	}
	runID, err := store.BeginRun(time.Now(), report.Window, runConfigParams(cfg))
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return
	}
	if runID == "" {
		return // tracking disabled
	}

	recorded := 0
	for _, r := range report.Reports {
		if err := store.RecordBaseResult(runID, r); err != nil {
			contract.LogWarn("Failed to record base result", err)
			continue
		}
		recorded++
	}
	if err := store.EndRun(runID, time.Now(), recorded); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
