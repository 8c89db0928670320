// Package core orchestrates data loading, the incentive engine and the
// run history around each computation.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/incentive/core/engine"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/internal/metrics"
	"github.com/huangsam/incentive/internal/outwriter"
	"github.com/huangsam/incentive/schema"
)

// ErrEmptySearch is returned when a search has no term.
var ErrEmptySearch = errors.New("a search term is required")

// Deps bundles the collaborators of a computation. Only Source is required.
type Deps struct {
	Source    contract.DataSource
	Manager   contract.CacheManager
	Publisher contract.ReportPublisher
	Metrics   *metrics.Metrics
}

// ExecutorFunc defines the function signature for executing the CLI views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, deps Deps) error

// computeReport loads the inputs of the window and runs the engine.
func computeReport(ctx context.Context, cfg *contract.Config, deps Deps) (schema.IncentiveReport, error) {
	if deps.Source == nil {
		return schema.IncentiveReport{}, contract.ErrNoSource
	}
	if err := contract.ValidateWindow(cfg.Window); err != nil {
		return schema.IncentiveReport{}, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogReportHeader(cfg)
	}

	in := LoadInputs(ctx, deps.Source, cfg.Window)
	report := engine.ComputeIncentiveReport(in, cfg.Window, cfg.BaseFilter)
	deps.Metrics.ReportComputed()
	return report, nil
}

// GetIncentiveReport computes the report of the configured window, records
// it in the run history and publishes it when those are configured.
func GetIncentiveReport(ctx context.Context, cfg *contract.Config, deps Deps) (schema.IncentiveReport, error) {
	report, err := computeReport(ctx, cfg, deps)
	if err != nil {
		return report, err
	}
	if deps.Manager != nil {
		recordRun(deps.Manager.GetRunStore(), cfg, report)
	}
	if deps.Publisher != nil {
		if err := deps.Publisher.PublishReport(ctx, report); err != nil {
			contract.LogWarn("Failed to publish report", err)
		}
	}
	return report, nil
}

// GetLeaderboard ranks the report and splits guaranteed from projected amounts.
func GetLeaderboard(ctx context.Context, cfg *contract.Config, deps Deps) (schema.Leaderboard, error) {
	report, err := computeReport(ctx, cfg, deps)
	if err != nil {
		return schema.Leaderboard{}, err
	}
	return engine.BuildLeaderboard(report, cfg.ResultLimit), nil
}

// GetPodium returns the report trimmed to the top three bases.
func GetPodium(ctx context.Context, cfg *contract.Config, deps Deps) (schema.IncentiveReport, error) {
	report, err := computeReport(ctx, cfg, deps)
	if err != nil {
		return report, err
	}
	report.Reports = engine.Podium(report.Reports)
	return report, nil
}

// GetSearchResults returns the report trimmed to the bases whose leader
// matches cfg.Search.
func GetSearchResults(ctx context.Context, cfg *contract.Config, deps Deps) (schema.IncentiveReport, error) {
	if cfg.Search == "" {
		return schema.IncentiveReport{}, ErrEmptySearch
	}
	report, err := computeReport(ctx, cfg, deps)
	if err != nil {
		return report, err
	}
	report.Reports = engine.SearchLeader(report.Reports, cfg.Search)
	return report, nil
}

// GetComparison compares the window with its previous calendar month.
func GetComparison(ctx context.Context, cfg *contract.Config, deps Deps) (schema.ComparisonResult, error) {
	if deps.Source == nil {
		return schema.ComparisonResult{}, contract.ErrNoSource
	}
	if err := contract.ValidateWindow(cfg.Window); err != nil {
		return schema.ComparisonResult{}, err
	}
	prev := engine.PreviousPeriod(cfg.Window)
	if !shouldSuppressHeader(ctx) {
		outwriter.LogCompareHeader(cfg, prev)
	}

	// One fetch covers both windows
	span := schema.Window{Start: prev.Start, End: cfg.Window.End}
	if cfg.Window.Start.Before(span.Start) {
		span.Start = cfg.Window.Start
	}
	records, bases := loadOperations(ctx, deps.Source, span)
	return engine.ComparePeriods(records, bases, cfg.Window, cfg.Coordinator), nil
}

// GetBankStatement pairs the virtual bank balances with the window's totals.
func GetBankStatement(ctx context.Context, cfg *contract.Config, deps Deps) (schema.BankStatement, error) {
	report, err := computeReport(ctx, cfg, deps)
	if err != nil {
		return schema.BankStatement{}, err
	}
	balances := deps.Source.FetchBankBalances(ctx)
	return engine.BuildBankStatement(report, balances, cfg.Search), nil
}

// GetLossSummary returns the not-received and stuck view of the window.
func GetLossSummary(ctx context.Context, cfg *contract.Config, deps Deps) (schema.LossSummary, error) {
	if deps.Source == nil {
		return schema.LossSummary{}, contract.ErrNoSource
	}
	if err := contract.ValidateWindow(cfg.Window); err != nil {
		return schema.LossSummary{}, err
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogReportHeader(cfg)
	}
	records, bases := loadOperations(ctx, deps.Source, cfg.Window)
	return engine.SummarizeLosses(records, bases, cfg.Window), nil
}

// ExecuteReport prints the full incentive report.
func ExecuteReport(ctx context.Context, cfg *contract.Config, deps Deps) error {
	start := time.Now()
	report, err := GetIncentiveReport(ctx, cfg, deps)
	if err != nil {
		return err
	}
	logWarnings(report.Diagnostics.Warnings)
	return outwriter.WriteReport(report, cfg, time.Since(start))
}

// ExecuteLeaderboard prints the ranked leaderboard.
func ExecuteLeaderboard(ctx context.Context, cfg *contract.Config, deps Deps) error {
	start := time.Now()
	lb, err := GetLeaderboard(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return outwriter.WriteLeaderboard(lb, cfg, time.Since(start))
}

// ExecutePodium prints the top three bases.
func ExecutePodium(ctx context.Context, cfg *contract.Config, deps Deps) error {
	start := time.Now()
	report, err := GetPodium(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return outwriter.WritePodium(report, cfg, time.Since(start))
}

// ExecuteSearch prints the bases whose leader matches the search term.
func ExecuteSearch(ctx context.Context, cfg *contract.Config, deps Deps) error {
	start := time.Now()
	report, err := GetSearchResults(ctx, cfg, deps)
	if err != nil {
		return err
	}
	if len(report.Reports) == 0 {
		return fmt.Errorf("no leader matches %q", cfg.Search)
	}
	return outwriter.WriteReport(report, cfg, time.Since(start))
}

// ExecuteCompare prints the period-over-period comparison.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, deps Deps) error {
	start := time.Now()
	result, err := GetComparison(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return outwriter.WriteComparison(result, cfg, time.Since(start))
}

// ExecuteBank prints the virtual bank statement.
func ExecuteBank(ctx context.Context, cfg *contract.Config, deps Deps) error {
	start := time.Now()
	stmt, err := GetBankStatement(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return outwriter.WriteBankStatement(stmt, cfg, time.Since(start))
}

// ExecuteLosses prints the loss and stuck summary.
func ExecuteLosses(ctx context.Context, cfg *contract.Config, deps Deps) error {
	start := time.Now()
	summary, err := GetLossSummary(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return outwriter.WriteLossSummary(summary, cfg, time.Since(start))
}

func logWarnings(warnings []schema.DataWarning) {
	for _, w := range warnings {
		contract.LogWarn(fmt.Sprintf("%s: %s", w.Kind, w.Message), nil)
	}
}
