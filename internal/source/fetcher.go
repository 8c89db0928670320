// Package source reads the workbook tabs and turns them into engine records.
package source

import (
	"context"
	"fmt"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
)

// Fetcher implements contract.DataSource over a SheetClient. Fetch failures
// are logged and read as empty collections. Ingestion warnings go to the
// collector on the call's context; a Fetcher holds no per-call state and may be
// shared by concurrent loads.
type Fetcher struct {
	client        SheetClient
	operationsTab string
}

var _ contract.DataSource = &Fetcher{} // Compile-time check

// NewFetcher returns a Fetcher reading the operations feed from operationsTab.
func NewFetcher(client SheetClient, operationsTab string) *Fetcher {
	if operationsTab == "" {
		operationsTab = contract.DefaultOperationsTab
	}
	return &Fetcher{client: client, operationsTab: operationsTab}
}

// NewFromConfig builds the sheet client chain for cfg: a directory client when
// source-dir is set, otherwise the HTTP endpoint, wrapped in the sheet cache.
func NewFromConfig(cfg *contract.Config, store contract.CacheStore, rec Recorder) (*Fetcher, error) {
	var client SheetClient
	switch {
	case cfg.SourceDir != "":
		client = NewDirSheetClient(cfg.SourceDir)
	case cfg.SourceURL != "":
		client = NewHTTPSheetClient(cfg.SourceURL, cfg.HTTPTimeout)
	default:
		return nil, contract.ErrNoSource
	}
	cached := NewCachedSheetClient(client, store, CacheOptions{TTL: cfg.CacheTTL, Refresh: cfg.Refresh, Recorder: rec})
	return NewFetcher(cached, cfg.OperationsTab), nil
}

func (f *Fetcher) rows(ctx context.Context, tab string) []Row {
	rows, err := f.client.FetchTab(ctx, tab)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Cannot fetch tab %q", tab), err)
		return nil
	}
	return rows
}

// FetchOperationalRecords implements contract.DataSource.
func (f *Fetcher) FetchOperationalRecords(ctx context.Context, w schema.Window) []schema.OperationalRecord {
	records, ws := parseOperations(f.operationsTab, f.rows(ctx, f.operationsTab))
	contract.ReportWarnings(ctx, ws)
	out := records[:0]
	for _, r := range records {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// FetchComplianceRecords implements contract.DataSource.
func (f *Fetcher) FetchComplianceRecords(ctx context.Context) []schema.ComplianceRecord {
	records, ws := parseCompliance(f.rows(ctx, ComplianceTab))
	contract.ReportWarnings(ctx, ws)
	return records
}

// FetchLossEvents implements contract.DataSource.
func (f *Fetcher) FetchLossEvents(ctx context.Context, w schema.Window) []schema.LossEvent {
	events, ws := parseLossEvents(f.rows(ctx, LossEventsTab))
	contract.ReportWarnings(ctx, ws)
	out := events[:0]
	for _, e := range events {
		if w.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// FetchProtagonismScores implements contract.DataSource.
func (f *Fetcher) FetchProtagonismScores(ctx context.Context) []schema.ProtagonismScore {
	scores, ws := parseSurvey(f.rows(ctx, SurveyTab))
	contract.ReportWarnings(ctx, ws)
	return scores
}

// FetchGoalDefinitions implements contract.DataSource.
func (f *Fetcher) FetchGoalDefinitions(ctx context.Context, pillar schema.Pillar) []schema.GoalDefinition {
	m, ok := goalMappings[pillar]
	if !ok {
		contract.LogWarn(fmt.Sprintf("Cannot fetch goals for %q", pillar), contract.ErrUnknownPillar)
		return nil
	}
	goals, ws := parseGoals(pillar, f.rows(ctx, m.Tab))
	contract.ReportWarnings(ctx, ws)
	return goals
}

// FetchBaseDirectory implements contract.DataSource.
func (f *Fetcher) FetchBaseDirectory(ctx context.Context) []schema.Base {
	bases, ws := parseBaseDirectory(f.rows(ctx, BaseDirectoryTab))
	contract.ReportWarnings(ctx, ws)
	return bases
}

// FetchBankBalances implements contract.DataSource.
func (f *Fetcher) FetchBankBalances(ctx context.Context) []schema.BankBalance {
	balances, ws := parseBank(f.rows(ctx, BankTab))
	contract.ReportWarnings(ctx, ws)
	return balances
}
