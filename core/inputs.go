package core

import (
	"context"
	"sync"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
)

// LoadInputs fetches every collection a report needs concurrently. The
// ingestion warnings of this load alone are returned in the input.
func LoadInputs(ctx context.Context, src contract.DataSource, w schema.Window) schema.EngineInput {
	ctx, collected := contract.WithWarnings(ctx)
	var (
		in    schema.EngineInput
		wg    sync.WaitGroup
		goals = make([][]schema.GoalDefinition, len(schema.AllPillars))
	)

	wg.Go(func() { in.Operations = src.FetchOperationalRecords(ctx, w) })
	wg.Go(func() { in.Compliance = src.FetchComplianceRecords(ctx) })
	wg.Go(func() { in.Losses = src.FetchLossEvents(ctx, w) })
	wg.Go(func() { in.Protagonism = src.FetchProtagonismScores(ctx) })
	wg.Go(func() { in.Bases = src.FetchBaseDirectory(ctx) })
	for i, p := range schema.AllPillars {
		wg.Go(func() { goals[i] = src.FetchGoalDefinitions(ctx, p) })
	}
	wg.Wait()

	// Keep goals in pillar order so results do not depend on scheduling
	for _, g := range goals {
		in.Goals = append(in.Goals, g...)
	}
	in.Warnings = collected.List()
	return in
}

// loadOperations fetches the operations of w and the base directory, for
// views that need no goals.
func loadOperations(ctx context.Context, src contract.DataSource, w schema.Window) ([]schema.OperationalRecord, []schema.Base) {
	var (
		records []schema.OperationalRecord
		bases   []schema.Base
		wg      sync.WaitGroup
	)
	wg.Go(func() { records = src.FetchOperationalRecords(ctx, w) })
	wg.Go(func() { bases = src.FetchBaseDirectory(ctx) })
	wg.Wait()
	return records, bases
}
