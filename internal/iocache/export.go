package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/internal/parquet"
)

// ExecuteRunsExport exports the run history of the global manager to Parquet files.
func ExecuteRunsExport(outputFile string, out io.Writer) error {
	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run store is not configured")
	}
	return exportRuns(store, outputFile, out)
}

func exportRuns(store contract.RunStore, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(out, "Total base results: %d\n", status.TotalBaseResults)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	results, err := store.GetAllBaseResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve base results: %w", err)
	}

	runRows := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d runs to: %s\n", len(runRows), runsFile)

	resultRows := parquet.ConvertBaseResultRecords(results)
	resultsFile := outputFile + ".base_results.parquet"
	if err := parquet.WriteBaseResultsParquet(resultRows, resultsFile); err != nil {
		return fmt.Errorf("failed to write base results: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d base results to: %s\n", len(resultRows), resultsFile)

	return nil
}
