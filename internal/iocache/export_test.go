package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/incentive/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportRuns(t *testing.T) {
	store := newSQLiteRunStore(t, filepath.Join(t.TempDir(), "runs.db"))
	runID, err := store.BeginRun(time.Now(), testWindow, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordBaseResult(runID, sampleReport("LRJ01", true)))
	require.NoError(t, store.EndRun(runID, time.Now(), 1))

	prefix := filepath.Join(t.TempDir(), "history")
	var out bytes.Buffer
	require.NoError(t, exportRuns(store, prefix, &out))

	for _, suffix := range []string{".runs.parquet", ".base_results.parquet"} {
		info, err := os.Stat(prefix + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, out.String(), "Exported 1 runs")
	assert.Contains(t, out.String(), "Exported 1 base results")
}

func TestExportRunsErrors(t *testing.T) {
	var out bytes.Buffer

	empty := newSQLiteRunStore(t, filepath.Join(t.TempDir(), "runs.db"))
	assert.Error(t, exportRuns(empty, "", &out), "Output file is required")
	assert.Error(t, exportRuns(empty, filepath.Join(t.TempDir(), "x"), &out), "Nothing to export")

	broken := &MockRunStore{}
	broken.On("GetStatus").Return(schema.RunStatus{TotalRuns: 1}, nil)
	broken.On("GetAllRuns").Return(nil, errors.New("connection reset"))
	err := exportRuns(broken, filepath.Join(t.TempDir(), "x"), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	broken.AssertExpectations(t)
}
