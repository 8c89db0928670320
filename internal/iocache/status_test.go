package iocache

import (
	"bytes"
	"testing"
	"time"

	"github.com/huangsam/incentive/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend: "sqlite", Connected: true, TotalEntries: 3,
		LastEntryTime: ts, OldestEntryTime: ts, TableSizeBytes: 4096,
	})
	assert.Contains(t, buf.String(), "Total Entries: 3")
	assert.Contains(t, buf.String(), "Last Entry: 2024-03-01 08:00:00")
	assert.Contains(t, buf.String(), "Table Size: 4096 bytes")
}

func TestPrintRunStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintRunStatus(&buf, schema.RunStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 2, LastRunID: "abc",
		TotalBaseResults: 12,
		TableSizes:       map[string]int64{runsTable: 2, baseResultsTable: 12},
	})
	out := buf.String()
	assert.Contains(t, out, "Last Run ID: abc")
	assert.Contains(t, out, "Total Base Results: 12")

	// Tables print in name order
	assert.Less(t,
		bytes.Index(buf.Bytes(), []byte(baseResultsTable)),
		bytes.Index(buf.Bytes(), []byte(runsTable+":")))
}
