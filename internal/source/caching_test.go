package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/incentive/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	data    []byte
	version int
	ts      int64
}

// memoryStore is an in-memory contract.CacheStore.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	setErr  error
}

func newMemoryStore() *memoryStore { return &memoryStore{entries: map[string]entry{}} }

func (s *memoryStore) Get(key string) ([]byte, int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, 0, 0, errors.New("not found")
	}
	return e.data, e.version, e.ts, nil
}

func (s *memoryStore) Set(key string, value []byte, version int, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = entry{value, version, ts}
	return nil
}

func (s *memoryStore) GetStatus() (schema.CacheStatus, error) { return schema.CacheStatus{}, nil }
func (s *memoryStore) Close() error { return nil }

// stubClient serves fixed tabs and counts calls.
type stubClient struct {
	tabs  map[string][]Row
	err   error
	calls int
}

func (c *stubClient) Origin() string { return "stub" }

func (c *stubClient) FetchTab(_ context.Context, tab string) ([]Row, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.tabs[tab], nil
}

// countingRecorder tallies fetch outcomes.
type countingRecorder map[string]int

func (r countingRecorder) RecordFetch(tab, outcome string) { r[tab+"/"+outcome]++ }

func TestCachedSheetClient(t *testing.T) {
	ctx := context.Background()
	next := &stubClient{tabs: map[string][]Row{"QLP": {{"BASE": "LRJ01"}}}}
	store := newMemoryStore()
	rec := countingRecorder{}
	c := NewCachedSheetClient(next, store, CacheOptions{TTL: time.Hour, Recorder: rec})

	rows, err := c.FetchTab(ctx, "QLP")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = c.FetchTab(ctx, "QLP")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, countingRecorder{"QLP/miss": 1, "QLP/hit": 1}, rec)
}

func TestCachedSheetClientInvalidation(t *testing.T) {
	ctx := context.Background()
	next := &stubClient{tabs: map[string][]Row{"QLP": {{"BASE": "LRJ01"}}}}
	key := generateCacheKey("stub", "QLP")

	t.Run("stale entry", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, store.Set(key, []byte(`[{"BASE":"OLD"}]`), currentCacheVersion, time.Now().Add(-2*time.Hour).Unix()))
		rows, err := NewCachedSheetClient(next, store, CacheOptions{TTL: time.Hour}).FetchTab(ctx, "QLP")
		require.NoError(t, err)
		assert.Equal(t, "LRJ01", rows[0]["BASE"])
	})

	t.Run("version mismatch", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, store.Set(key, []byte(`[{"BASE":"OLD"}]`), currentCacheVersion+1, time.Now().Unix()))
		rows, err := NewCachedSheetClient(next, store, CacheOptions{TTL: time.Hour}).FetchTab(ctx, "QLP")
		require.NoError(t, err)
		assert.Equal(t, "LRJ01", rows[0]["BASE"])
	})

	t.Run("refresh skips reads but writes", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, store.Set(key, []byte(`[{"BASE":"OLD"}]`), currentCacheVersion, time.Now().Unix()))
		rows, err := NewCachedSheetClient(next, store, CacheOptions{TTL: time.Hour, Refresh: true}).FetchTab(ctx, "QLP")
		require.NoError(t, err)
		assert.Equal(t, "LRJ01", rows[0]["BASE"])
		data, _, _, err := store.Get(key)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"BASE":"LRJ01"}]`, string(data))
	})
}

func TestCachedSheetClientFailures(t *testing.T) {
	ctx := context.Background()

	store := newMemoryStore()
	store.setErr = errors.New("disk full")
	next := &stubClient{tabs: map[string][]Row{"QLP": {{"BASE": "LRJ01"}}}}
	rows, err := NewCachedSheetClient(next, store, CacheOptions{TTL: time.Hour}).FetchTab(ctx, "QLP")
	require.NoError(t, err, "a cache write failure never fails the fetch")
	assert.Len(t, rows, 1)

	rec := countingRecorder{}
	failing := &stubClient{err: errors.New("offline")}
	_, err = NewCachedSheetClient(failing, nil, CacheOptions{Recorder: rec}).FetchTab(ctx, "QLP")
	assert.Error(t, err)
	assert.Equal(t, 1, rec["QLP/error"])
}

func TestGenerateCacheKey(t *testing.T) {
	assert.Len(t, generateCacheKey("a", "b"), 64)
	assert.NotEqual(t, generateCacheKey("a", "b"), generateCacheKey("a", "c"))
	assert.NotEqual(t, generateCacheKey("x", "b"), generateCacheKey("y", "b"))
}
