package source

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/incentive/internal/contract"
)

// currentCacheVersion defines the version of the cached tab payload
const currentCacheVersion = 1

// Fetch outcomes reported to the Recorder.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// Recorder counts tab fetches by outcome.
type Recorder interface {
	RecordFetch(tab, outcome string)
}

// CachedSheetClient serves tabs from a CacheStore while they are fresh and
// falls through to the wrapped client otherwise. Cache failures never fail a fetch.
type CachedSheetClient struct {
	next     SheetClient
	store    contract.CacheStore
	ttl      time.Duration
	refresh  bool
	recorder Recorder
}

// CacheOptions configures a CachedSheetClient.
type CacheOptions struct {
	TTL      time.Duration
	Refresh  bool // skip reads, still write
	Recorder Recorder
}

// NewCachedSheetClient wraps next. A nil store disables caching.
func NewCachedSheetClient(next SheetClient, store contract.CacheStore, opts CacheOptions) *CachedSheetClient {
	return &CachedSheetClient{next: next, store: store, ttl: opts.TTL, refresh: opts.Refresh, recorder: opts.Recorder}
}

// Origin implements SheetClient.
func (c *CachedSheetClient) Origin() string { return c.next.Origin() }

// FetchTab implements SheetClient.
func (c *CachedSheetClient) FetchTab(ctx context.Context, tab string) ([]Row, error) {
	if c.store == nil {
		return c.fetch(ctx, tab)
	}

	key := generateCacheKey(c.next.Origin(), tab)
	if !c.refresh {
		if rows := c.checkCacheHit(key); rows != nil {
			c.record(tab, OutcomeHit)
			return rows, nil
		}
	}
	return c.computeAndStore(ctx, tab, key)
}

// checkCacheHit attempts to retrieve and validate a cached payload
func (c *CachedSheetClient) checkCacheHit(key string) []Row {
	data, version, ts, err := c.store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > c.ttl {
		return nil // stale
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil || rows == nil {
		return nil
	}
	return rows
}

// computeAndStore fetches the tab and stores it in cache
func (c *CachedSheetClient) computeAndStore(ctx context.Context, tab, key string) ([]Row, error) {
	rows, err := c.fetch(ctx, tab)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rows); err == nil {
		if err := c.store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Cannot cache tab "+tab, err)
		}
	}
	return rows, nil
}

func (c *CachedSheetClient) fetch(ctx context.Context, tab string) ([]Row, error) {
	rows, err := c.next.FetchTab(ctx, tab)
	if err != nil {
		c.record(tab, OutcomeError)
		return nil, err
	}
	c.record(tab, OutcomeMiss)
	return rows, nil
}

func (c *CachedSheetClient) record(tab, outcome string) {
	if c.recorder != nil {
		c.recorder.RecordFetch(tab, outcome)
	}
}

// generateCacheKey keys a payload by origin and tab
func generateCacheKey(origin, tab string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(origin+"|"+tab)))
}
