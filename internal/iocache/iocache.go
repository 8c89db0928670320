// Package iocache persists sheet payloads and report runs in SQL backends.
package iocache

import (
	"sync"

	"github.com/huangsam/incentive/internal/contract"
)

// CacheStoreManager manages the sheet cache and the run history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	sheet        contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSheetStore returns the sheet CacheStore, or nil when caching is off.
func (mgr *CacheStoreManager) GetSheetStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.sheet
}

// GetRunStore returns the RunStore, or nil when run history is off.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
