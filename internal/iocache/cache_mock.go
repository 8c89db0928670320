package iocache

import (
	"time"

	"github.com/huangsam/incentive/internal/contract"
	"github.com/huangsam/incentive/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetSheetStore implements the CacheManager interface.
func (m *MockCacheManager) GetSheetStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetRunStore implements the CacheManager interface.
func (m *MockCacheManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(startedAt time.Time, w schema.Window, configParams map[string]any) (string, error) {
	args := m.Called(startedAt, w, configParams)
	return args.String(0), args.Error(1)
}

// RecordBaseResult implements the RunStore interface.
func (m *MockRunStore) RecordBaseResult(runID string, report schema.BaseIncentiveReport) error {
	args := m.Called(runID, report)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID string, finishedAt time.Time, totalBases int) error {
	args := m.Called(runID, finishedAt, totalBases)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllBaseResults implements the RunStore interface.
func (m *MockRunStore) GetAllBaseResults() ([]schema.BaseResultRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.BaseResultRecord)
	return records, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
