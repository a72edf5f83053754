package iocache

import (
	"context"
	"time"

	"github.com/huangsam/codepulse/internal/contract"
	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRecordStore implements the StoreManager interface.
func (m *MockStoreManager) GetRecordStore() contract.RecordStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RecordStore)
	return store
}

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ contract.RecordStore = &MockRecordStore{} // Compile-time check

// FindByDates implements the RecordStore interface.
func (m *MockRecordStore) FindByDates(ctx context.Context, userID string, dates []string) ([]schema.DailyRecord, error) {
	args := m.Called(ctx, userID, dates)
	records, _ := args.Get(0).([]schema.DailyRecord)
	return records, args.Error(1)
}

// FindByRange implements the RecordStore interface.
func (m *MockRecordStore) FindByRange(ctx context.Context, userID string, start, end string) ([]schema.DailyRecord, error) {
	args := m.Called(ctx, userID, start, end)
	records, _ := args.Get(0).([]schema.DailyRecord)
	return records, args.Error(1)
}

// Upsert implements the RecordStore interface.
func (m *MockRecordStore) Upsert(ctx context.Context, userID string, rec schema.DailyRecord) error {
	args := m.Called(ctx, userID, rec)
	return args.Error(0)
}

// BeginIngest implements the RecordStore interface.
func (m *MockRecordStore) BeginIngest(ctx context.Context, userID string, source schema.IngestSource, startTime time.Time) (string, error) {
	args := m.Called(ctx, userID, source, startTime)
	return args.String(0), args.Error(1)
}

// EndIngest implements the RecordStore interface.
func (m *MockRecordStore) EndIngest(ctx context.Context, runID string, endTime time.Time, written, failed []string, runErr error) error {
	args := m.Called(ctx, runID, endTime, written, failed, runErr)
	return args.Error(0)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// GetAllRecords implements the RecordStore interface.
func (m *MockRecordStore) GetAllRecords() ([]schema.StoredRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.StoredRecord)
	return records, args.Error(1)
}

// GetAllIngestRuns implements the RecordStore interface.
func (m *MockRecordStore) GetAllIngestRuns() ([]schema.IngestRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.IngestRunRecord)
	return runs, args.Error(1)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
