package contract

import (
	"context"

	"github.com/huangsam/codepulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockFetchClient is a mock implementation of FetchClient for testing.
type MockFetchClient struct {
	mock.Mock
}

var _ FetchClient = &MockFetchClient{} // Compile-time check

// FetchRange implements the FetchClient interface.
func (m *MockFetchClient) FetchRange(ctx context.Context, userID string, start, end string) ([]schema.RawDaySummary, error) {
	args := m.Called(ctx, userID, start, end)
	summaries, _ := args.Get(0).([]schema.RawDaySummary)
	return summaries, args.Error(1)
}
