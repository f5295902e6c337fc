package mocks

import (
	"context"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotCache is a mock implementation of cache.SnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context, tr models.TimeRange, policy string) (*models.StatsSnapshot, error) {
	args := m.Called(ctx, tr, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatsSnapshot), args.Error(1)
}

func (m *MockSnapshotCache) Set(ctx context.Context, policy string, snap *models.StatsSnapshot) error {
	args := m.Called(ctx, policy, snap)
	return args.Error(0)
}
