package mocks

import (
	"context"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotService is a mock implementation of services.SnapshotService
type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) Refresh(ctx context.Context, tr models.TimeRange) (*models.StatsSnapshot, bool, error) {
	args := m.Called(ctx, tr)
	var snap *models.StatsSnapshot
	if args.Get(0) != nil {
		snap = args.Get(0).(*models.StatsSnapshot)
	}
	return snap, args.Bool(1), args.Error(2)
}

func (m *MockSnapshotService) Current() *models.StatsSnapshot {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.StatsSnapshot)
}

func (m *MockSnapshotService) Generation() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockSnapshotService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
