package mocks

import (
	"context"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRecordSource is a mock implementation of recordstore.RecordSource
type MockRecordSource struct {
	mock.Mock
}

func (m *MockRecordSource) FetchAssessmentRecords(ctx context.Context, tr models.TimeRange) ([]models.AssessmentRecord, error) {
	args := m.Called(ctx, tr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssessmentRecord), args.Error(1)
}

func (m *MockRecordSource) FetchClients(ctx context.Context) ([]models.ClientRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ClientRecord), args.Error(1)
}

func (m *MockRecordSource) FetchCounselors(ctx context.Context) ([]models.CounselorRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CounselorRecord), args.Error(1)
}

// MockPingableRecordSource adds a health check to MockRecordSource.
type MockPingableRecordSource struct {
	MockRecordSource
}

func (m *MockPingableRecordSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
