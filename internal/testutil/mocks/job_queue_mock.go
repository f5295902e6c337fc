package mocks

import (
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueRefresh(tr models.TimeRange) error {
	args := m.Called(tr)
	return args.Error(0)
}
