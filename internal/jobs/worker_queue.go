package jobs

import (
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool      *worker.Pool
	refresher worker.Refresher
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, refresher worker.Refresher) JobQueue {
	return &WorkerQueue{pool: pool, refresher: refresher}
}

func (q *WorkerQueue) EnqueueRefresh(tr models.TimeRange) error {
	return q.pool.Submit(&worker.RefreshJob{
		Refresher: q.refresher,
		TimeRange: tr,
	})
}
