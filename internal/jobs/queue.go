package jobs

import "github.com/PDG1999/tool-dashboard-samebi/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueRefresh(tr models.TimeRange) error
}
