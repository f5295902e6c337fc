package api

import (
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/jobs"
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/services"
)

type Server struct {
	SnapshotService services.SnapshotService
	JobQueue        jobs.JobQueue
	DefaultRange    models.TimeRange
	// RequestTimeout bounds /api handlers; zero disables the limit.
	RequestTimeout time.Duration
}
