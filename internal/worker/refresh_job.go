package worker

import (
	"context"

	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

// Refresher rebuilds the displayed snapshot. It is satisfied by
// services.SnapshotService without importing it.
type Refresher interface {
	Refresh(ctx context.Context, tr models.TimeRange) (*models.StatsSnapshot, bool, error)
}

// RefreshJob builds a snapshot in the background.
type RefreshJob struct {
	Refresher Refresher
	TimeRange models.TimeRange
}

func (j *RefreshJob) Name() string { return "refresh_snapshot:" + string(j.TimeRange) }

func (j *RefreshJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	snap, applied, err := j.Refresher.Refresh(ctx, j.TimeRange)
	if err != nil {
		return err
	}
	if !applied {
		log.Debug("refresh superseded by a newer generation")
		return nil
	}
	log.Info("snapshot generation %d applied: tests=%d", snap.Generation, snap.TotalTests)
	return nil
}
