package recordstore

import (
	"context"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

// RecordSource supplies the raw collections a snapshot is built from. Range
// filtering of assessment records is the source's job.
type RecordSource interface {
	FetchAssessmentRecords(ctx context.Context, tr models.TimeRange) ([]models.AssessmentRecord, error)
	FetchClients(ctx context.Context) ([]models.ClientRecord, error)
	FetchCounselors(ctx context.Context) ([]models.CounselorRecord, error)
}

// Ensure Client implements the interface
var _ RecordSource = (*Client)(nil)
