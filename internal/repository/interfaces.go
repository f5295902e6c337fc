package repository

import (
	"context"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/recordstore"
)

// RecordRepository is a record source backed by a local database that can
// also be written to, for seeding and tests.
type RecordRepository interface {
	recordstore.RecordSource
	InsertCounselor(ctx context.Context, c models.CounselorRecord) error
	InsertClient(ctx context.Context, c models.ClientRecord) error
	InsertAssessment(ctx context.Context, rec models.AssessmentRecord) error
	InsertAssessmentBatch(ctx context.Context, recs []models.AssessmentRecord) error
	Ping(ctx context.Context) error
}
