package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/repository"
	"github.com/PDG1999/tool-dashboard-samebi/internal/repository/sqlite"
	"github.com/PDG1999/tool-dashboard-samebi/internal/testutil"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type RecordRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.RecordRepository
}

func (s *RecordRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewRecordRepositoryWithClock(s.db, func() time.Time { return fixedNow })
}

func (s *RecordRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func (s *RecordRepositorySuite) TestInsertAndFetchAssessment() {
	ctx := context.Background()

	rec := models.AssessmentRecord{
		ID:                 "t-1",
		CreatedAt:          fixedNow.Add(-time.Hour),
		Aborted:            true,
		AbortedAtQuestion:  intPtr(12),
		CompletedQuestions: 11,
		RiskLevel:          "Kritisch",
		PrimaryConcern:     "Alkohol",
		CategoryScores:     map[string]float64{"alcohol": 87.5},
		AddictionDirection: &models.AddictionDirection{
			Primary: &models.DirectionIndicator{Type: "alcohol", Confidence: 0.9},
		},
		Tracking:    &models.TrackingData{City: "Zürich", Country: "CH", DeviceType: "mobile"},
		CounselorID: strPtr("b-1"),
	}
	s.Require().NoError(s.repo.InsertAssessment(ctx, rec))

	records, err := s.repo.FetchAssessmentRecords(ctx, models.RangeAllTime)
	s.Require().NoError(err)
	s.Require().Len(records, 1)

	got := records[0]
	s.Assert().Equal("t-1", got.ID)
	s.Assert().True(got.CreatedAt.Equal(rec.CreatedAt))
	s.Assert().True(got.Aborted)
	s.Require().NotNil(got.AbortedAtQuestion)
	s.Assert().Equal(12, *got.AbortedAtQuestion)
	s.Assert().Equal(11, got.CompletedQuestions)
	s.Assert().Equal("Kritisch", got.RiskLevel)
	s.Assert().Equal(map[string]float64{"alcohol": 87.5}, got.CategoryScores)
	s.Require().NotNil(got.AddictionDirection)
	s.Assert().Equal("alcohol", got.AddictionDirection.Primary.Type)
	s.Assert().Equal("Zürich", got.City())
	s.Assert().Equal("mobile", got.DeviceType())
	s.Assert().Equal("b-1", *got.CounselorID)
	s.Assert().Nil(got.ClientID)
	s.Assert().True(got.Anonymous())
}

func (s *RecordRepositorySuite) TestFetchAssessmentRecords_RangeAndOrder() {
	ctx := context.Background()

	recs := []models.AssessmentRecord{
		{ID: "old", CreatedAt: fixedNow.AddDate(0, 0, -40)},
		{ID: "week", CreatedAt: fixedNow.AddDate(0, 0, -6)},
		{ID: "today", CreatedAt: fixedNow.Add(-time.Minute)},
		{ID: "month", CreatedAt: fixedNow.AddDate(0, 0, -20)},
	}
	s.Require().NoError(s.repo.InsertAssessmentBatch(ctx, recs))

	cases := []struct {
		tr   models.TimeRange
		want []string
	}{
		{models.Range7Days, []string{"today", "week"}},
		{models.Range30Days, []string{"today", "week", "month"}},
		{models.RangeAllTime, []string{"today", "week", "month", "old"}},
	}
	for _, tc := range cases {
		records, err := s.repo.FetchAssessmentRecords(ctx, tc.tr)
		s.Require().NoError(err)

		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.ID
		}
		s.Assert().Equal(tc.want, ids, string(tc.tr))
	}
}

func (s *RecordRepositorySuite) TestAbortQuestionDroppedForCompleted() {
	ctx := context.Background()

	s.Require().NoError(s.repo.InsertAssessment(ctx, models.AssessmentRecord{
		ID:                 "done",
		CreatedAt:          fixedNow,
		AbortedAtQuestion:  intPtr(3),
		CompletedQuestions: models.TotalQuestions,
	}))

	records, err := s.repo.FetchAssessmentRecords(ctx, models.RangeAllTime)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Assert().Nil(records[0].AbortedAtQuestion)
	s.Assert().Nil(records[0].Tracking)
	s.Assert().Nil(records[0].CategoryScores)
}

func (s *RecordRepositorySuite) TestInsertBatch_RollsBackOnDuplicate() {
	ctx := context.Background()

	err := s.repo.InsertAssessmentBatch(ctx, []models.AssessmentRecord{
		{ID: "dup", CreatedAt: fixedNow},
		{ID: "dup", CreatedAt: fixedNow},
	})
	s.Require().Error(err)

	records, err := s.repo.FetchAssessmentRecords(ctx, models.RangeAllTime)
	s.Require().NoError(err)
	s.Assert().Empty(records)
}

func (s *RecordRepositorySuite) TestCounselorsAndClients() {
	ctx := context.Background()

	s.Require().NoError(s.repo.InsertCounselor(ctx, models.CounselorRecord{
		ID: "b-1", Name: "Mia", Email: "mia@example.org", Role: "supervisor", IsActive: true, CreatedAt: fixedNow.Add(-2 * time.Hour),
	}))
	s.Require().NoError(s.repo.InsertCounselor(ctx, models.CounselorRecord{
		ID: "b-2", Name: "Jon", CreatedAt: fixedNow.Add(-time.Hour),
	}))
	s.Require().NoError(s.repo.InsertClient(ctx, models.ClientRecord{
		ID: "c-1", Name: "Lea", CounselorID: strPtr("b-1"),
	}))

	counselors, err := s.repo.FetchCounselors(ctx)
	s.Require().NoError(err)
	s.Require().Len(counselors, 2)
	s.Assert().Equal("b-2", counselors[0].ID)
	s.Assert().Equal("counselor", counselors[0].Role)
	s.Assert().False(counselors[0].IsActive)
	s.Assert().Equal("supervisor", counselors[1].Role)
	s.Assert().True(counselors[1].IsActive)

	clients, err := s.repo.FetchClients(ctx)
	s.Require().NoError(err)
	s.Require().Len(clients, 1)
	s.Assert().Equal("Lea", clients[0].Name)
	s.Require().NotNil(clients[0].CounselorID)
	s.Assert().Equal("b-1", *clients[0].CounselorID)
	s.Assert().True(clients[0].CreatedAt.Equal(fixedNow))
}

func (s *RecordRepositorySuite) TestInsertClient_UnknownCounselor() {
	err := s.repo.InsertClient(context.Background(), models.ClientRecord{
		ID: "c-9", Name: "Orphan", CounselorID: strPtr("missing"),
	})
	s.Assert().Error(err)
}

func (s *RecordRepositorySuite) TestEmptyStore() {
	ctx := context.Background()

	records, err := s.repo.FetchAssessmentRecords(ctx, models.Range30Days)
	s.Require().NoError(err)
	s.Assert().NotNil(records)
	s.Assert().Empty(records)

	s.Assert().NoError(s.repo.Ping(ctx))
}

func TestRecordRepositorySuite(t *testing.T) {
	suite.Run(t, new(RecordRepositorySuite))
}
