package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var testResultColumns = []string{
	"id", "created_at", "aborted", "aborted_at_question", "completed_questions",
	"risk_level", "primary_concern", "category_scores", "addiction_direction",
	"city", "country", "device_type", "counselor_id", "client_id",
}

type recordRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRecordRepository creates a RecordRepository over db.
func NewRecordRepository(db *sql.DB) repository.RecordRepository {
	return &recordRepository{db: db, now: time.Now}
}

// NewRecordRepositoryWithClock is NewRecordRepository with a fixed clock for
// time range cutoffs.
func NewRecordRepositoryWithClock(db *sql.DB, now func() time.Time) repository.RecordRepository {
	return &recordRepository{db: db, now: now}
}

func (r *recordRepository) FetchAssessmentRecords(ctx context.Context, tr models.TimeRange) ([]models.AssessmentRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo").WithField("time_range", tr)

	query := sqlBuilder.Select(testResultColumns...).From("test_results")
	if cutoff, ok := tr.Since(r.now()); ok {
		query = query.Where(squirrel.GtOrEq{"created_at": cutoff.UTC()})
	}
	query = query.OrderBy("created_at DESC", "id")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query test results: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []models.AssessmentRecord{}
	for rows.Next() {
		rec, err := scanAssessment(rows)
		if err != nil {
			log.Warn("skipping unreadable test result: %v", err)
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating test results: %v", err)
		return nil, err
	}

	log.Debug("loaded %d test results", len(records))
	return records, nil
}

func scanAssessment(rows *sql.Rows) (models.AssessmentRecord, error) {
	var (
		rec                   models.AssessmentRecord
		abortedAt             sql.NullInt64
		scores, direction     sql.NullString
		city, country, device string
		counselorID, clientID sql.NullString
	)
	if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Aborted, &abortedAt, &rec.CompletedQuestions,
		&rec.RiskLevel, &rec.PrimaryConcern, &scores, &direction,
		&city, &country, &device, &counselorID, &clientID); err != nil {
		return models.AssessmentRecord{}, err
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.CounselorID = stringPtr(counselorID)
	rec.ClientID = stringPtr(clientID)
	if rec.Aborted {
		rec.AbortedAtQuestion = intPtr(abortedAt)
	}
	if scores.Valid {
		if err := json.Unmarshal([]byte(scores.String), &rec.CategoryScores); err != nil {
			rec.CategoryScores = nil
		}
	}
	if direction.Valid {
		var dir models.AddictionDirection
		if err := json.Unmarshal([]byte(direction.String), &dir); err == nil {
			rec.AddictionDirection = &dir
		}
	}
	tracking := models.TrackingData{City: city, Country: country, DeviceType: device}
	if tracking != (models.TrackingData{}) {
		rec.Tracking = &tracking
	}
	return rec, nil
}

func (r *recordRepository) FetchClients(ctx context.Context) ([]models.ClientRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")

	sqlStr, args, err := sqlBuilder.
		Select("id", "name", "email", "phone", "status", "counselor_id", "created_at").
		From("clients").
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query clients: %v", err)
		return nil, err
	}
	defer rows.Close()

	clients := []models.ClientRecord{}
	for rows.Next() {
		var c models.ClientRecord
		var counselorID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status, &counselorID, &c.CreatedAt); err != nil {
			log.Warn("skipping unreadable client: %v", err)
			continue
		}
		c.CounselorID = stringPtr(counselorID)
		c.CreatedAt = c.CreatedAt.UTC()
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *recordRepository) FetchCounselors(ctx context.Context) ([]models.CounselorRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("record_repo")

	sqlStr, args, err := sqlBuilder.
		Select("id", "name", "email", "role", "license_number", "is_active", "created_at").
		From("counselors").
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query counselors: %v", err)
		return nil, err
	}
	defer rows.Close()

	counselors := []models.CounselorRecord{}
	for rows.Next() {
		var c models.CounselorRecord
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Role, &c.LicenseNumber, &c.IsActive, &c.CreatedAt); err != nil {
			log.Warn("skipping unreadable counselor: %v", err)
			continue
		}
		c.CreatedAt = c.CreatedAt.UTC()
		counselors = append(counselors, c)
	}
	return counselors, rows.Err()
}

func (r *recordRepository) InsertCounselor(ctx context.Context, c models.CounselorRecord) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("inserting counselor: id=%s", c.ID)

	role := c.Role
	if role == "" {
		role = "counselor"
	}
	sqlStr, args, err := sqlBuilder.Insert("counselors").
		Columns("id", "name", "email", "role", "license_number", "is_active", "created_at").
		Values(c.ID, c.Name, c.Email, role, c.LicenseNumber, c.IsActive, r.createdAt(c.CreatedAt)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		log.Error("failed to insert counselor: %v", err)
		return err
	}
	return nil
}

func (r *recordRepository) InsertClient(ctx context.Context, c models.ClientRecord) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	log.Debug("inserting client: id=%s", c.ID)

	sqlStr, args, err := sqlBuilder.Insert("clients").
		Columns("id", "name", "email", "phone", "status", "counselor_id", "created_at").
		Values(c.ID, c.Name, c.Email, c.Phone, c.Status, nullString(c.CounselorID), r.createdAt(c.CreatedAt)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		log.Error("failed to insert client: %v", err)
		return err
	}
	return nil
}

func (r *recordRepository) InsertAssessment(ctx context.Context, rec models.AssessmentRecord) error {
	return r.InsertAssessmentBatch(ctx, []models.AssessmentRecord{rec})
}

func (r *recordRepository) InsertAssessmentBatch(ctx context.Context, recs []models.AssessmentRecord) error {
	log := logger.FromContext(ctx).WithPrefix("record_repo")
	if len(recs) == 0 {
		log.Debug("no test results to insert")
		return nil
	}
	log.Debug("inserting batch of %d test results", len(recs))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, rec := range recs {
			sqlStr, args, err := r.insertAssessmentQuery(rec)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
				log.Error("failed to insert test result %s: %v", rec.ID, err)
				return err
			}
		}
		return nil
	})
}

func (r *recordRepository) insertAssessmentQuery(rec models.AssessmentRecord) (string, []any, error) {
	scores, err := jsonColumn(rec.CategoryScores, rec.CategoryScores == nil)
	if err != nil {
		return "", nil, err
	}
	direction, err := jsonColumn(rec.AddictionDirection, rec.AddictionDirection == nil)
	if err != nil {
		return "", nil, err
	}

	var tracking models.TrackingData
	if rec.Tracking != nil {
		tracking = *rec.Tracking
	}
	var abortedAt sql.NullInt64
	if rec.Aborted {
		abortedAt = nullInt(rec.AbortedAtQuestion)
	}

	return sqlBuilder.Insert("test_results").
		Columns(testResultColumns...).
		Values(rec.ID, r.createdAt(rec.CreatedAt), rec.Aborted, abortedAt, rec.CompletedQuestions,
			rec.RiskLevel, rec.PrimaryConcern, scores, direction,
			tracking.City, tracking.Country, tracking.DeviceType,
			nullString(rec.CounselorID), nullString(rec.ClientID)).
		ToSql()
}

func (r *recordRepository) createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return r.now().UTC()
	}
	return t.UTC()
}

func (r *recordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
