package recordstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

// flexInt accepts a JSON number, a numeric string or null. Fractions and
// values outside the int32 range are treated as missing.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	*f = flexInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var s string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	} else {
		s = string(b)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return nil
	}
	f.Value, f.Valid = int(n), true
	return nil
}

// flexString accepts a JSON string, a number or null.
type flexString struct {
	Value string
	Valid bool
}

func (f *flexString) UnmarshalJSON(b []byte) error {
	*f = flexString{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		if err := json.Unmarshal(b, &f.Value); err != nil {
			return nil
		}
	} else {
		f.Value = string(b)
	}
	f.Value = strings.TrimSpace(f.Value)
	f.Valid = f.Value != ""
	return nil
}

func (f flexString) ptr() *string {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

type wireTestResult struct {
	ID                 flexString              `json:"id"`
	CreatedAt          string                  `json:"created_at"`
	Aborted            bool                    `json:"aborted"`
	AbortedAtQuestion  flexInt                 `json:"aborted_at_question"`
	CompletedQuestions flexInt                 `json:"completed_questions"`
	RiskLevel          string                  `json:"risk_level"`
	PrimaryConcern     string                  `json:"primary_concern"`
	ProfessionalScores *wireProfessionalScores `json:"professional_scores"`
	TrackingData       *wireTracking           `json:"tracking_data"`
	City               string                  `json:"city"`
	Country            string                  `json:"country"`
	DeviceType         string                  `json:"device_type"`
	CounselorID        flexString              `json:"counselor_id"`
	ClientID           flexString              `json:"client_id"`
}

type wireProfessionalScores struct {
	RiskLevel          string          `json:"riskLevel"`
	PrimaryConcern     string          `json:"primaryConcern"`
	Gambling           *float64        `json:"gambling"`
	Alcohol            *float64        `json:"alcohol"`
	Substances         *float64        `json:"substances"`
	Shopping           *float64        `json:"shopping"`
	Digital            *float64        `json:"digital"`
	AddictionDirection json.RawMessage `json:"addictionDirection"`
}

type wireTracking struct {
	GeoData *struct {
		City    string `json:"city"`
		Country string `json:"country"`
	} `json:"geo_data"`
	DeviceType string `json:"device_type"`
}

type wireClient struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Status      string     `json:"status"`
	CounselorID flexString `json:"counselor_id"`
	CreatedAt   string     `json:"created_at"`
}

type wireCounselor struct {
	ID            flexString `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	LicenseNumber string     `json:"license_number"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     string     `json:"created_at"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05",
}

// parseTimestamp returns the zero time for missing or unparseable values.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// parseAssessment validates one raw test_results row.
func parseAssessment(raw json.RawMessage) (models.AssessmentRecord, error) {
	var w wireTestResult
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.AssessmentRecord{}, fmt.Errorf("decode test result: %w", err)
	}
	if !w.ID.Valid {
		return models.AssessmentRecord{}, fmt.Errorf("test result without id")
	}

	rec := models.AssessmentRecord{
		ID:          w.ID.Value,
		CreatedAt:   parseTimestamp(w.CreatedAt),
		Aborted:     w.Aborted,
		CounselorID: w.CounselorID.ptr(),
		ClientID:    w.ClientID.ptr(),
	}
	if w.CompletedQuestions.Valid {
		rec.CompletedQuestions = int(clamp(float64(w.CompletedQuestions.Value), 0, models.TotalQuestions))
	}
	if w.Aborted && w.AbortedAtQuestion.Valid {
		q := w.AbortedAtQuestion.Value
		rec.AbortedAtQuestion = &q
	}

	var ps wireProfessionalScores
	if w.ProfessionalScores != nil {
		ps = *w.ProfessionalScores
	}
	rec.RiskLevel = firstNonEmpty(w.RiskLevel, ps.RiskLevel)
	rec.PrimaryConcern = firstNonEmpty(w.PrimaryConcern, ps.PrimaryConcern)
	rec.CategoryScores = categoryScores(ps)
	if len(ps.AddictionDirection) > 0 && string(ps.AddictionDirection) != "null" {
		var dir models.AddictionDirection
		// A malformed block is dropped; the rest of the record stays usable.
		if err := json.Unmarshal(ps.AddictionDirection, &dir); err == nil {
			rec.AddictionDirection = &dir
		}
	}

	tracking := models.TrackingData{
		City:       w.City,
		Country:    w.Country,
		DeviceType: w.DeviceType,
	}
	if w.TrackingData != nil {
		if w.TrackingData.GeoData != nil {
			tracking.City = firstNonEmpty(w.TrackingData.GeoData.City, w.City)
			tracking.Country = firstNonEmpty(w.TrackingData.GeoData.Country, w.Country)
		}
		tracking.DeviceType = firstNonEmpty(w.TrackingData.DeviceType, w.DeviceType)
	}
	tracking.City = strings.TrimSpace(tracking.City)
	tracking.Country = strings.TrimSpace(tracking.Country)
	tracking.DeviceType = strings.TrimSpace(tracking.DeviceType)
	if tracking != (models.TrackingData{}) {
		rec.Tracking = &tracking
	}

	return rec, nil
}

func categoryScores(ps wireProfessionalScores) map[string]float64 {
	scores := map[string]*float64{
		"gambling":   ps.Gambling,
		"alcohol":    ps.Alcohol,
		"substances": ps.Substances,
		"shopping":   ps.Shopping,
		"digital":    ps.Digital,
	}
	out := make(map[string]float64)
	for name, v := range scores {
		if v != nil {
			out[name] = clamp(*v, 0, 100)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseClient(raw json.RawMessage) (models.ClientRecord, error) {
	var w wireClient
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.ClientRecord{}, fmt.Errorf("decode client: %w", err)
	}
	if !w.ID.Valid {
		return models.ClientRecord{}, fmt.Errorf("client without id")
	}
	return models.ClientRecord{
		ID:          w.ID.Value,
		Name:        w.Name,
		Email:       w.Email,
		Phone:       w.Phone,
		Status:      w.Status,
		CounselorID: w.CounselorID.ptr(),
		CreatedAt:   parseTimestamp(w.CreatedAt),
	}, nil
}

func parseCounselor(raw json.RawMessage) (models.CounselorRecord, error) {
	var w wireCounselor
	if err := json.Unmarshal(raw, &w); err != nil {
		return models.CounselorRecord{}, fmt.Errorf("decode counselor: %w", err)
	}
	if !w.ID.Valid {
		return models.CounselorRecord{}, fmt.Errorf("counselor without id")
	}
	return models.CounselorRecord{
		ID:            w.ID.Value,
		Name:          w.Name,
		Email:         w.Email,
		Role:          w.Role,
		LicenseNumber: w.LicenseNumber,
		IsActive:      w.IsActive,
		CreatedAt:     parseTimestamp(w.CreatedAt),
	}, nil
}
