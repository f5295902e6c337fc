package models

import "time"

// TotalQuestions is the number of questions in one life-balance check.
const TotalQuestions = 40

// AssessmentRecord is one completed or abandoned life-balance check submission,
// already parsed from the record source.
type AssessmentRecord struct {
	ID                 string              `json:"id"`
	CreatedAt          time.Time           `json:"created_at"`
	Aborted            bool                `json:"aborted"`
	AbortedAtQuestion  *int                `json:"aborted_at_question,omitempty"`
	CompletedQuestions int                 `json:"completed_questions"`
	RiskLevel          string              `json:"risk_level"`
	PrimaryConcern     string              `json:"primary_concern"`
	CategoryScores     map[string]float64  `json:"category_scores,omitempty"`
	AddictionDirection *AddictionDirection `json:"addiction_direction,omitempty"`
	Tracking           *TrackingData       `json:"tracking_data,omitempty"`
	CounselorID        *string             `json:"counselor_id,omitempty"`
	ClientID           *string             `json:"client_id,omitempty"`
}

// Anonymous reports whether the submission is not assigned to a client.
func (r AssessmentRecord) Anonymous() bool {
	return r.ClientID == nil || *r.ClientID == ""
}

// City returns the tracked city or "" when unknown.
func (r AssessmentRecord) City() string {
	if r.Tracking == nil {
		return ""
	}
	return r.Tracking.City
}

// DeviceType returns the tracked device type or "" when unknown.
func (r AssessmentRecord) DeviceType() string {
	if r.Tracking == nil {
		return ""
	}
	return r.Tracking.DeviceType
}

type TrackingData struct {
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
}

// AddictionDirection is computed upstream and passed through untouched.
type AddictionDirection struct {
	Primary   *DirectionIndicator `json:"primary,omitempty"`
	Secondary *DirectionIndicator `json:"secondary,omitempty"`
	Patterns  *DirectionPatterns  `json:"patterns,omitempty"`
}

type DirectionIndicator struct {
	Type       string   `json:"type"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators,omitempty"`
}

type DirectionPatterns struct {
	Polyaddiction   bool    `json:"polyaddiction"`
	SubstanceBased  float64 `json:"substanceBased"`
	BehavioralBased float64 `json:"behavioralBased"`
}
