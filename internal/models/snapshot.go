package models

import "time"

// Canonical risk buckets.
const (
	RiskNiedrig   = "Niedrig"
	RiskMittel    = "Mittel"
	RiskHoch      = "Hoch"
	RiskKritisch  = "Kritisch"
	RiskUnbekannt = "Unbekannt"
)

type DistributionStat struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type AbortHotspot struct {
	QuestionNumber int `json:"question_number"`
	Count          int `json:"count"`
}

// StatsSnapshot is the result of one aggregation run. It is never mutated
// after it has been handed out.
type StatsSnapshot struct {
	Generation  uint64    `json:"generation"`
	TimeRange   TimeRange `json:"time_range"`
	GeneratedAt time.Time `json:"generated_at"`

	TotalTests     int `json:"total_tests"`
	CompletedTests int `json:"completed_tests"`
	AbortedTests   int `json:"aborted_tests"`
	CriticalTests  int `json:"critical_tests"`
	HighRiskTests  int `json:"high_risk_tests"`
	AnonymousTests int `json:"anonymous_tests"`

	TotalClients     int `json:"total_clients"`
	TotalCounselors  int `json:"total_counselors"`
	ActiveCounselors int `json:"active_counselors"`

	CompletionRate float64 `json:"completion_rate"`
	AbortRate      float64 `json:"abort_rate"`
	CriticalShare  float64 `json:"critical_share"`

	RiskDistribution   []DistributionStat `json:"risk_distribution"`
	DeviceDistribution []DistributionStat `json:"device_distribution"`
	CityDistribution   []DistributionStat `json:"city_distribution"`
	SourceDistribution []DistributionStat `json:"source_distribution,omitempty"`
	CriticalQuestions  []AbortHotspot     `json:"critical_questions"`

	Counselors []CounselorRollup `json:"counselors"`
	Degraded   []string          `json:"degraded,omitempty"`
}
