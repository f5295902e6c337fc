package models

import "time"

type ClientRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Status      string    `json:"status,omitempty"`
	CounselorID *string   `json:"counselor_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CounselorRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	LicenseNumber string    `json:"license_number,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// CounselorRollup is the per-counselor row of the supervisor overview.
type CounselorRollup struct {
	CounselorID   string `json:"counselor_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	LicenseNumber string `json:"license_number,omitempty"`
	IsActive      bool   `json:"is_active"`
	ClientCount   int    `json:"client_count"`
	TestCount     int    `json:"test_count"`
}
