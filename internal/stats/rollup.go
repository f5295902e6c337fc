package stats

import "github.com/PDG1999/tool-dashboard-samebi/internal/models"

// CounselorRollups builds one row per counselor, in the order the counselors
// were fetched, with the number of clients and checks assigned to each.
func CounselorRollups(counselors []models.CounselorRecord, clients []models.ClientRecord, records []models.AssessmentRecord) []models.CounselorRollup {
	clientCounts := make(map[string]int)
	for _, c := range clients {
		if c.CounselorID != nil {
			clientCounts[*c.CounselorID]++
		}
	}
	testCounts := make(map[string]int)
	for _, r := range records {
		if r.CounselorID != nil {
			testCounts[*r.CounselorID]++
		}
	}

	out := make([]models.CounselorRollup, 0, len(counselors))
	for _, c := range counselors {
		out = append(out, models.CounselorRollup{
			CounselorID:   c.ID,
			Name:          c.Name,
			Email:         c.Email,
			Role:          c.Role,
			LicenseNumber: c.LicenseNumber,
			IsActive:      c.IsActive,
			ClientCount:   clientCounts[c.ID],
			TestCount:     testCounts[c.ID],
		})
	}
	return out
}
