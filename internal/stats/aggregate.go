// Package stats turns a batch of assessment records into the figures shown
// on the supervisor dashboard. Everything here is pure and never fails on
// missing or malformed optional data.
package stats

import "github.com/PDG1999/tool-dashboard-samebi/internal/models"

// CityLimit is the number of cities in the geographic breakdown.
const CityLimit = 10

// Input is one materialised fetch from the record source.
type Input struct {
	Records    []models.AssessmentRecord
	Clients    []models.ClientRecord
	Counselors []models.CounselorRecord
}

type classified struct {
	record models.AssessmentRecord
	risk   string
}

// Aggregate builds a snapshot from in. Generation, time range and timestamp
// are left for the caller to fill in.
func Aggregate(in Input, policy AnonymousPolicy) models.StatsSnapshot {
	var snap models.StatsSnapshot

	records := make([]classified, 0, len(in.Records))
	for _, r := range in.Records {
		if r.Anonymous() {
			snap.AnonymousTests++
			if policy == AnonymousExclude {
				continue
			}
		}
		records = append(records, classified{record: r, risk: ClassifyRisk(r.RiskLevel)})
	}

	snap.TotalTests = len(records)
	for _, c := range records {
		if c.record.Aborted {
			snap.AbortedTests++
		} else {
			snap.CompletedTests++
		}
		switch c.risk {
		case models.RiskKritisch:
			snap.CriticalTests++
		case models.RiskHoch:
			snap.HighRiskTests++
		}
	}

	snap.RiskDistribution = Distribute(records, func(c classified) string {
		return c.risk
	})
	snap.DeviceDistribution = Distribute(records, func(c classified) string {
		if d := c.record.DeviceType(); d != "" {
			return d
		}
		return UnknownDevice
	})
	snap.CityDistribution = Distribute(records, func(c classified) string {
		if city := c.record.City(); city != "" {
			return city
		}
		return UnknownCity
	}, Excluding(func(key string) bool { return key == UnknownCity }), TopN(CityLimit))

	if policy == AnonymousSeparate {
		snap.SourceDistribution = Distribute(records, func(c classified) string {
			if c.record.Anonymous() {
				return SourceAnonymous
			}
			return SourceAssigned
		})
	}

	plain := make([]models.AssessmentRecord, len(records))
	for i, c := range records {
		plain[i] = c.record
	}
	snap.CriticalQuestions = AbortHotspots(plain, DefaultHotspotLimit)

	rates := ComputeCompletion(snap.TotalTests, snap.CompletedTests, snap.AbortedTests, snap.CriticalTests)
	snap.CompletionRate = rates.CompletionRate
	snap.AbortRate = rates.AbortRate
	snap.CriticalShare = rates.CriticalShare

	snap.TotalClients = len(in.Clients)
	snap.TotalCounselors = len(in.Counselors)
	for _, c := range in.Counselors {
		if c.IsActive {
			snap.ActiveCounselors++
		}
	}
	snap.Counselors = CounselorRollups(in.Counselors, in.Clients, in.Records)

	return snap
}
