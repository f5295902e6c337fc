package stats_test

import (
	"fmt"
	"testing"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAggregate_EmptyInput(t *testing.T) {
	snap := stats.Aggregate(stats.Input{}, stats.AnonymousInclude)

	assert.Equal(t, 0, snap.TotalTests)
	assert.Equal(t, 0, snap.CompletedTests)
	assert.Equal(t, 0, snap.AbortedTests)
	assert.Empty(t, snap.RiskDistribution)
	assert.Empty(t, snap.DeviceDistribution)
	assert.Empty(t, snap.CityDistribution)
	assert.Empty(t, snap.CriticalQuestions)
	assert.Equal(t, 0.0, snap.CompletionRate)
	assert.Equal(t, 0.0, snap.AbortRate)
	assert.Equal(t, 0.0, snap.CriticalShare)
	assert.Equal(t, 0, snap.TotalClients)
}

func TestAggregate_MixedCaseScenario(t *testing.T) {
	records := []models.AssessmentRecord{
		{ID: "1", Aborted: false, RiskLevel: "niedrig"},
		{ID: "2", Aborted: true, RiskLevel: "Kritisch", AbortedAtQuestion: intPtr(12)},
		{ID: "3", Aborted: true, RiskLevel: "HOCH", AbortedAtQuestion: intPtr(12)},
	}

	snap := stats.Aggregate(stats.Input{Records: records}, stats.AnonymousInclude)

	assert.Equal(t, 3, snap.TotalTests)
	assert.Equal(t, 1, snap.CompletedTests)
	assert.Equal(t, 2, snap.AbortedTests)
	assert.Equal(t, 1, snap.CriticalTests)
	assert.Equal(t, 1, snap.HighRiskTests)
	assert.Equal(t, 66.7, snap.AbortRate)
	assert.Equal(t, 33.3, snap.CompletionRate)
	assert.Equal(t, 33.3, snap.CriticalShare)
	assert.Equal(t, []models.DistributionStat{
		{Label: models.RiskNiedrig, Count: 1, Percentage: 33.3},
		{Label: models.RiskKritisch, Count: 1, Percentage: 33.3},
		{Label: models.RiskHoch, Count: 1, Percentage: 33.3},
	}, snap.RiskDistribution)
	assert.Equal(t, []models.AbortHotspot{{QuestionNumber: 12, Count: 2}}, snap.CriticalQuestions)
}

func TestAggregate_DeviceAndCityDefaults(t *testing.T) {
	records := []models.AssessmentRecord{
		{ID: "1", Tracking: &models.TrackingData{City: "Zürich", DeviceType: "mobile"}},
		{ID: "2", Tracking: &models.TrackingData{DeviceType: "desktop"}},
		{ID: "3"},
		{ID: "4", Tracking: &models.TrackingData{City: "Unbekannt"}},
	}

	snap := stats.Aggregate(stats.Input{Records: records}, stats.AnonymousInclude)

	assert.Equal(t, []models.DistributionStat{
		{Label: "mobile", Count: 1, Percentage: 25},
		{Label: "desktop", Count: 1, Percentage: 25},
		{Label: stats.UnknownDevice, Count: 2, Percentage: 50},
	}, snap.DeviceDistribution)
	assert.Equal(t, []models.DistributionStat{
		{Label: "Zürich", Count: 1, Percentage: 25},
	}, snap.CityDistribution)
}

func TestAggregate_CityTopTen(t *testing.T) {
	var records []models.AssessmentRecord
	for i := 0; i < 14; i++ {
		// city-i appears i+1 times
		for j := 0; j <= i; j++ {
			records = append(records, models.AssessmentRecord{
				ID:       fmt.Sprintf("%d-%d", i, j),
				Tracking: &models.TrackingData{City: fmt.Sprintf("city-%02d", i)},
			})
		}
	}

	snap := stats.Aggregate(stats.Input{Records: records}, stats.AnonymousInclude)

	require.Len(t, snap.CityDistribution, stats.CityLimit)
	assert.Equal(t, "city-13", snap.CityDistribution[0].Label)
	assert.Equal(t, "city-04", snap.CityDistribution[9].Label)
	for i := 1; i < len(snap.CityDistribution); i++ {
		assert.GreaterOrEqual(t, snap.CityDistribution[i-1].Count, snap.CityDistribution[i].Count)
	}
}

func TestAggregate_Invariants(t *testing.T) {
	levels := []string{"niedrig", "", "Mittel", "HOCH", "kritisch", "??"}
	devices := []string{"mobile", "", "desktop"}
	cities := []string{"Bern", "", "Basel", "Luzern"}

	var records []models.AssessmentRecord
	for i := 0; i < 61; i++ {
		r := models.AssessmentRecord{
			ID:        fmt.Sprint(i),
			RiskLevel: levels[i%len(levels)],
			Aborted:   i%3 == 0,
			Tracking:  &models.TrackingData{City: cities[i%len(cities)], DeviceType: devices[i%len(devices)]},
		}
		if r.Aborted && i%2 == 0 {
			r.AbortedAtQuestion = intPtr(i % 9)
		}
		records = append(records, r)
	}

	snap := stats.Aggregate(stats.Input{Records: records}, stats.AnonymousInclude)

	sum := 0
	for _, d := range snap.RiskDistribution {
		sum += d.Count
	}
	assert.Equal(t, snap.TotalTests, sum)
	assert.Equal(t, snap.TotalTests, snap.CompletedTests+snap.AbortedTests)

	all := append(append(append([]models.DistributionStat{}, snap.RiskDistribution...), snap.DeviceDistribution...), snap.CityDistribution...)
	for _, d := range all {
		assert.GreaterOrEqual(t, d.Percentage, 0.0)
		assert.LessOrEqual(t, d.Percentage, 100.0)
	}
	for _, c := range snap.CityDistribution {
		assert.NotEqual(t, stats.UnknownCity, c.Label)
	}
	assert.LessOrEqual(t, len(snap.CriticalQuestions), stats.DefaultHotspotLimit)
	for i := 1; i < len(snap.CriticalQuestions); i++ {
		assert.GreaterOrEqual(t, snap.CriticalQuestions[i-1].Count, snap.CriticalQuestions[i].Count)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	records := []models.AssessmentRecord{
		{ID: "1", RiskLevel: "hoch", Aborted: true, AbortedAtQuestion: intPtr(3), Tracking: &models.TrackingData{City: "Wien"}},
		{ID: "2", RiskLevel: "mittel", Tracking: &models.TrackingData{City: "Graz", DeviceType: "tablet"}},
		{ID: "3", RiskLevel: "hoch", Aborted: true, AbortedAtQuestion: intPtr(8)},
		{ID: "4", RiskLevel: "niedrig", Aborted: true, AbortedAtQuestion: intPtr(3)},
	}
	in := stats.Input{Records: records}

	first := stats.Aggregate(in, stats.AnonymousSeparate)
	second := stats.Aggregate(in, stats.AnonymousSeparate)

	assert.Equal(t, first, second)
}

func TestAggregate_AnonymousPolicies(t *testing.T) {
	records := []models.AssessmentRecord{
		{ID: "1", ClientID: strPtr("c1"), RiskLevel: "hoch"},
		{ID: "2", RiskLevel: "kritisch", Aborted: true},
		{ID: "3", ClientID: strPtr(""), RiskLevel: "niedrig"},
	}
	in := stats.Input{Records: records}

	t.Run("include", func(t *testing.T) {
		snap := stats.Aggregate(in, stats.AnonymousInclude)
		assert.Equal(t, 3, snap.TotalTests)
		assert.Equal(t, 2, snap.AnonymousTests)
		assert.Nil(t, snap.SourceDistribution)
	})

	t.Run("exclude", func(t *testing.T) {
		snap := stats.Aggregate(in, stats.AnonymousExclude)
		assert.Equal(t, 1, snap.TotalTests)
		assert.Equal(t, 2, snap.AnonymousTests)
		assert.Equal(t, 0, snap.CriticalTests)
		assert.Equal(t, 100.0, snap.CompletionRate)
	})

	t.Run("separate", func(t *testing.T) {
		snap := stats.Aggregate(in, stats.AnonymousSeparate)
		assert.Equal(t, 3, snap.TotalTests)
		assert.Equal(t, []models.DistributionStat{
			{Label: stats.SourceAssigned, Count: 1, Percentage: 33.3},
			{Label: stats.SourceAnonymous, Count: 2, Percentage: 66.7},
		}, snap.SourceDistribution)
	})
}

func TestAggregate_CounselorRollup(t *testing.T) {
	in := stats.Input{
		Records: []models.AssessmentRecord{
			{ID: "t1", CounselorID: strPtr("b")},
			{ID: "t2", CounselorID: strPtr("b")},
			{ID: "t3", CounselorID: strPtr("a")},
			{ID: "t4"},
		},
		Clients: []models.ClientRecord{
			{ID: "c1", CounselorID: strPtr("a")},
			{ID: "c2", CounselorID: strPtr("a")},
			{ID: "c3"},
		},
		Counselors: []models.CounselorRecord{
			{ID: "a", Name: "Anna", IsActive: true, Role: "counselor"},
			{ID: "b", Name: "Ben", IsActive: false, Role: "supervisor"},
			{ID: "c", Name: "Cem", IsActive: true},
		},
	}

	snap := stats.Aggregate(in, stats.AnonymousInclude)

	assert.Equal(t, 3, snap.TotalClients)
	assert.Equal(t, 3, snap.TotalCounselors)
	assert.Equal(t, 2, snap.ActiveCounselors)
	require.Len(t, snap.Counselors, 3)
	assert.Equal(t, "Anna", snap.Counselors[0].Name)
	assert.Equal(t, 2, snap.Counselors[0].ClientCount)
	assert.Equal(t, 1, snap.Counselors[0].TestCount)
	assert.Equal(t, 2, snap.Counselors[1].TestCount)
	assert.Equal(t, 0, snap.Counselors[2].ClientCount)
}
