package stats

import (
	"sort"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

// DefaultHotspotLimit is how many abort hotspots the supervisor view shows.
const DefaultHotspotLimit = 5

// AbortHotspots counts at which question aborted checks stopped and returns the
// limit most frequent ones. Equal counts are ordered by ascending question
// number. Question numbers outside 1..TotalQuestions are counted as they are.
func AbortHotspots(records []models.AssessmentRecord, limit int) []models.AbortHotspot {
	counts := make(map[int]int)
	for _, r := range records {
		if !r.Aborted || r.AbortedAtQuestion == nil {
			continue
		}
		counts[*r.AbortedAtQuestion]++
	}

	out := make([]models.AbortHotspot, 0, len(counts))
	for q, n := range counts {
		out = append(out, models.AbortHotspot{QuestionNumber: q, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].QuestionNumber < out[j].QuestionNumber
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
