package stats

import (
	"strings"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

var riskLevels = map[string]string{
	"niedrig":  models.RiskNiedrig,
	"mittel":   models.RiskMittel,
	"hoch":     models.RiskHoch,
	"kritisch": models.RiskKritisch,
}

// ClassifyRisk maps a raw upstream risk label onto one of the canonical
// buckets. Anything unrecognised, including the empty string, is Unbekannt.
func ClassifyRisk(raw string) string {
	if level, ok := riskLevels[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return level
	}
	return models.RiskUnbekannt
}
