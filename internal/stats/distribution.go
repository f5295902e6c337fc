package stats

import (
	"math"
	"sort"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

// UnknownCity is the key used for records without a tracked city.
const UnknownCity = "Unbekannt"

// UnknownDevice is the key used for records without a tracked device type.
const UnknownDevice = "Unknown"

type distributionConfig struct {
	exclude func(key string) bool
	limit   int
}

// DistributionOption tunes a single Distribute call.
type DistributionOption func(*distributionConfig)

// Excluding drops every key for which pred returns true. Excluded items
// still count towards the percentage denominator.
func Excluding(pred func(key string) bool) DistributionOption {
	return func(c *distributionConfig) {
		c.exclude = pred
	}
}

// TopN ranks keys by count descending and keeps the first n. Keys with
// equal counts keep their first-seen order.
func TopN(n int) DistributionOption {
	return func(c *distributionConfig) {
		c.limit = n
	}
}

// Distribute groups items by key in a single pass. Without TopN the result is
// in first-seen order.
func Distribute[T any](items []T, key func(T) string, opts ...DistributionOption) []models.DistributionStat {
	var cfg distributionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	index := make(map[string]int)
	out := make([]models.DistributionStat, 0)
	for _, item := range items {
		k := key(item)
		if cfg.exclude != nil && cfg.exclude(k) {
			continue
		}
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, models.DistributionStat{Label: k, Count: 1})
	}

	total := len(items)
	for i := range out {
		out[i].Percentage = Percentage(out[i].Count, total)
	}

	if cfg.limit > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Count > out[j].Count
		})
		if len(out) > cfg.limit {
			out = out[:cfg.limit]
		}
	}
	return out
}

// Percentage returns part/total as a percentage rounded to one decimal, or 0
// when total is not positive.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
