package models

import (
	"fmt"
	"time"
)

// TimeRange is the opaque scope token forwarded to the record source.
type TimeRange string

const (
	Range7Days   TimeRange = "7d"
	Range30Days  TimeRange = "30d"
	Range90Days  TimeRange = "90d"
	Range1Year   TimeRange = "1y"
	RangeAllTime TimeRange = "all"
)

var timeRangeWindows = map[TimeRange]time.Duration{
	Range7Days:  7 * 24 * time.Hour,
	Range30Days: 30 * 24 * time.Hour,
	Range90Days: 90 * 24 * time.Hour,
	Range1Year:  365 * 24 * time.Hour,
}

// ParseTimeRange validates a range token. An empty string yields def.
func ParseTimeRange(s string, def TimeRange) (TimeRange, error) {
	if s == "" {
		return def, nil
	}
	tr := TimeRange(s)
	if !tr.Valid() {
		return "", fmt.Errorf("unknown time range %q", s)
	}
	return tr, nil
}

func (tr TimeRange) Valid() bool {
	if tr == RangeAllTime {
		return true
	}
	_, ok := timeRangeWindows[tr]
	return ok
}

// Since returns the earliest created_at a record source should include.
// ok is false when the range is unbounded.
func (tr TimeRange) Since(now time.Time) (cutoff time.Time, ok bool) {
	window, found := timeRangeWindows[tr]
	if !found {
		return time.Time{}, false
	}
	return now.Add(-window), true
}

// Query identifies one snapshot request.
type Query struct {
	TimeRange  TimeRange
	Generation uint64
}
