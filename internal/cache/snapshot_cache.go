package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a cached snapshot may be served.
const DefaultTTL = 60 * time.Second

// SnapshotCache stores finished snapshots per time range and anonymous policy.
type SnapshotCache interface {
	Get(ctx context.Context, tr models.TimeRange, policy string) (*models.StatsSnapshot, error)
	Set(ctx context.Context, policy string, snap *models.StatsSnapshot) error
}

type snapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache creates a redis backed snapshot cache. A non-positive ttl
// falls back to DefaultTTL.
func NewSnapshotCache(client *redis.Client, ttl time.Duration) SnapshotCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &snapshotCache{client: client, ttl: ttl}
}

// Key returns the redis key for a time range and policy.
func Key(tr models.TimeRange, policy string) string {
	return fmt.Sprintf("stats:snapshot:%s:%s", tr, policy)
}

// Get returns nil, nil on a miss.
func (c *snapshotCache) Get(ctx context.Context, tr models.TimeRange, policy string) (*models.StatsSnapshot, error) {
	data, err := c.client.Get(ctx, Key(tr, policy)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap models.StatsSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *snapshotCache) Set(ctx context.Context, policy string, snap *models.StatsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(snap.TimeRange, policy), data, c.ttl).Err()
}
