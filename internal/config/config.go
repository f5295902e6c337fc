package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/stats"
)

// Record source backends.
const (
	SourcePostgREST = "postgrest"
	SourceSQLite    = "sqlite"
)

type Config struct {
	Addr               string
	LogLevel           string
	RecordSource       string
	RecordStoreURL     string
	RecordStoreToken   string
	RecordStoreTimeout time.Duration
	DBPath             string
	DefaultTimeRange   string
	AnonymousPolicy    string
	RedisAddr          string
	SnapshotCacheTTL   time.Duration
	RefreshWorkerCount int
	RefreshQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		RecordSource:       envOr("RECORD_SOURCE", SourcePostgREST),
		RecordStoreURL:     envOr("RECORD_STORE_URL", "http://localhost:3000"),
		RecordStoreToken:   os.Getenv("RECORD_STORE_TOKEN"),
		RecordStoreTimeout: time.Duration(envIntOr("RECORD_STORE_TIMEOUT", 15)) * time.Second,
		DBPath:             envOr("DB_PATH", "file:lbcheck.db"),
		DefaultTimeRange:   envOr("DEFAULT_TIME_RANGE", string(models.Range30Days)),
		AnonymousPolicy:    envOr("ANONYMOUS_POLICY", string(stats.AnonymousInclude)),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		SnapshotCacheTTL:   time.Duration(envIntOr("SNAPSHOT_CACHE_TTL", 60)) * time.Second,
		RefreshWorkerCount: envIntOr("REFRESH_WORKER_COUNT", 2),
		RefreshQueueSize:   envIntOr("REFRESH_QUEUE_SIZE", 16),
	}
}

// Validate returns the first configuration problem found.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	switch c.RecordSource {
	case SourcePostgREST:
		if c.RecordStoreURL == "" {
			return fmt.Errorf("RECORD_STORE_URL cannot be empty when RECORD_SOURCE=%s", SourcePostgREST)
		}
	case SourceSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty when RECORD_SOURCE=%s", SourceSQLite)
		}
	default:
		return fmt.Errorf("RECORD_SOURCE must be %q or %q, got %q", SourcePostgREST, SourceSQLite, c.RecordSource)
	}
	if c.RecordStoreTimeout <= 0 {
		return fmt.Errorf("RECORD_STORE_TIMEOUT must be positive")
	}
	if _, err := models.ParseTimeRange(c.DefaultTimeRange, ""); err != nil {
		return fmt.Errorf("DEFAULT_TIME_RANGE: %w", err)
	}
	if _, err := stats.ParseAnonymousPolicy(c.AnonymousPolicy); err != nil {
		return fmt.Errorf("ANONYMOUS_POLICY: %w", err)
	}
	if c.SnapshotCacheTTL < 0 {
		return fmt.Errorf("SNAPSHOT_CACHE_TTL cannot be negative")
	}
	if c.RefreshWorkerCount <= 0 {
		return fmt.Errorf("REFRESH_WORKER_COUNT must be positive")
	}
	if c.RefreshQueueSize <= 0 {
		return fmt.Errorf("REFRESH_QUEUE_SIZE must be positive")
	}
	return nil
}

// TimeRange returns the validated default time range.
func (c Config) TimeRange() models.TimeRange {
	tr, err := models.ParseTimeRange(c.DefaultTimeRange, models.Range30Days)
	if err != nil {
		return models.Range30Days
	}
	return tr
}

// Policy returns the validated anonymous-submission policy.
func (c Config) Policy() stats.AnonymousPolicy {
	p, err := stats.ParseAnonymousPolicy(c.AnonymousPolicy)
	if err != nil {
		return stats.AnonymousInclude
	}
	return p
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
