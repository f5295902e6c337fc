// Package sources turns configuration into the record source and snapshot
// cache the server and the CLI run against.
package sources

import (
	"fmt"
	"net/http"

	"github.com/PDG1999/tool-dashboard-samebi/internal/cache"
	"github.com/PDG1999/tool-dashboard-samebi/internal/config"
	"github.com/PDG1999/tool-dashboard-samebi/internal/db"
	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/recordstore"
	"github.com/PDG1999/tool-dashboard-samebi/internal/repository"
	"github.com/PDG1999/tool-dashboard-samebi/internal/repository/sqlite"
	"github.com/redis/go-redis/v9"
)

// Opened is a ready record source. Repository is only set for the local
// sqlite store.
type Opened struct {
	Source     recordstore.RecordSource
	Repository repository.RecordRepository
	close      func() error
}

func (o *Opened) Close() error {
	if o.close == nil {
		return nil
	}
	return o.close()
}

// Open builds the record source selected by cfg.RecordSource.
func Open(cfg config.Config) (*Opened, error) {
	log := logger.Default().WithPrefix("sources").WithField("record_source", cfg.RecordSource)

	switch cfg.RecordSource {
	case config.SourcePostgREST:
		session, err := recordstore.NewSession(cfg.RecordStoreURL, cfg.RecordStoreToken)
		if err != nil {
			return nil, err
		}
		id := session.Identity()
		log.Info("using record store at %s (authenticated=%t, role=%s)", cfg.RecordStoreURL, session.Authenticated(), id.Role)
		client := recordstore.New(session, recordstore.WithHTTPClient(&http.Client{Timeout: cfg.RecordStoreTimeout}))
		return &Opened{Source: client}, nil

	case config.SourceSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		repo := sqlite.NewRecordRepository(database.DB)
		log.Info("using local record store %s", cfg.DBPath)
		return &Opened{Source: repo, Repository: repo, close: database.Close}, nil

	default:
		return nil, fmt.Errorf("unknown record source %q", cfg.RecordSource)
	}
}

// OpenCache returns nil when REDIS_ADDR is unset.
func OpenCache(cfg config.Config) (cache.SnapshotCache, func() error) {
	if cfg.RedisAddr == "" {
		return nil, func() error { return nil }
	}
	logger.Default().WithPrefix("sources").Info("caching snapshots in redis at %s (ttl %v)", cfg.RedisAddr, cfg.SnapshotCacheTTL)
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return cache.NewSnapshotCache(client, cfg.SnapshotCacheTTL), client.Close
}
