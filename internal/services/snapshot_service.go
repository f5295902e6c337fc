package services

import (
	"context"
	"sync"

	"github.com/PDG1999/tool-dashboard-samebi/internal/cache"
	"github.com/PDG1999/tool-dashboard-samebi/internal/errors"
	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

// SnapshotService owns the displayed snapshot and the request generation
// counter. Every Refresh starts a new generation; a result is only applied
// if no newer generation has started in the meantime.
type SnapshotService interface {
	// Refresh builds a snapshot for tr. applied is false when a newer
	// generation started while this one was in flight; the result is then
	// discarded and nil is returned without an error. If ctx ends first its
	// error is returned and the displayed snapshot is left untouched.
	Refresh(ctx context.Context, tr models.TimeRange) (snap *models.StatsSnapshot, applied bool, err error)
	Current() *models.StatsSnapshot
	Generation() uint64
	Ready(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type snapshotService struct {
	builder *SnapshotBuilder
	pinger  pinger
	cache   cache.SnapshotCache

	mu         sync.Mutex
	generation uint64
	current    *models.StatsSnapshot
}

// SnapshotServiceOption configures a SnapshotService.
type SnapshotServiceOption func(*snapshotService)

// WithSnapshotCache consults c before fetching and stores fresh results in it.
func WithSnapshotCache(c cache.SnapshotCache) SnapshotServiceOption {
	return func(s *snapshotService) {
		s.cache = c
	}
}

// WithPinger sets the health check used by Ready while nothing is displayed.
func WithPinger(p pinger) SnapshotServiceOption {
	return func(s *snapshotService) {
		s.pinger = p
	}
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(builder *SnapshotBuilder, opts ...SnapshotServiceOption) SnapshotService {
	s := &snapshotService{builder: builder}
	if p, ok := builder.source.(pinger); ok {
		s.pinger = p
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *snapshotService) Refresh(ctx context.Context, tr models.TimeRange) (*models.StatsSnapshot, bool, error) {
	if !tr.Valid() {
		return nil, false, errors.NewValidationError("range", "must be one of 7d, 30d, 90d, 1y, all")
	}

	gen := s.begin()
	log := logger.FromContext(ctx).WithPrefix("snapshot").WithFields(map[string]any{
		"time_range": tr,
		"generation": gen,
	})
	ctx = logger.NewContext(ctx, log)

	if snap := s.cached(ctx, tr, gen); snap != nil {
		if !s.apply(gen, snap) {
			log.Debug("discarding stale cached snapshot")
			return nil, false, nil
		}
		log.Debug("serving cached snapshot")
		return snap, true, nil
	}

	snap, err := s.builder.Build(ctx, models.Query{TimeRange: tr, Generation: gen})
	if err != nil {
		// Caller gave up; the displayed snapshot stays.
		if ctx.Err() != nil {
			log.Debug("refresh abandoned by caller: %v", ctx.Err())
			return nil, false, ctx.Err()
		}
		if !s.fail(gen) {
			log.Debug("discarding stale failure: %v", err)
			return nil, false, nil
		}
		return nil, false, err
	}

	if !s.apply(gen, snap) {
		log.Info("discarding stale snapshot, generation %d is current", s.Generation())
		return nil, false, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, string(s.builder.Policy()), snap); err != nil {
			log.Warn("failed to cache snapshot: %v", err)
		}
	}
	return snap, true, nil
}

func (s *snapshotService) cached(ctx context.Context, tr models.TimeRange, gen uint64) *models.StatsSnapshot {
	if s.cache == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	hit, err := s.cache.Get(ctx, tr, string(s.builder.Policy()))
	if err != nil {
		log.Warn("snapshot cache unavailable: %v", err)
		return nil
	}
	if hit == nil {
		return nil
	}
	snap := *hit
	snap.Generation = gen
	return &snap
}

func (s *snapshotService) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// apply installs snap if gen is still the latest generation.
func (s *snapshotService) apply(gen uint64, snap *models.StatsSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.current = snap
	return true
}

// fail clears the displayed snapshot if gen is still the latest generation.
func (s *snapshotService) fail(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.current = nil
	return true
}

func (s *snapshotService) Current() *models.StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *snapshotService) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *snapshotService) Ready(ctx context.Context) error {
	if s.Current() != nil {
		return nil
	}
	if s.pinger == nil {
		return errors.NewUnavailableError("snapshot", nil)
	}
	if err := s.pinger.Ping(ctx); err != nil {
		return errors.NewUnavailableError("record source", err)
	}
	return nil
}
