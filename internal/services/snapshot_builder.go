package services

import (
	"context"
	"time"

	"github.com/PDG1999/tool-dashboard-samebi/internal/errors"
	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/recordstore"
	"github.com/PDG1999/tool-dashboard-samebi/internal/stats"
	"golang.org/x/sync/errgroup"
)

// Names of the optional collections reported in StatsSnapshot.Degraded.
const (
	CollectionClients    = "clients"
	CollectionCounselors = "counselors"
)

// SnapshotBuilder fetches the three collections concurrently and aggregates
// them into one snapshot. It holds no mutable state.
type SnapshotBuilder struct {
	source recordstore.RecordSource
	policy stats.AnonymousPolicy
	now    func() time.Time
}

func NewSnapshotBuilder(source recordstore.RecordSource, policy stats.AnonymousPolicy, now func() time.Time) *SnapshotBuilder {
	if policy == "" {
		policy = stats.AnonymousInclude
	}
	if now == nil {
		now = time.Now
	}
	return &SnapshotBuilder{source: source, policy: policy, now: now}
}

// Policy returns the anonymous-submission policy the builder aggregates with.
func (b *SnapshotBuilder) Policy() stats.AnonymousPolicy {
	return b.policy
}

// Build runs one fetch and aggregation for q. A failed assessment fetch
// yields an UNAVAILABLE error; failed client or counselor fetches degrade to
// empty collections and are listed in the snapshot's Degraded field.
func (b *SnapshotBuilder) Build(ctx context.Context, q models.Query) (*models.StatsSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot").WithFields(map[string]any{
		"time_range": q.TimeRange,
		"generation": q.Generation,
	})
	start := time.Now()

	var (
		in                        stats.Input
		clientsErr, counselorsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := b.source.FetchAssessmentRecords(gctx, q.TimeRange)
		if err != nil {
			return err
		}
		in.Records = records
		return nil
	})
	g.Go(func() error {
		clients, err := b.source.FetchClients(gctx)
		if err != nil {
			clientsErr = err
			return nil
		}
		in.Clients = clients
		return nil
	})
	g.Go(func() error {
		counselors, err := b.source.FetchCounselors(gctx)
		if err != nil {
			counselorsErr = err
			return nil
		}
		in.Counselors = counselors
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("assessment fetch failed: %v", err)
		return nil, errors.NewUnavailableError("assessment records", err)
	}

	var degraded []string
	if clientsErr != nil {
		log.Warn("clients unavailable, continuing without them: %v", clientsErr)
		degraded = append(degraded, CollectionClients)
	}
	if counselorsErr != nil {
		log.Warn("counselors unavailable, continuing without them: %v", counselorsErr)
		degraded = append(degraded, CollectionCounselors)
	}

	snap := stats.Aggregate(in, b.policy)
	snap.Generation = q.Generation
	snap.TimeRange = q.TimeRange
	snap.GeneratedAt = b.now().UTC()
	snap.Degraded = degraded

	log.Info("snapshot built in %v: tests=%d clients=%d counselors=%d", time.Since(start), snap.TotalTests, snap.TotalClients, snap.TotalCounselors)
	return &snap, nil
}
