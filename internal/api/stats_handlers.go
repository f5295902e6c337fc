package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/PDG1999/tool-dashboard-samebi/internal/errors"
	"github.com/PDG1999/tool-dashboard-samebi/internal/logger"
	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
	"github.com/PDG1999/tool-dashboard-samebi/internal/worker"
)

func (s *Server) timeRange(r *http.Request) (models.TimeRange, error) {
	def := s.DefaultRange
	if def == "" {
		def = models.Range30Days
	}
	tr, err := models.ParseTimeRange(r.URL.Query().Get("range"), def)
	if err != nil {
		return "", errors.NewBadRequestError(err.Error())
	}
	return tr, nil
}

// supersededHeader is set when the response carries the displayed snapshot
// instead of the one built for this request.
const supersededHeader = "X-Snapshot-Superseded"

// handleStats refreshes synchronously. When a newer request overtook this
// one, the currently displayed snapshot is returned instead. While the newer
// request is still in flight that snapshot is older than the discarded one
// and may cover a different range; supersededHeader is set and clients
// should compare the body's time_range with the range they asked for.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	tr, err := s.timeRange(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log := logger.FromContext(r.Context()).WithField("time_range", tr)
	log.Debug("refreshing stats snapshot")

	snap, applied, err := s.SnapshotService.Refresh(r.Context(), tr)
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			// Client went away or the timeout handler already answered.
			log.Debug("stats request abandoned: %v", err)
			return
		}
		handleError(w, r, err)
		return
	}
	if !applied {
		snap = s.SnapshotService.Current()
		if snap == nil {
			handleError(w, r, errors.NewUnavailableError("snapshot", nil))
			return
		}
		log.Debug("request superseded, returning generation %d", snap.Generation)
		w.Header().Set(supersededHeader, "true")
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleCurrentStats(w http.ResponseWriter, r *http.Request) {
	snap := s.SnapshotService.Current()
	if snap == nil {
		handleError(w, r, errors.NewNotFoundError("snapshot", "current"))
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleRefreshStats(w http.ResponseWriter, r *http.Request) {
	tr, err := s.timeRange(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log := logger.FromContext(r.Context()).WithField("time_range", tr)

	if err := s.JobQueue.EnqueueRefresh(tr); err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrPoolStopped) {
			handleError(w, r, errors.NewUnavailableError("refresh queue", err))
			return
		}
		handleError(w, r, err)
		return
	}

	log.Info("refresh job queued")
	writeJSON(w, r, http.StatusAccepted, map[string]any{
		"status":     "queued",
		"time_range": tr,
	})
}

func (s *Server) handleCounselors(w http.ResponseWriter, r *http.Request) {
	snap := s.SnapshotService.Current()
	if snap == nil {
		handleError(w, r, errors.NewNotFoundError("snapshot", "current"))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"generation": snap.Generation,
		"time_range": snap.TimeRange,
		"degraded":   snap.Degraded,
		"counselors": snap.Counselors,
	})
}
