package api

import (
	"net/http"

	"github.com/PDG1999/tool-dashboard-samebi/internal/errors"
	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		if s.RequestTimeout > 0 {
			r.Use(timeoutMiddleware(s.RequestTimeout))
		}
		r.Get("/stats", s.handleStats)
		r.Get("/stats/current", s.handleCurrentStats)
		r.Post("/stats/refresh", s.handleRefreshStats)
		r.Get("/counselors", s.handleCounselors)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	return r
}
