package api

import (
	"net/http"

	"github.com/vytor/quizmaster/internal/logger"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 while the database cannot be reached.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			logger.FromContext(ctx).Warn("readiness check failed - database: %v", err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ready",
		"sessions": s.Sessions.Len(),
	})
}
