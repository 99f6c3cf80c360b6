package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/quizmaster/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Post("/categories/{category}/prefetch", s.handlePrefetch)

		r.Post("/quizzes", s.handleCreateQuiz)
		r.Get("/quizzes/{id}", s.handleGetQuiz)
		r.Post("/quizzes/{id}/answers", s.handleSubmitAnswer)
		r.Post("/quizzes/{id}/tick", s.handleTick)
		r.Delete("/quizzes/{id}", s.handleCloseQuiz)

		r.Get("/progress", s.handleProgress)
		r.Get("/progress/history", s.handleHistory)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, map[string]any{
			"error": map[string]any{"code": "METHOD_NOT_ALLOWED", "message": r.Method + " not allowed on " + r.URL.Path},
		})
	})
	return r
}
