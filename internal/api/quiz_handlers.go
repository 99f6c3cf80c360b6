package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/session"
)

type createQuizRequest struct {
	Category   string `json:"category" validate:"required"`
	Difficulty string `json:"difficulty" validate:"omitempty,max=16"`
}

// submitAnswerRequest names the question being answered so an answer that
// lands after its question timed out is not scored against the next one.
type submitAnswerRequest struct {
	Index  *int   `json:"index" validate:"required,min=0"`
	Answer string `json:"answer" validate:"required,max=16"`
}

type answerResponse struct {
	Result  session.Result   `json:"result"`
	Session session.Snapshot `json:"session"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"categories":         s.QuestionService.Categories(),
		"difficulties":       models.Difficulties,
		"default_difficulty": s.DefaultDifficulty,
	})
}

func (s *Server) handlePrefetch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	category, err := models.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("category", err.Error()))
		return
	}
	difficulty := s.DefaultDifficulty
	if q := r.URL.Query().Get("difficulty"); q != "" {
		if difficulty, err = models.ParseDifficulty(q); err != nil {
			handleError(w, r, errors.NewValidationError("difficulty", err.Error()))
			return
		}
	}

	if s.JobQueue == nil {
		handleError(w, r, errors.NewConflictError("prefetching is disabled"))
		return
	}
	if err := s.JobQueue.EnqueuePrefetch(category, difficulty); err != nil {
		log.Warn("failed to enqueue prefetch for %s: %v", category, err)
		handleError(w, r, errors.NewConflictError("prefetch queue is unavailable: "+err.Error()))
		return
	}

	writeJSON(w, r, http.StatusAccepted, map[string]any{
		"category":   category,
		"difficulty": difficulty,
		"queued":     true,
	})
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	c, err := s.Sessions.Start(r.Context(), req.Category, req.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}

	snap := c.Snapshot()
	status := http.StatusCreated
	if snap.State == session.StateErrored {
		status = http.StatusOK
	}
	w.Header().Set("Location", "/api/quizzes/"+snap.ID)
	writeJSON(w, r, status, snap)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	c, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c.Snapshot())
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	c, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := c.Submit(r.Context(), *req.Index, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, answerResponse{Result: res, Session: c.Snapshot()})
}

// handleTick advances the countdown by one step for clients that drive the
// timer themselves.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	c, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	c.Tick()
	writeJSON(w, r, http.StatusOK, c.Snapshot())
}

func (s *Server) handleCloseQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Close(chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
