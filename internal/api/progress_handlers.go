package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/models"
)

type historyQuery struct {
	Category string `validate:"omitempty,max=32"`
	Limit    int    `validate:"min=0,max=500"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.ProgressService.Summary(r.Context(), time.Now()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := historyQuery{Category: r.URL.Query().Get("category")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid limit"))
			return
		}
		q.Limit = limit
	}
	if err := validateStruct(q); err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.ProgressService.History(r.Context(), models.AnswerFilter{
		Category: models.Category(q.Category),
		Limit:    q.Limit,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"answers": records})
}
