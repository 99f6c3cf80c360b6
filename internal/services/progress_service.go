package services

import (
	"context"
	"time"

	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/repository"
	"github.com/vytor/quizmaster/internal/scoring"
)

const defaultHistoryLimit = 50

// ProgressService keeps the cumulative progress record and the answer log.
// Storage failures never reach the quiz flow: reads degrade to an empty
// record and writes are logged.
type ProgressService interface {
	RecordAnswer(ctx context.Context, rec models.AnswerRecord) models.UserProgress
	GetProgress(ctx context.Context) models.UserProgress
	Summary(ctx context.Context, now time.Time) models.ProgressSummary
	History(ctx context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, error)
}

type progressService struct {
	store   repository.ProgressStore
	history repository.AnswerHistoryRepository
}

// NewProgressService creates a new ProgressService
func NewProgressService(store repository.ProgressStore, history repository.AnswerHistoryRepository) ProgressService {
	return &progressService{store: store, history: history}
}

func (s *progressService) RecordAnswer(ctx context.Context, rec models.AnswerRecord) models.UserProgress {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session":  rec.SessionID,
		"question": rec.QuestionID,
	})

	current := s.GetProgress(ctx)
	updated := scoring.ApplyAnswer(current, rec)

	if err := s.store.PutProgress(ctx, updated); err != nil {
		log.Error("failed to save progress: %v", err)
	}
	if _, err := s.history.Insert(ctx, rec); err != nil {
		log.Error("failed to record answer: %v", err)
	}

	log.Debug("progress updated: correct=%d, incorrect=%d, streak=%d",
		updated.CorrectAnswers, updated.IncorrectAnswers, updated.Streak)
	return updated
}

func (s *progressService) GetProgress(ctx context.Context) models.UserProgress {
	p, err := s.store.GetProgress(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to read progress, using empty record: %v", err)
		return models.UserProgress{}
	}
	if p == nil {
		return models.UserProgress{}
	}
	return *p
}

func (s *progressService) Summary(ctx context.Context, now time.Time) models.ProgressSummary {
	p := s.GetProgress(ctx)

	stats, err := s.history.CategoryStats(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to aggregate answer history: %v", err)
		stats = nil
	}
	return scoring.Summarize(p, stats, now)
}

func (s *progressService) History(ctx context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, error) {
	log := logger.FromContext(ctx)

	if filter.Category != "" {
		c, err := models.ParseCategory(string(filter.Category))
		if err != nil {
			return nil, errors.NewValidationError("category", err.Error())
		}
		filter.Category = c
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}

	records, err := s.history.List(ctx, filter)
	if err != nil {
		log.Error("failed to list answer history: %v", err)
		return nil, err
	}
	return records, nil
}
