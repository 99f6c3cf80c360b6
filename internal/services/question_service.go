package services

import (
	"context"

	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/quizapi"
	"github.com/vytor/quizmaster/internal/repository"
)

// QuestionService loads quiz questions, preferring the per-category cache
// over the question source.
type QuestionService interface {
	LoadQuestions(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) ([]models.Question, error)
	Prefetch(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) error
	Categories() []models.Category
}

type questionService struct {
	client quizapi.ClientInterface
	store  repository.ProgressStore
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(client quizapi.ClientInterface, store repository.ProgressStore) QuestionService {
	return &questionService{client: client, store: store}
}

// LoadQuestions returns the cached questions of category when present.
// Otherwise it fetches from the source and, on success only, overwrites the
// cache. The cache is keyed by category alone: a cached list is served
// whatever difficulty is asked for.
func (s *questionService) LoadQuestions(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithField("category", category)

	if cached, ok := s.cached(ctx, category); ok {
		log.Debug("serving %d cached questions", len(cached))
		return cached, nil
	}

	return s.fetchAndCache(ctx, category, difficulty, limit)
}

// Prefetch fills the cache for category unless it is already populated.
func (s *questionService) Prefetch(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) error {
	log := logger.FromContext(ctx).WithField("category", category)

	if _, ok := s.cached(ctx, category); ok {
		log.Debug("cache already populated, skipping prefetch")
		return nil
	}

	_, err := s.fetchAndCache(ctx, category, difficulty, limit)
	return err
}

func (s *questionService) Categories() []models.Category {
	out := make([]models.Category, len(models.Categories))
	copy(out, models.Categories)
	return out
}

func (s *questionService) cached(ctx context.Context, category models.Category) ([]models.Question, bool) {
	questions, ok, err := s.store.GetCachedQuestions(ctx, category)
	if err != nil {
		logger.FromContext(ctx).Warn("question cache read failed, treating as miss: %v", err)
		return nil, false
	}
	return questions, ok
}

func (s *questionService) fetchAndCache(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithField("category", category)

	questions, err := s.client.FetchQuestions(ctx, category, difficulty, limit)
	if err != nil {
		log.Error("failed to fetch questions: %v", err)
		return nil, err
	}

	if err := s.store.PutCachedQuestions(ctx, category, questions); err != nil {
		log.Error("failed to cache questions: %v", err)
	}
	return questions, nil
}
