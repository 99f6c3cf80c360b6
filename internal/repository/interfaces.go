package repository

import (
	"context"

	"github.com/vytor/quizmaster/internal/models"
)

// Storage keys of the key/value documents.
const (
	ProgressKey       = "userProgress"
	questionKeyPrefix = "quiz_"
)

// QuestionCacheKey returns the key holding the cached questions of a category.
func QuestionCacheKey(category models.Category) string {
	return questionKeyPrefix + string(category)
}

// ProgressStore persists the per-category question caches and the single
// progress record.
type ProgressStore interface {
	// GetCachedQuestions reports ok=false when nothing (or an empty list) is
	// cached for the category.
	GetCachedQuestions(ctx context.Context, category models.Category) ([]models.Question, bool, error)
	PutCachedQuestions(ctx context.Context, category models.Category, questions []models.Question) error
	// GetProgress returns nil when no record has been written yet.
	GetProgress(ctx context.Context) (*models.UserProgress, error)
	PutProgress(ctx context.Context, progress models.UserProgress) error
}

// AnswerHistoryRepository handles the per-answer log.
type AnswerHistoryRepository interface {
	Insert(ctx context.Context, record models.AnswerRecord) (int64, error)
	List(ctx context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, error)
	CategoryStats(ctx context.Context) ([]models.CategoryStat, error)
}
