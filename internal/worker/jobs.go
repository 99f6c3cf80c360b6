package worker

import (
	"context"
	"fmt"

	"github.com/vytor/quizmaster/internal/models"
)

// Prefetcher fills the question cache of a category. It is implemented by
// the question service; declaring it here keeps worker free of a services
// import.
type Prefetcher interface {
	Prefetch(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) error
}

// PrefetchQuestionsJob warms the question cache for one category.
type PrefetchQuestionsJob struct {
	Questions  Prefetcher
	Category   models.Category
	Difficulty models.Difficulty
	Limit      int
}

func (j *PrefetchQuestionsJob) Name() string {
	return fmt.Sprintf("prefetch_questions[%s]", j.Category)
}

func (j *PrefetchQuestionsJob) Run(ctx context.Context) error {
	return j.Questions.Prefetch(ctx, j.Category, j.Difficulty, j.Limit)
}
