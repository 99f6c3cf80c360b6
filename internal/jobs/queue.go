package jobs

import "github.com/vytor/quizmaster/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueuePrefetch(category models.Category, difficulty models.Difficulty) error
}
