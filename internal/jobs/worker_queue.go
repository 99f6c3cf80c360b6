package jobs

import (
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	prefetchPool *worker.Pool
	questions    worker.Prefetcher
	limit        int
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(prefetchPool *worker.Pool, questions worker.Prefetcher, limit int) JobQueue {
	return &WorkerQueue{
		prefetchPool: prefetchPool,
		questions:    questions,
		limit:        limit,
	}
}

// EnqueuePrefetch never blocks: it reports worker.ErrQueueFull instead.
func (q *WorkerQueue) EnqueuePrefetch(category models.Category, difficulty models.Difficulty) error {
	return q.prefetchPool.TrySubmit(&worker.PrefetchQuestionsJob{
		Questions:  q.questions,
		Category:   category,
		Difficulty: difficulty,
		Limit:      q.limit,
	})
}
