// Package memory holds map-backed repository implementations used by tests
// and by the server when DB_PATH is "memory".
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	apperrors "github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/repository"
)

// ProgressStore keeps JSON documents in a map, like the kv_store table.
type ProgressStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{docs: make(map[string][]byte)}
}

var _ repository.ProgressStore = (*ProgressStore)(nil)

func (s *ProgressStore) GetCachedQuestions(ctx context.Context, category models.Category) ([]models.Question, bool, error) {
	key := repository.QuestionCacheKey(category)
	value, ok := s.get(key)
	if !ok {
		return nil, false, nil
	}
	var questions []models.Question
	if err := json.Unmarshal(value, &questions); err != nil {
		return nil, false, apperrors.NewStorageError("decode "+key, err)
	}
	if len(questions) == 0 {
		return nil, false, nil
	}
	return questions, true, nil
}

func (s *ProgressStore) PutCachedQuestions(ctx context.Context, category models.Category, questions []models.Question) error {
	if questions == nil {
		questions = []models.Question{}
	}
	value, err := json.Marshal(questions)
	if err != nil {
		return apperrors.NewStorageError("encode questions", err)
	}
	s.put(repository.QuestionCacheKey(category), value)
	return nil
}

func (s *ProgressStore) GetProgress(ctx context.Context) (*models.UserProgress, error) {
	value, ok := s.get(repository.ProgressKey)
	if !ok {
		return nil, nil
	}
	var p models.UserProgress
	if err := json.Unmarshal(value, &p); err != nil {
		return nil, apperrors.NewStorageError("decode "+repository.ProgressKey, err)
	}
	return &p, nil
}

func (s *ProgressStore) PutProgress(ctx context.Context, progress models.UserProgress) error {
	value, err := json.Marshal(progress)
	if err != nil {
		return apperrors.NewStorageError("encode progress", err)
	}
	s.put(repository.ProgressKey, value)
	return nil
}

// Raw returns the stored document for key.
func (s *ProgressStore) Raw(key string) ([]byte, bool) {
	return s.get(key)
}

// SetRaw stores value under key without any encoding.
func (s *ProgressStore) SetRaw(key string, value []byte) {
	s.put(key, value)
}

func (s *ProgressStore) get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.docs[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (s *ProgressStore) put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), value...)
}

// AnswerHistory is an append-only slice of answer records.
type AnswerHistory struct {
	mu      sync.RWMutex
	records []models.AnswerRecord
	nextID  int64
}

func NewAnswerHistory() *AnswerHistory {
	return &AnswerHistory{nextID: 1}
}

var _ repository.AnswerHistoryRepository = (*AnswerHistory)(nil)

func (h *AnswerHistory) Insert(ctx context.Context, rec models.AnswerRecord) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rec.ID = h.nextID
	h.nextID++
	h.records = append(h.records, rec)
	return rec.ID, nil
}

// List returns matching records newest first.
func (h *AnswerHistory) List(ctx context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := []models.AnswerRecord{}
	for i := len(h.records) - 1; i >= 0; i-- {
		rec := h.records[i]
		if filter.SessionID != "" && rec.SessionID != filter.SessionID {
			continue
		}
		if filter.Category != "" && rec.Category != filter.Category {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnsweredAt.After(out[j].AnsweredAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (h *AnswerHistory) CategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	byCategory := make(map[models.Category]*models.CategoryStat)
	for _, rec := range h.records {
		st, ok := byCategory[rec.Category]
		if !ok {
			st = &models.CategoryStat{Category: rec.Category}
			byCategory[rec.Category] = st
		}
		if rec.Correct {
			st.Correct++
		} else {
			st.Incorrect++
		}
		if rec.TimedOut {
			st.TimedOut++
		}
	}

	stats := make([]models.CategoryStat, 0, len(byCategory))
	for _, st := range byCategory {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats, nil
}
