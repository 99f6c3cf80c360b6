package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	apperrors "github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/repository"
)

type progressStore struct {
	db *sql.DB
}

// NewProgressStore creates a ProgressStore backed by the kv_store table.
func NewProgressStore(db *sql.DB) repository.ProgressStore {
	return &progressStore{db: db}
}

func (s *progressStore) GetCachedQuestions(ctx context.Context, category models.Category) ([]models.Question, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_store")
	key := repository.QuestionCacheKey(category)

	value, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	var questions []models.Question
	if err := json.Unmarshal(value, &questions); err != nil {
		log.Error("failed to decode cached questions: key=%s, err=%v", key, err)
		return nil, false, apperrors.NewStorageError("decode "+key, err)
	}
	if len(questions) == 0 {
		log.Debug("cached question list is empty: key=%s", key)
		return nil, false, nil
	}

	log.Debug("cache hit: key=%s, questions=%d", key, len(questions))
	return questions, true, nil
}

func (s *progressStore) PutCachedQuestions(ctx context.Context, category models.Category, questions []models.Question) error {
	if questions == nil {
		questions = []models.Question{}
	}
	value, err := json.Marshal(questions)
	if err != nil {
		return apperrors.NewStorageError("encode questions", err)
	}
	return s.put(ctx, repository.QuestionCacheKey(category), value)
}

func (s *progressStore) GetProgress(ctx context.Context) (*models.UserProgress, error) {
	value, ok, err := s.get(ctx, repository.ProgressKey)
	if err != nil || !ok {
		return nil, err
	}

	var p models.UserProgress
	if err := json.Unmarshal(value, &p); err != nil {
		logger.FromContext(ctx).WithPrefix("progress_store").Error("failed to decode progress: %v", err)
		return nil, apperrors.NewStorageError("decode "+repository.ProgressKey, err)
	}
	return &p, nil
}

func (s *progressStore) PutProgress(ctx context.Context, progress models.UserProgress) error {
	value, err := json.Marshal(progress)
	if err != nil {
		return apperrors.NewStorageError("encode progress", err)
	}
	return s.put(ctx, repository.ProgressKey, value)
}

func (s *progressStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_store")

	query, args, err := sqlBuilder.Select("value").From("kv_store").Where(squirrel.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, false, apperrors.NewStorageError("read "+key, err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("key not found: %s", key)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to read key %s: %v", key, err)
		return nil, false, apperrors.NewStorageError("read "+key, err)
	}
	return []byte(value), true, nil
}

func (s *progressStore) put(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("progress_store")

	query, args, err := sqlBuilder.Insert("kv_store").
		Columns("key", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return apperrors.NewStorageError("write "+key, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to write key %s: %v", key, err)
		return apperrors.NewStorageError("write "+key, err)
	}
	log.Debug("key written: %s (%d bytes)", key, len(value))
	return nil
}
