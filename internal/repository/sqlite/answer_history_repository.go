package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	apperrors "github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/repository"
)

type answerHistoryRepository struct {
	db *sql.DB
}

// NewAnswerHistoryRepository creates a new AnswerHistoryRepository implementation
func NewAnswerHistoryRepository(db *sql.DB) repository.AnswerHistoryRepository {
	return &answerHistoryRepository{db: db}
}

func (r *answerHistoryRepository) Insert(ctx context.Context, rec models.AnswerRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("inserting answer: session=%s, question=%d", rec.SessionID, rec.QuestionID)

	query, args, err := sqlBuilder.Insert("answer_history").
		Columns("session_id", "question_id", "category", "difficulty", "question_index",
			"answer_key", "correct", "timed_out", "answered_at").
		Values(rec.SessionID, rec.QuestionID, string(rec.Category), string(rec.Difficulty), rec.QuestionIndex,
			rec.AnswerKey, boolToInt(rec.Correct), boolToInt(rec.TimedOut), rec.AnsweredAt.UTC()).
		ToSql()
	if err != nil {
		return 0, apperrors.NewStorageError("insert answer", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert answer: %v", err)
		return 0, apperrors.NewStorageError("insert answer", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStorageError("insert answer", err)
	}
	return id, nil
}

func (r *answerHistoryRepository) List(ctx context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")

	query := sqlBuilder.Select(
		"id", "session_id", "question_id", "category", "difficulty", "question_index",
		"answer_key", "correct", "timed_out", "answered_at",
	).From("answer_history")

	if filter.SessionID != "" {
		query = query.Where(squirrel.Eq{"session_id": filter.SessionID})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": string(filter.Category)})
	}
	query = query.OrderBy("answered_at DESC", "id DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, apperrors.NewStorageError("list answers", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list answers: %v", err)
		return nil, apperrors.NewStorageError("list answers", err)
	}
	defer rows.Close()

	records := []models.AnswerRecord{}
	for rows.Next() {
		var (
			rec               models.AnswerRecord
			category, diff    string
			correct, timedOut int
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.QuestionID, &category, &diff, &rec.QuestionIndex,
			&rec.AnswerKey, &correct, &timedOut, &rec.AnsweredAt); err != nil {
			log.Error("failed to scan answer row: %v", err)
			return nil, apperrors.NewStorageError("list answers", err)
		}
		rec.Category = models.Category(category)
		rec.Difficulty = models.Difficulty(diff)
		rec.Correct = correct != 0
		rec.TimedOut = timedOut != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("list answers", err)
	}

	log.Debug("found %d answers", len(records))
	return records, nil
}

// CategoryStats aggregates correct, incorrect and timed-out counts per
// category. Accuracy is left for the caller to derive.
func (r *answerHistoryRepository) CategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")

	sqlStr, args, err := sqlBuilder.Select(
		"category",
		"COALESCE(SUM(correct), 0)",
		"COALESCE(SUM(CASE WHEN correct = 0 THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(timed_out), 0)",
	).From("answer_history").GroupBy("category").OrderBy("category").ToSql()
	if err != nil {
		return nil, apperrors.NewStorageError("category stats", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to aggregate answers: %v", err)
		return nil, apperrors.NewStorageError("category stats", err)
	}
	defer rows.Close()

	stats := []models.CategoryStat{}
	for rows.Next() {
		var (
			st       models.CategoryStat
			category string
		)
		if err := rows.Scan(&category, &st.Correct, &st.Incorrect, &st.TimedOut); err != nil {
			return nil, apperrors.NewStorageError("category stats", err)
		}
		st.Category = models.Category(category)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("category stats", err)
	}
	return stats, nil
}
