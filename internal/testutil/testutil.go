package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/quizmaster/internal/db"
	"github.com/vytor/quizmaster/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	return d.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Question builds a valid three-option question whose correct answer is
// answer_a.
func Question(id int64, category models.Category) models.Question {
	a := fmt.Sprintf("right %d", id)
	b := fmt.Sprintf("wrong %d", id)
	c := fmt.Sprintf("also wrong %d", id)
	correct := models.AnswerA
	return models.Question{
		ID:       id,
		Question: fmt.Sprintf("Question %d?", id),
		Answers: models.Answers{
			AnswerA: &a,
			AnswerB: &b,
			AnswerC: &c,
		},
		MultipleCorrectAnswers: "false",
		CorrectAnswers: models.CorrectAnswers{
			AnswerACorrect: "true",
			AnswerBCorrect: "false",
			AnswerCCorrect: "false",
			AnswerDCorrect: "false",
			AnswerECorrect: "false",
			AnswerFCorrect: "false",
		},
		CorrectAnswer: &correct,
		Tags:          []models.Tag{{Name: string(category)}},
		Category:      string(category),
		Difficulty:    models.DifficultyMedium,
	}
}

// Questions returns n questions with IDs 1..n.
func Questions(category models.Category, n int) []models.Question {
	qs := make([]models.Question, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, Question(int64(i), category))
	}
	return qs
}
