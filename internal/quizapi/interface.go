package quizapi

import (
	"context"

	"github.com/vytor/quizmaster/internal/models"
)

// ClientInterface is the question source contract; services depend on it so
// tests can substitute a mock.
type ClientInterface interface {
	FetchQuestions(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) ([]models.Question, error)
}

var _ ClientInterface = (*Client)(nil)
