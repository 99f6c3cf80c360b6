package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizmaster/internal/models"
)

// MockQuizClient is a mock implementation of quizapi.ClientInterface
type MockQuizClient struct {
	mock.Mock
}

func (m *MockQuizClient) FetchQuestions(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) ([]models.Question, error) {
	args := m.Called(ctx, category, difficulty, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}
