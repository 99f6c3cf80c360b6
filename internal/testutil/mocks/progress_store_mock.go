package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizmaster/internal/models"
)

// MockProgressStore is a mock implementation of repository.ProgressStore
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) GetCachedQuestions(ctx context.Context, category models.Category) ([]models.Question, bool, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Question), args.Bool(1), args.Error(2)
}

func (m *MockProgressStore) PutCachedQuestions(ctx context.Context, category models.Category, questions []models.Question) error {
	args := m.Called(ctx, category, questions)
	return args.Error(0)
}

func (m *MockProgressStore) GetProgress(ctx context.Context) (*models.UserProgress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProgress), args.Error(1)
}

func (m *MockProgressStore) PutProgress(ctx context.Context, progress models.UserProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}
