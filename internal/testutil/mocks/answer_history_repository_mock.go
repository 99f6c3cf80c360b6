package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizmaster/internal/models"
)

// MockAnswerHistoryRepository is a mock implementation of repository.AnswerHistoryRepository
type MockAnswerHistoryRepository struct {
	mock.Mock
}

func (m *MockAnswerHistoryRepository) Insert(ctx context.Context, record models.AnswerRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnswerHistoryRepository) List(ctx context.Context, filter models.AnswerFilter) ([]models.AnswerRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnswerRecord), args.Error(1)
}

func (m *MockAnswerHistoryRepository) CategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryStat), args.Error(1)
}
