package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/repository"
	"github.com/vytor/quizmaster/internal/repository/sqlite"
	"github.com/vytor/quizmaster/internal/testutil"
)

type AnswerHistoryRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.AnswerHistoryRepository
}

func (s *AnswerHistoryRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewAnswerHistoryRepository(s.db)
}

func (s *AnswerHistoryRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *AnswerHistoryRepositorySuite) seed() time.Time {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	records := []models.AnswerRecord{
		{SessionID: "s1", QuestionID: 1, Category: models.CategoryLinux, Difficulty: models.DifficultyMedium, QuestionIndex: 0, AnswerKey: "answer_a", Correct: true},
		{SessionID: "s1", QuestionID: 2, Category: models.CategoryLinux, Difficulty: models.DifficultyMedium, QuestionIndex: 1, AnswerKey: "answer_b"},
		{SessionID: "s1", QuestionID: 3, Category: models.CategoryLinux, Difficulty: models.DifficultyMedium, QuestionIndex: 2, TimedOut: true},
		{SessionID: "s2", QuestionID: 9, Category: models.CategoryScience, Difficulty: models.DifficultyHard, QuestionIndex: 0, AnswerKey: "answer_c", Correct: true},
	}
	for i, rec := range records {
		rec.AnsweredAt = base.Add(time.Duration(i) * time.Minute)
		id, err := s.repo.Insert(ctx, rec)
		s.Require().NoError(err)
		s.Positive(id)
	}
	return base
}

func (s *AnswerHistoryRepositorySuite) TestListNewestFirst() {
	base := s.seed()

	records, err := s.repo.List(context.Background(), models.AnswerFilter{})
	s.Require().NoError(err)
	s.Require().Len(records, 4)

	s.Equal("s2", records[0].SessionID)
	s.True(records[0].Correct)
	s.True(base.Add(3 * time.Minute).Equal(records[0].AnsweredAt))
	s.Equal(int64(1), records[3].QuestionID)
}

func (s *AnswerHistoryRepositorySuite) TestListFilters() {
	s.seed()
	ctx := context.Background()

	records, err := s.repo.List(ctx, models.AnswerFilter{SessionID: "s1"})
	s.Require().NoError(err)
	s.Len(records, 3)

	records, err = s.repo.List(ctx, models.AnswerFilter{Category: models.CategoryLinux, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.True(records[0].TimedOut)
	s.Empty(records[0].AnswerKey)

	records, err = s.repo.List(ctx, models.AnswerFilter{Category: models.CategoryProgramming})
	s.Require().NoError(err)
	s.NotNil(records)
	s.Empty(records)
}

func (s *AnswerHistoryRepositorySuite) TestCategoryStats() {
	s.seed()

	stats, err := s.repo.CategoryStats(context.Background())
	s.Require().NoError(err)
	s.Require().Len(stats, 2)

	s.Equal(models.CategoryStat{Category: models.CategoryLinux, Correct: 1, Incorrect: 2, TimedOut: 1}, stats[0])
	s.Equal(models.CategoryStat{Category: models.CategoryScience, Correct: 1}, stats[1])
}

func TestAnswerHistoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(AnswerHistoryRepositorySuite))
}
