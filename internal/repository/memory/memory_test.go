package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/repository/memory"
	"github.com/vytor/quizmaster/internal/testutil"
)

func TestProgressStore_Questions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProgressStore()

	_, ok, err := store.GetCachedQuestions(ctx, models.CategoryScience)
	require.NoError(t, err)
	assert.False(t, ok)

	questions := testutil.Questions(models.CategoryScience, 3)
	require.NoError(t, store.PutCachedQuestions(ctx, models.CategoryScience, questions))

	got, ok, err := store.GetCachedQuestions(ctx, models.CategoryScience)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, questions, got)

	raw, ok := store.Raw("quiz_Science")
	require.True(t, ok)
	assert.Contains(t, string(raw), `"answer_a_correct":"true"`)

	require.NoError(t, store.PutCachedQuestions(ctx, models.CategoryScience, []models.Question{}))
	_, ok, err = store.GetCachedQuestions(ctx, models.CategoryScience)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProgressStore_Progress(t *testing.T) {
	ctx := context.Background()
	store := memory.NewProgressStore()

	p, err := store.GetProgress(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, store.PutProgress(ctx, models.UserProgress{CorrectAnswers: 2, Streak: 2}))
	p, err = store.GetProgress(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Streak)

	store.SetRaw("userProgress", []byte("garbage"))
	_, err = store.GetProgress(ctx)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStorage))
}

func TestAnswerHistory(t *testing.T) {
	ctx := context.Background()
	h := memory.NewAnswerHistory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, rec := range []models.AnswerRecord{
		{SessionID: "a", Category: models.CategoryLinux, Correct: true},
		{SessionID: "a", Category: models.CategoryLinux, TimedOut: true},
		{SessionID: "b", Category: models.CategoryProgramming, Correct: true},
	} {
		rec.AnsweredAt = base.Add(time.Duration(i) * time.Second)
		id, err := h.Insert(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	all, err := h.List(ctx, models.AnswerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].SessionID)

	limited, err := h.List(ctx, models.AnswerFilter{SessionID: "a", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.True(t, limited[0].TimedOut)

	stats, err := h.CategoryStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryStat{
		{Category: models.CategoryLinux, Correct: 1, Incorrect: 1, TimedOut: 1},
		{Category: models.CategoryProgramming, Correct: 1},
	}, stats)
}
