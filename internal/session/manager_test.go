package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/session"
	"github.com/vytor/quizmaster/internal/testutil"
)

func newManager(f *fixture, loader session.QuestionLoader) *session.Manager {
	return session.NewManager(loader, f.progress, 10, models.DifficultyMedium,
		session.WithTickInterval(0), session.WithFeedbackDelay(0), session.WithClock(f.clock.Now))
}

func TestManager_Start(t *testing.T) {
	f := newFixture()
	m := newManager(f, &stubLoader{questions: testutil.Questions(models.CategoryScience, 3)})

	c, err := m.Start(context.Background(), "science", "")
	require.NoError(t, err)

	_, err = uuid.Parse(c.ID())
	assert.NoError(t, err)

	snap := c.Snapshot()
	assert.Equal(t, session.StateAnswering, snap.State)
	assert.Equal(t, models.CategoryScience, snap.Category)
	assert.Equal(t, models.DifficultyMedium, snap.Difficulty)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)
}

func TestManager_StartValidation(t *testing.T) {
	f := newFixture()
	m := newManager(f, &stubLoader{questions: testutil.Questions(models.CategoryScience, 3)})

	_, err := m.Start(context.Background(), "Cooking", "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = m.Start(context.Background(), "Linux", "Impossible")
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	assert.Zero(t, m.Len())
}

func TestManager_StartWithFailingSourceReturnsErroredSession(t *testing.T) {
	f := newFixture()
	m := newManager(f, &stubLoader{err: errors.NewNetworkError("failed to fetch questions", nil)})

	c, err := m.Start(context.Background(), "Linux", "Hard")
	require.NoError(t, err)
	assert.Equal(t, session.StateErrored, c.State())
}

func TestManager_Close(t *testing.T) {
	f := newFixture()
	m := newManager(f, &stubLoader{questions: testutil.Questions(models.CategoryLinux, 3)})

	c, err := m.Start(context.Background(), "Linux", "")
	require.NoError(t, err)

	require.NoError(t, m.Close(c.ID()))
	assert.Equal(t, session.StateClosed, c.State())

	_, err = m.Get(c.ID())
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	assert.True(t, errors.HasCode(m.Close(c.ID()), errors.ErrCodeNotFound))
}

func TestManager_Sweep(t *testing.T) {
	f := newFixture()
	m := newManager(f, &stubLoader{questions: testutil.Questions(models.CategoryLinux, 3)})

	stale, err := m.Start(context.Background(), "Linux", "")
	require.NoError(t, err)

	f.clock.Advance(20 * time.Minute)
	fresh, err := m.Start(context.Background(), "Linux", "")
	require.NoError(t, err)

	f.clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, m.Sweep(30*time.Minute))

	assert.Equal(t, session.StateClosed, stale.State())
	assert.Equal(t, session.StateAnswering, fresh.State())
	assert.Equal(t, 1, m.Len())

	// Get refreshes activity.
	_, err = m.Get(fresh.ID())
	require.NoError(t, err)
	f.clock.Advance(20 * time.Minute)
	assert.Zero(t, m.Sweep(30*time.Minute))
}

func TestManager_CloseAll(t *testing.T) {
	f := newFixture()
	m := newManager(f, &stubLoader{questions: testutil.Questions(models.CategoryLinux, 3)})

	a, _ := m.Start(context.Background(), "Linux", "")
	b, _ := m.Start(context.Background(), "Linux", "")
	m.CloseAll()

	assert.Zero(t, m.Len())
	assert.Equal(t, session.StateClosed, a.State())
	assert.Equal(t, session.StateClosed, b.State())
}

func TestJanitor(t *testing.T) {
	f := newFixture()
	m := newManager(f, &stubLoader{questions: testutil.Questions(models.CategoryLinux, 3)})

	_, err := session.NewJanitor(m, "not a schedule", time.Minute)
	require.Error(t, err)

	j, err := session.NewJanitor(m, "@every 1h", time.Minute)
	require.NoError(t, err)

	_, err = m.Start(context.Background(), "Linux", "")
	require.NoError(t, err)
	f.clock.Advance(2 * time.Minute)

	j.Run()
	assert.Zero(t, m.Len())

	j.Start()
	j.Stop()
}
