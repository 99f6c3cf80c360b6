package session_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/quizapi"
	"github.com/vytor/quizmaster/internal/repository/memory"
	"github.com/vytor/quizmaster/internal/services"
	"github.com/vytor/quizmaster/internal/session"
	"github.com/vytor/quizmaster/internal/testutil"
)

type stubLoader struct {
	questions []models.Question
	err       error
	release   chan struct{}
}

func (l *stubLoader) LoadQuestions(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) ([]models.Question, error) {
	if l.release != nil {
		<-l.release
	}
	return l.questions, l.err
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recorder struct {
	mu     sync.Mutex
	events []session.Event
}

func (r *recorder) observe(ev session.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []session.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store    *memory.ProgressStore
	progress services.ProgressService
	clock    *fakeClock
}

func newFixture() *fixture {
	store := memory.NewProgressStore()
	return &fixture{
		store:    store,
		progress: services.NewProgressService(store, memory.NewAnswerHistory()),
		clock:    newFakeClock(),
	}
}

// manual returns a controller without background timers.
func (f *fixture) manual(loader session.QuestionLoader, opts ...session.Option) *session.Controller {
	base := []session.Option{
		session.WithTickInterval(0),
		session.WithFeedbackDelay(0),
		session.WithClock(f.clock.Now),
	}
	return session.NewController(session.Params{
		ID:         "quiz-1",
		Category:   models.CategoryLinux,
		Difficulty: models.DifficultyMedium,
		Limit:      10,
	}, loader, f.progress, append(base, opts...)...)
}

func TestController_AllCorrect(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 10)})

	require.NoError(t, c.Load(ctx))
	snap := c.Snapshot()
	assert.Equal(t, session.StateAnswering, snap.State)
	assert.Equal(t, 10, snap.Total)
	assert.Equal(t, session.DefaultTimeLimit, snap.Remaining)

	for i := 0; i < 10; i++ {
		res, err := c.Submit(ctx, i, models.AnswerA)
		require.NoError(t, err)
		assert.True(t, res.Correct)
		assert.Equal(t, i, res.Index)
		assert.Equal(t, []string{models.AnswerA}, res.CorrectKeys)
	}

	snap = c.Snapshot()
	assert.Equal(t, session.StateCompleted, snap.State)
	assert.Len(t, snap.Answers, 10)
	assert.Nil(t, snap.Question)

	p := f.progress.GetProgress(ctx)
	assert.Equal(t, 10, p.CorrectAnswers)
	assert.Equal(t, 0, p.IncorrectAnswers)
	assert.Equal(t, 10, p.Streak)
	assert.Equal(t, 1, p.TotalQuizzes)
}

func TestController_TimeoutResetsStreakAndAdvances(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	events := &recorder{}
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 5)},
		session.WithTimeLimit(3), session.WithObserver(events.observe))

	require.NoError(t, c.Load(ctx))
	for i := 0; i < 2; i++ {
		_, err := c.Submit(ctx, i, models.AnswerA)
		require.NoError(t, err)
	}
	require.Equal(t, 2, c.Snapshot().Index)

	c.Tick()
	c.Tick()
	assert.Equal(t, 1, c.Snapshot().Remaining)
	c.Tick()

	snap := c.Snapshot()
	assert.Equal(t, session.StateAnswering, snap.State)
	assert.Equal(t, 3, snap.Index)
	assert.Equal(t, 3, snap.Remaining)
	assert.Len(t, snap.Answers, 2, "a timeout records no answer id")
	require.NotNil(t, snap.LastResult)
	assert.True(t, snap.LastResult.TimedOut)

	p := f.progress.GetProgress(ctx)
	assert.Equal(t, 0, p.Streak)
	assert.Equal(t, 2, p.CorrectAnswers)
	assert.Equal(t, 1, p.IncorrectAnswers)

	assert.Contains(t, events.types(), session.EventTimeUp)
}

func TestController_FirstSubmissionCreatesProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 3)})
	require.NoError(t, c.Load(ctx))

	_, ok := f.store.Raw("userProgress")
	require.False(t, ok)

	res, err := c.Submit(ctx, 0, models.AnswerB)
	require.NoError(t, err)
	assert.False(t, res.Correct)

	p, err := f.store.GetProgress(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1, p.IncorrectAnswers)
	assert.Equal(t, 0, p.Streak)
	assert.True(t, f.clock.Now().Equal(p.LastQuizDate))
}

func TestController_SourceFailureErrorsWithoutCaching(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFixture()
	questions := services.NewQuestionService(quizapi.New(srv.URL, "k", 0), f.store)
	c := f.manual(questions)

	err := c.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNetwork))

	snap := c.Snapshot()
	assert.Equal(t, session.StateErrored, snap.State)
	assert.Equal(t, session.LoadErrorMessage, snap.Error)
	assert.Zero(t, snap.Total)

	_, ok := f.store.Raw("quiz_Linux")
	assert.False(t, ok)

	_, err = c.Submit(context.Background(), 0, models.AnswerA)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))
}

func TestController_ZeroQuestionsIsError(t *testing.T) {
	f := newFixture()
	c := f.manual(&stubLoader{questions: []models.Question{}})

	require.Error(t, c.Load(context.Background()))
	assert.Equal(t, session.StateErrored, c.State())
}

func TestController_DoubleSubmitIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 3)},
		session.WithFeedbackDelay(time.Hour))
	defer c.Close()
	require.NoError(t, c.Load(ctx))

	_, err := c.Submit(ctx, 0, models.AnswerA)
	require.NoError(t, err)
	assert.Equal(t, session.StateScored, c.State())

	_, err = c.Submit(ctx, 0, models.AnswerA)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))

	p := f.progress.GetProgress(ctx)
	assert.Equal(t, 1, p.CorrectAnswers, "progress counted once")
}

func TestController_LateAnswerAfterTimeoutIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 3)},
		session.WithTimeLimit(1))
	require.NoError(t, c.Load(ctx))

	c.Tick()
	require.Equal(t, 1, c.Snapshot().Index)

	_, err := c.Submit(ctx, 0, models.AnswerA)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))

	snap := c.Snapshot()
	assert.Equal(t, session.StateAnswering, snap.State)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, 0, snap.Correct)
	assert.Equal(t, 1, snap.Incorrect)
	assert.Empty(t, snap.Answers)

	p := f.progress.GetProgress(ctx)
	assert.Equal(t, 0, p.CorrectAnswers)
	assert.Equal(t, 1, p.IncorrectAnswers)

	_, err = c.Submit(ctx, 2, models.AnswerA)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict), "answers ahead of the current question are rejected too")

	res, err := c.Submit(ctx, 1, models.AnswerA)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Index)
}

type ctxRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *ctxRecorder) RecordAnswer(ctx context.Context, rec models.AnswerRecord) models.UserProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, ctx.Err())
	return models.UserProgress{}
}

func TestController_SubmitRecordsDespiteCancelledRequest(t *testing.T) {
	rec := &ctxRecorder{}
	c := session.NewController(session.Params{ID: "cancel", Category: models.CategoryLinux, Difficulty: models.DifficultyEasy, Limit: 2},
		&stubLoader{questions: testutil.Questions(models.CategoryLinux, 2)}, rec,
		session.WithTickInterval(0), session.WithFeedbackDelay(0))
	require.NoError(t, c.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Submit(ctx, 0, models.AnswerA)
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.errs, 1)
	assert.NoError(t, rec.errs[0])
}

func TestController_UnknownOptionIsValidationError(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 2)})
	require.NoError(t, c.Load(ctx))

	for _, key := range []string{"answer_d", "answer_z", ""} {
		_, err := c.Submit(ctx, 0, key)
		require.Error(t, err, key)
		assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
	}

	snap := c.Snapshot()
	assert.Equal(t, session.StateAnswering, snap.State)
	assert.Equal(t, 0, snap.Index)
	assert.Empty(t, snap.Answers)
}

func TestController_SubmitBeforeLoad(t *testing.T) {
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 2)})

	_, err := c.Submit(context.Background(), 0, models.AnswerA)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))
}

func TestController_LoadTwice(t *testing.T) {
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 2)})

	require.NoError(t, c.Load(context.Background()))
	err := c.Load(context.Background())
	assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))
}

func TestController_CloseWhileLoadingDiscardsResult(t *testing.T) {
	f := newFixture()
	loader := &stubLoader{questions: testutil.Questions(models.CategoryLinux, 2), release: make(chan struct{})}
	c := f.manual(loader)

	done := make(chan error, 1)
	go func() { done <- c.Load(context.Background()) }()

	c.Close()
	close(loader.release)
	require.NoError(t, <-done)

	snap := c.Snapshot()
	assert.Equal(t, session.StateClosed, snap.State)
	assert.Zero(t, snap.Total)
}

func TestController_SnapshotHidesCorrectness(t *testing.T) {
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 1)})
	require.NoError(t, c.Load(context.Background()))

	snap := c.Snapshot()
	require.NotNil(t, snap.Question)
	assert.Len(t, snap.Question.Options, 3)
	assert.Nil(t, snap.LastResult)
}

func TestController_AutomaticTicker(t *testing.T) {
	f := newFixture()
	c := session.NewController(session.Params{ID: "auto", Category: models.CategoryScience, Difficulty: models.DifficultyEasy, Limit: 1},
		&stubLoader{questions: testutil.Questions(models.CategoryScience, 1)}, f.progress,
		session.WithTimeLimit(2), session.WithTickInterval(5*time.Millisecond), session.WithFeedbackDelay(0))
	defer c.Close()

	require.NoError(t, c.Load(context.Background()))
	require.Eventually(t, func() bool {
		return c.State() == session.StateCompleted
	}, 2*time.Second, 5*time.Millisecond)

	p := f.progress.GetProgress(context.Background())
	assert.Equal(t, 1, p.IncorrectAnswers)
	assert.Equal(t, 1, p.TotalQuizzes)
}

func TestController_FeedbackDelayAdvances(t *testing.T) {
	f := newFixture()
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 2)},
		session.WithFeedbackDelay(10*time.Millisecond))
	defer c.Close()
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Submit(context.Background(), 0, models.AnswerA)
	require.NoError(t, err)
	assert.Equal(t, session.StateScored, c.State())

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.State == session.StateAnswering && s.Index == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestController_CloseStopsTimers(t *testing.T) {
	f := newFixture()
	c := session.NewController(session.Params{ID: "closing", Category: models.CategoryLinux, Difficulty: models.DifficultyEasy, Limit: 2},
		&stubLoader{questions: testutil.Questions(models.CategoryLinux, 2)}, f.progress,
		session.WithTimeLimit(1000), session.WithTickInterval(2*time.Millisecond), session.WithFeedbackDelay(5*time.Millisecond))
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Submit(context.Background(), 0, models.AnswerA)
	require.NoError(t, err)
	c.Close()
	c.Close()

	before := c.Snapshot()
	time.Sleep(30 * time.Millisecond)
	after := c.Snapshot()

	assert.Equal(t, session.StateClosed, after.State)
	assert.Equal(t, before.Index, after.Index)
	assert.Equal(t, before.Remaining, after.Remaining)

	_, err = c.Submit(context.Background(), 0, models.AnswerA)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestController_EventSequence(t *testing.T) {
	f := newFixture()
	events := &recorder{}
	c := f.manual(&stubLoader{questions: testutil.Questions(models.CategoryLinux, 2)},
		session.WithTimeLimit(2), session.WithObserver(events.observe))
	require.NoError(t, c.Load(context.Background()))

	c.Tick()
	_, err := c.Submit(context.Background(), 0, models.AnswerA)
	require.NoError(t, err)
	c.Tick()
	c.Tick()

	assert.Equal(t, []session.EventType{
		session.EventQuestion,
		session.EventTick,
		session.EventScored,
		session.EventQuestion,
		session.EventTick,
		session.EventScored,
		session.EventTimeUp,
		session.EventCompleted,
	}, events.types())
}

func TestController_LoaderErrorSurfaces(t *testing.T) {
	f := newFixture()
	c := f.manual(&stubLoader{err: stderrors.New("offline")})

	err := c.Load(context.Background())
	assert.EqualError(t, err, "offline")
	assert.Equal(t, session.StateErrored, c.State())
}
