package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
)

// LoadErrorMessage is shown when a session cannot get its questions.
const LoadErrorMessage = "Failed to load questions. Please try again later."

// QuestionLoader supplies the questions of a new session.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) ([]models.Question, error)
}

// AnswerRecorder persists one scored question and returns the updated
// progress record.
type AnswerRecorder interface {
	RecordAnswer(ctx context.Context, rec models.AnswerRecord) models.UserProgress
}

type Params struct {
	ID         string
	Category   models.Category
	Difficulty models.Difficulty
	Limit      int
}

// Result describes how a question was scored.
type Result struct {
	Index       int                 `json:"index"`
	QuestionID  int64               `json:"question_id"`
	AnswerKey   string              `json:"answer,omitempty"`
	Correct     bool                `json:"correct"`
	TimedOut    bool                `json:"timed_out"`
	CorrectKeys []string            `json:"correct_answers"`
	Explanation *string             `json:"explanation,omitempty"`
	Progress    models.UserProgress `json:"progress"`
}

// Controller drives one quiz session: load, a countdown per question,
// scoring and advancement. All transitions are serialised by mu, including
// the progress write done while scoring.
type Controller struct {
	mu sync.Mutex

	id         string
	category   models.Category
	difficulty models.Difficulty
	limit      int

	loader   QuestionLoader
	recorder AnswerRecorder
	opts     options
	ctx      context.Context
	log      *logger.Logger

	state       State
	loadStarted bool
	questions   []models.Question
	index       int
	answers     []string
	scored      []bool
	remaining   int
	correct     int
	incorrect   int
	lastResult  *Result
	errMsg      string

	createdAt    time.Time
	lastActivity time.Time

	countdown    countdown
	advanceGen   uint64
	advanceTimer *time.Timer
}

func NewController(p Params, loader QuestionLoader, recorder AnswerRecorder, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.Default().WithPrefix("session").WithField("session", p.ID)
	now := o.now()

	return &Controller{
		id:           p.ID,
		category:     p.Category,
		difficulty:   p.Difficulty,
		limit:        p.Limit,
		loader:       loader,
		recorder:     recorder,
		opts:         o,
		ctx:          logger.NewContext(context.Background(), log),
		log:          log,
		state:        StateLoading,
		answers:      []string{},
		createdAt:    now,
		lastActivity: now,
		countdown:    countdown{interval: o.tickInterval},
	}
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// Load fetches the session's questions. On failure, or when none come back,
// the session becomes errored and the cause is returned. A result arriving
// after Close is dropped.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.loadStarted {
		state := c.state
		c.mu.Unlock()
		return errors.NewConflictError(fmt.Sprintf("session already loaded (state=%s)", state))
	}
	c.loadStarted = true
	c.mu.Unlock()

	questions, err := c.loader.LoadQuestions(ctx, c.category, c.difficulty, c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		c.log.Debug("session closed while loading, discarding %d questions", len(questions))
		return nil
	}
	c.touchLocked()

	if err == nil && len(questions) == 0 {
		err = fmt.Errorf("no questions available for %s", c.category)
	}
	if err != nil {
		c.log.Warn("failed to load questions: %v", err)
		c.state = StateErrored
		c.errMsg = LoadErrorMessage
		c.emit(Event{Type: EventErrored, Message: LoadErrorMessage})
		return err
	}

	c.questions = questions
	c.scored = make([]bool, len(questions))
	c.state = StateReady
	c.log.Debug("loaded %d questions", len(questions))

	c.startQuestionLocked(0)
	return nil
}

// Tick decrements the countdown of the current question. At zero the
// question is scored as a timeout and the session advances. Outside the
// answering state it does nothing.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickLocked()
}

func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.countdown.current(gen) {
		return
	}
	c.tickLocked()
}

func (c *Controller) tickLocked() {
	if c.state != StateAnswering {
		return
	}

	c.remaining--
	if c.remaining > 0 {
		c.emit(Event{Type: EventTick})
		return
	}

	c.remaining = 0
	c.countdown.stop()
	c.log.Debug("time up on question %d", c.index)

	c.scoreLocked(c.ctx, "", false, true)
	c.emit(Event{Type: EventTimeUp})
	c.advanceLocked()
}

// Submit scores answerKey against the question at index, which must be the
// current one. An answer for any other question, such as one that already
// timed out, is a conflict, and so is a second submission for the same
// question. Progress is written even if ctx is cancelled mid-request.
func (c *Controller) Submit(ctx context.Context, index int, answerKey string) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == StateClosed:
		return Result{}, errors.NewNotFoundError("quiz session", c.id)
	case c.questions != nil && index != c.index:
		return Result{}, errors.NewConflictError(fmt.Sprintf("answer is for question %d but question %d is current", index, c.index))
	case c.state == StateScored, c.state == StateAnswering && c.scored[c.index]:
		return Result{}, errors.NewConflictError(fmt.Sprintf("question %d has already been answered", c.index))
	case c.state != StateAnswering:
		return Result{}, errors.NewConflictError(fmt.Sprintf("session is %s and does not accept answers", c.state))
	}

	answerKey = strings.ToLower(strings.TrimSpace(answerKey))
	q := c.questions[c.index]
	if !q.HasOption(answerKey) {
		return Result{}, errors.NewValidationError("answer", fmt.Sprintf("%q is not an option of the current question", answerKey))
	}

	c.countdown.stop()
	c.touchLocked()

	res := c.scoreLocked(context.WithoutCancel(ctx), answerKey, q.IsCorrect(answerKey), false)
	c.scheduleAdvanceLocked()
	return res, nil
}

// Close tears the session down. Progress already recorded stays.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return
	}
	c.countdown.stop()
	c.advanceGen++
	if c.advanceTimer != nil {
		c.advanceTimer.Stop()
		c.advanceTimer = nil
	}
	c.log.Debug("session closed in state %s", c.state)
	c.state = StateClosed
}

func (c *Controller) scoreLocked(ctx context.Context, answerKey string, correct, timedOut bool) Result {
	q := c.questions[c.index]

	if answerKey != "" {
		c.answers = append(c.answers, answerKey)
	}
	c.scored[c.index] = true
	if correct {
		c.correct++
	} else {
		c.incorrect++
	}

	progress := c.recorder.RecordAnswer(ctx, models.AnswerRecord{
		SessionID:     c.id,
		QuestionID:    q.ID,
		Category:      c.category,
		Difficulty:    c.difficulty,
		QuestionIndex: c.index,
		AnswerKey:     answerKey,
		Correct:       correct,
		TimedOut:      timedOut,
		AnsweredAt:    c.opts.now(),
	})

	res := Result{
		Index:       c.index,
		QuestionID:  q.ID,
		AnswerKey:   answerKey,
		Correct:     correct,
		TimedOut:    timedOut,
		CorrectKeys: correctKeys(q),
		Explanation: q.Explanation,
		Progress:    progress,
	}
	c.lastResult = &res
	c.state = StateScored
	c.emit(Event{Type: EventScored, Correct: correct})
	return res
}

func (c *Controller) scheduleAdvanceLocked() {
	if c.opts.feedbackDelay <= 0 {
		c.advanceLocked()
		return
	}

	c.advanceGen++
	gen := c.advanceGen
	c.advanceTimer = time.AfterFunc(c.opts.feedbackDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.advanceGen || c.state != StateScored {
			return
		}
		c.advanceTimer = nil
		c.advanceLocked()
	})
}

func (c *Controller) advanceLocked() {
	if c.index+1 < len(c.questions) {
		c.startQuestionLocked(c.index + 1)
		return
	}
	c.countdown.stop()
	c.state = StateCompleted
	c.log.Debug("session completed: correct=%d, incorrect=%d", c.correct, c.incorrect)
	c.emit(Event{Type: EventCompleted})
}

func (c *Controller) startQuestionLocked(i int) {
	c.index = i
	c.state = StateAnswering
	c.remaining = c.opts.timeLimit
	c.emit(Event{Type: EventQuestion})
	c.countdown.start(c.onTick)
}

func (c *Controller) emit(ev Event) {
	if c.opts.observer == nil {
		return
	}
	ev.SessionID = c.id
	ev.Index = c.index
	ev.Remaining = c.remaining
	c.opts.observer(ev)
}

func (c *Controller) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
}

func (c *Controller) touchLocked() {
	c.lastActivity = c.opts.now()
}

func correctKeys(q models.Question) []string {
	keys := []string{}
	for _, opt := range q.Options() {
		if q.IsCorrect(opt.Key) {
			keys = append(keys, opt.Key)
		}
	}
	return keys
}
