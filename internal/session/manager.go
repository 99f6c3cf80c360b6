package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
)

// Manager is the registry of live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Controller

	loader            QuestionLoader
	recorder          AnswerRecorder
	limit             int
	defaultDifficulty models.Difficulty
	opts              []Option
	now               func() time.Time
}

func NewManager(loader QuestionLoader, recorder AnswerRecorder, limit int, defaultDifficulty models.Difficulty, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if defaultDifficulty == "" {
		defaultDifficulty = models.DifficultyMedium
	}
	return &Manager{
		sessions:          make(map[string]*Controller),
		loader:            loader,
		recorder:          recorder,
		limit:             limit,
		defaultDifficulty: defaultDifficulty,
		opts:              opts,
		now:               o.now,
	}
}

// Start opens a session for category and loads it. A load failure is not
// an error here: the session is returned in the errored state.
func (m *Manager) Start(ctx context.Context, category, difficulty string) (*Controller, error) {
	log := logger.FromContext(ctx)

	cat, err := models.ParseCategory(category)
	if err != nil {
		return nil, errors.NewValidationError("category", err.Error())
	}
	diff := m.defaultDifficulty
	if difficulty != "" {
		if diff, err = models.ParseDifficulty(difficulty); err != nil {
			return nil, errors.NewValidationError("difficulty", err.Error())
		}
	}

	c := NewController(Params{
		ID:         uuid.NewString(),
		Category:   cat,
		Difficulty: diff,
		Limit:      m.limit,
	}, m.loader, m.recorder, m.opts...)

	m.mu.Lock()
	m.sessions[c.ID()] = c
	m.mu.Unlock()

	log.Info("starting quiz session %s: category=%s, difficulty=%s", c.ID(), cat, diff)
	if err := c.Load(ctx); err != nil {
		log.Warn("quiz session %s failed to load: %v", c.ID(), err)
	}
	return c, nil
}

// Get returns the session with id and marks it active.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	c, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("quiz session", id)
	}
	c.touch()
	return c, nil
}

// Close tears down and forgets the session with id.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	c, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return errors.NewNotFoundError("quiz session", id)
	}
	c.Close()
	return nil
}

// Sweep closes every session idle for longer than idleTTL and returns how
// many were removed.
func (m *Manager) Sweep(idleTTL time.Duration) int {
	cutoff := m.now().Add(-idleTTL)

	m.mu.Lock()
	var stale []*Controller
	for id, c := range m.sessions {
		if c.LastActivity().Before(cutoff) {
			stale = append(stale, c)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	return len(stale)
}

// CloseAll tears down every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Controller)
	m.mu.Unlock()

	for _, c := range sessions {
		c.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
