package session

import (
	"time"

	"github.com/vytor/quizmaster/internal/models"
)

// QuestionView is a question as shown to the player: no correctness flags,
// no explanation.
type QuestionView struct {
	ID                     int64             `json:"id"`
	Question               string            `json:"question"`
	Description            *string           `json:"description,omitempty"`
	Options                []models.Option   `json:"options"`
	MultipleCorrectAnswers bool              `json:"multiple_correct_answers"`
	Tip                    *string           `json:"tip,omitempty"`
	Tags                   []models.Tag      `json:"tags"`
	Category               string            `json:"category"`
	Difficulty             models.Difficulty `json:"difficulty"`
}

func newQuestionView(q models.Question) *QuestionView {
	tags := q.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return &QuestionView{
		ID:                     q.ID,
		Question:               q.Question,
		Description:            q.Description,
		Options:                q.Options(),
		MultipleCorrectAnswers: q.MultipleCorrectAnswers == "true",
		Tip:                    q.Tip,
		Tags:                   tags,
		Category:               q.Category,
		Difficulty:             q.Difficulty,
	}
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID           string            `json:"id"`
	Category     models.Category   `json:"category"`
	Difficulty   models.Difficulty `json:"difficulty"`
	State        State             `json:"state"`
	Index        int               `json:"index"`
	Total        int               `json:"total"`
	Question     *QuestionView     `json:"question,omitempty"`
	Remaining    int               `json:"remaining_seconds"`
	Answers      []string          `json:"answers"`
	Correct      int               `json:"correct"`
	Incorrect    int               `json:"incorrect"`
	LastResult   *Result           `json:"last_result,omitempty"`
	Error        string            `json:"error,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActivity time.Time         `json:"last_activity"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		ID:           c.id,
		Category:     c.category,
		Difficulty:   c.difficulty,
		State:        c.state,
		Index:        c.index,
		Total:        len(c.questions),
		Remaining:    c.remaining,
		Answers:      append([]string{}, c.answers...),
		Correct:      c.correct,
		Incorrect:    c.incorrect,
		Error:        c.errMsg,
		CreatedAt:    c.createdAt,
		LastActivity: c.lastActivity,
	}
	if c.state == StateAnswering || c.state == StateScored {
		s.Question = newQuestionView(c.questions[c.index])
	}
	if c.lastResult != nil {
		res := *c.lastResult
		s.LastResult = &res
	}
	return s
}
