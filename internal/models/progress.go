package models

import "time"

// UserProgress is the cumulative profile record stored under "userProgress".
type UserProgress struct {
	TotalQuizzes     int       `json:"totalQuizzes"`
	CorrectAnswers   int       `json:"correctAnswers"`
	IncorrectAnswers int       `json:"incorrectAnswers"`
	Streak           int       `json:"streak"`
	LastQuizDate     time.Time `json:"lastQuizDate"`
}

// Answered returns the number of scored questions.
func (p UserProgress) Answered() int {
	return p.CorrectAnswers + p.IncorrectAnswers
}

// AnswerRecord is one scored question. AnswerKey is empty for timeouts.
type AnswerRecord struct {
	ID            int64      `json:"id"`
	SessionID     string     `json:"session_id"`
	QuestionID    int64      `json:"question_id"`
	Category      Category   `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionIndex int        `json:"question_index"`
	AnswerKey     string     `json:"answer_key"`
	Correct       bool       `json:"correct"`
	TimedOut      bool       `json:"timed_out"`
	AnsweredAt    time.Time  `json:"answered_at"`
}

type AnswerFilter struct {
	SessionID string
	Category  Category
	Limit     int
}

type CategoryStat struct {
	Category  Category `json:"category"`
	Correct   int      `json:"correct"`
	Incorrect int      `json:"incorrect"`
	TimedOut  int      `json:"timed_out"`
	Accuracy  int      `json:"accuracy"`
}

// ProgressSummary is the profile view of the progress record.
type ProgressSummary struct {
	UserProgress
	Accuracy   int            `json:"accuracy"`
	LastActive string         `json:"lastActive"`
	Categories []CategoryStat `json:"categories"`
}
