package models

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryLinux            Category = "Linux"
	CategoryProgramming      Category = "Programming"
	CategoryGeneralKnowledge Category = "General Knowledge"
	CategoryScience          Category = "Science"
)

// Categories lists the selectable categories in display order.
var Categories = []Category{
	CategoryLinux,
	CategoryProgramming,
	CategoryGeneralKnowledge,
	CategoryScience,
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty matches s case-insensitively against the known difficulties.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	for _, d := range Difficulties {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Query returns the lowercased form the question source expects.
func (d Difficulty) Query() string {
	return strings.ToLower(string(d))
}

// Answer slot identifiers.
const (
	AnswerA = "answer_a"
	AnswerB = "answer_b"
	AnswerC = "answer_c"
	AnswerD = "answer_d"
	AnswerE = "answer_e"
	AnswerF = "answer_f"
)

// AnswerKeys lists the six slots in order.
var AnswerKeys = []string{AnswerA, AnswerB, AnswerC, AnswerD, AnswerE, AnswerF}

type Answers struct {
	AnswerA *string `json:"answer_a"`
	AnswerB *string `json:"answer_b"`
	AnswerC *string `json:"answer_c"`
	AnswerD *string `json:"answer_d"`
	AnswerE *string `json:"answer_e"`
	AnswerF *string `json:"answer_f"`
}

// Slot returns the text of the named slot, nil when absent or unknown.
func (a Answers) Slot(key string) *string {
	switch key {
	case AnswerA:
		return a.AnswerA
	case AnswerB:
		return a.AnswerB
	case AnswerC:
		return a.AnswerC
	case AnswerD:
		return a.AnswerD
	case AnswerE:
		return a.AnswerE
	case AnswerF:
		return a.AnswerF
	}
	return nil
}

// CorrectAnswers holds "true"/"false" per slot, keyed "<slot>_correct".
type CorrectAnswers struct {
	AnswerACorrect string `json:"answer_a_correct"`
	AnswerBCorrect string `json:"answer_b_correct"`
	AnswerCCorrect string `json:"answer_c_correct"`
	AnswerDCorrect string `json:"answer_d_correct"`
	AnswerECorrect string `json:"answer_e_correct"`
	AnswerFCorrect string `json:"answer_f_correct"`
}

// Flag returns the raw correctness flag for the named slot.
func (c CorrectAnswers) Flag(key string) string {
	switch key {
	case AnswerA:
		return c.AnswerACorrect
	case AnswerB:
		return c.AnswerBCorrect
	case AnswerC:
		return c.AnswerCCorrect
	case AnswerD:
		return c.AnswerDCorrect
	case AnswerE:
		return c.AnswerECorrect
	case AnswerF:
		return c.AnswerFCorrect
	}
	return ""
}

type Tag struct {
	Name string `json:"name"`
}

// Question mirrors one record of the question source. It is immutable once
// decoded and cached verbatim.
type Question struct {
	ID                     int64          `json:"id"`
	Question               string         `json:"question"`
	Description            *string        `json:"description"`
	Answers                Answers        `json:"answers"`
	MultipleCorrectAnswers string         `json:"multiple_correct_answers"`
	CorrectAnswers         CorrectAnswers `json:"correct_answers"`
	CorrectAnswer          *string        `json:"correct_answer"`
	Explanation            *string        `json:"explanation"`
	Tip                    *string        `json:"tip"`
	Tags                   []Tag          `json:"tags"`
	Category               string         `json:"category"`
	Difficulty             Difficulty     `json:"difficulty"`
}

// Option is a present answer slot.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Options returns the present answer slots in slot order.
func (q Question) Options() []Option {
	opts := make([]Option, 0, len(AnswerKeys))
	for _, key := range AnswerKeys {
		if text := q.Answers.Slot(key); text != nil {
			opts = append(opts, Option{Key: key, Text: *text})
		}
	}
	return opts
}

// HasOption reports whether key names a present answer slot.
func (q Question) HasOption(key string) bool {
	return q.Answers.Slot(key) != nil
}

// IsCorrect reports whether the slot's correctness flag is "true".
func (q Question) IsCorrect(key string) bool {
	return q.CorrectAnswers.Flag(key) == "true"
}

// Validate enforces the question shape: a prompt, at least one present slot,
// and a "true"/"false" flag for every present slot.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question %d: missing prompt", q.ID)
	}
	present := 0
	for _, key := range AnswerKeys {
		if q.Answers.Slot(key) == nil {
			continue
		}
		present++
		switch q.CorrectAnswers.Flag(key) {
		case "true", "false":
		default:
			return fmt.Errorf("question %d: %s_correct must be \"true\" or \"false\"", q.ID, key)
		}
	}
	if present == 0 {
		return fmt.Errorf("question %d: no answer options", q.ID)
	}
	return nil
}
