package quizapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/models"
)

// decodeQuestions turns a response body into validated questions. The body
// must be a JSON array whose first element carries a non-empty "question";
// every element must then satisfy models.Question.Validate.
func decodeQuestions(body []byte) ([]models.Question, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, errors.NewFormatError("body is not a list of questions", err)
	}
	if len(raw) == 0 {
		return []models.Question{}, nil
	}

	var probe struct {
		Question *string `json:"question"`
	}
	if err := json.Unmarshal(raw[0], &probe); err != nil || probe.Question == nil || strings.TrimSpace(*probe.Question) == "" {
		return nil, errors.NewFormatError("first element has no question field", err)
	}

	questions := make([]models.Question, 0, len(raw))
	for i, item := range raw {
		var q models.Question
		if err := json.Unmarshal(item, &q); err != nil {
			return nil, errors.NewFormatError(fmt.Sprintf("element %d does not decode", i), err)
		}
		if err := q.Validate(); err != nil {
			return nil, errors.NewFormatError(fmt.Sprintf("element %d is invalid", i), err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
