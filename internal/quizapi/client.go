package quizapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vytor/quizmaster/internal/errors"
	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
)

// Client talks to the remote question bank. Each call is a single attempt:
// there is no retry or backoff.
type Client struct {
	http   *resty.Client
	apiKey string
	log    *logger.Logger
}

// New creates a client for baseURL (e.g. https://quizapi.io/api/v1). A zero
// timeout leaves the request bounded only by the caller's context.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	log := logger.Default().WithPrefix("quizapi")

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})
	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}

	return &Client{
		http:   httpClient,
		apiKey: strings.TrimSpace(apiKey),
		log:    log,
	}
}

func (c *Client) FetchQuestions(ctx context.Context, category models.Category, difficulty models.Difficulty, limit int) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("quizapi").WithFields(map[string]any{
		"category":   category,
		"difficulty": difficulty,
	})

	if _, err := models.ParseCategory(string(category)); err != nil {
		return nil, errors.NewValidationError("category", err.Error())
	}
	if _, err := models.ParseDifficulty(string(difficulty)); err != nil {
		return nil, errors.NewValidationError("difficulty", err.Error())
	}
	if limit <= 0 {
		return nil, errors.NewValidationError("limit", "must be a positive integer")
	}

	log.Debug("fetching up to %d questions", limit)
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":     c.apiKey,
			"category":   string(category),
			"difficulty": difficulty.Query(),
			"limit":      strconv.Itoa(limit),
		}).
		Get("/questions")
	if err != nil {
		log.Error("failed to fetch questions: %v", err)
		return nil, errors.NewNetworkError("failed to fetch questions", err)
	}

	log.Debug("questions response received in %v, status=%d", time.Since(start), resp.StatusCode())

	if !resp.IsSuccess() {
		body := resp.Body()
		if len(body) > 1024 {
			body = body[:1024]
		}
		log.Error("questions request failed: status=%d, body=%s", resp.StatusCode(), string(body))
		return nil, errors.NewNetworkError(
			fmt.Sprintf("failed to fetch questions. Status: %d", resp.StatusCode()),
			fmt.Errorf("status %d: %s", resp.StatusCode(), string(body)),
		)
	}

	questions, err := decodeQuestions(resp.Body())
	if err != nil {
		log.Error("failed to decode questions response: %v", err)
		return nil, err
	}

	if len(questions) > limit {
		log.Warn("source returned %d questions for limit %d, truncating", len(questions), limit)
		questions = questions[:limit]
	}

	log.Info("fetched %d questions", len(questions))
	return questions, nil
}

// restyLogger routes resty's internal messages through the project logger.
type restyLogger struct {
	log *logger.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warn(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug(format, v...) }
