package config

import (
	stderrors "errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/vytor/quizmaster/internal/models"
)

// MemoryDBPath selects the in-memory stores instead of SQLite.
const MemoryDBPath = "memory"

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	QuizAPIBaseURL        string
	QuizAPIKey            string
	QuizAPITimeoutSeconds int
	DefaultDifficulty     string
	QuestionLimit         int
	QuestionTimeLimit     int
	TickIntervalMs        int
	FeedbackDelayMs       int
	SessionIdleTTLMinutes int
	JanitorSchedule       string
	PrefetchOnStart       bool
	PrefetchWorkerCount   int
	PrefetchQueueSize     int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:quizmaster.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		QuizAPIBaseURL:        envOr("QUIZAPI_BASE_URL", "https://quizapi.io/api/v1"),
		QuizAPIKey:            strings.TrimSpace(os.Getenv("QUIZAPI_KEY")),
		QuizAPITimeoutSeconds: envIntOr("QUIZAPI_TIMEOUT_SECONDS", 0),
		DefaultDifficulty:     envOr("DEFAULT_DIFFICULTY", string(models.DifficultyMedium)),
		QuestionLimit:         envIntOr("QUESTION_LIMIT", 10),
		QuestionTimeLimit:     envIntOr("QUESTION_TIME_LIMIT", 30),
		TickIntervalMs:        envIntOr("TICK_INTERVAL_MS", 1000),
		FeedbackDelayMs:       envIntOr("FEEDBACK_DELAY_MS", 1000),
		SessionIdleTTLMinutes: envIntOr("SESSION_IDLE_TTL_MINUTES", 30),
		JanitorSchedule:       envOr("JANITOR_SCHEDULE", "@every 1m"),
		PrefetchOnStart:       envBoolOr("PREFETCH_ON_START", false),
		PrefetchWorkerCount:   envIntOr("PREFETCH_WORKER_COUNT", 2),
		PrefetchQueueSize:     envIntOr("PREFETCH_QUEUE_SIZE", 16),
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, stderrors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, stderrors.New("DB_PATH cannot be empty"))
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}

	if u, err := url.Parse(c.QuizAPIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("QUIZAPI_BASE_URL must be an absolute URL (got %q)", c.QuizAPIBaseURL))
	}
	if c.QuizAPITimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("QUIZAPI_TIMEOUT_SECONDS cannot be negative (got %d)", c.QuizAPITimeoutSeconds))
	}
	if _, err := models.ParseDifficulty(c.DefaultDifficulty); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_DIFFICULTY: %v", err))
	}
	if c.QuestionLimit < 1 {
		errs = append(errs, fmt.Errorf("QUESTION_LIMIT must be positive (got %d)", c.QuestionLimit))
	}
	if c.QuestionTimeLimit < 1 {
		errs = append(errs, fmt.Errorf("QUESTION_TIME_LIMIT must be positive (got %d)", c.QuestionTimeLimit))
	}
	if c.TickIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("TICK_INTERVAL_MS cannot be negative (got %d)", c.TickIntervalMs))
	}
	if c.FeedbackDelayMs < 0 {
		errs = append(errs, fmt.Errorf("FEEDBACK_DELAY_MS cannot be negative (got %d)", c.FeedbackDelayMs))
	}
	if c.SessionIdleTTLMinutes < 1 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TTL_MINUTES must be positive (got %d)", c.SessionIdleTTLMinutes))
	}
	if _, err := cron.ParseStandard(c.JanitorSchedule); err != nil {
		errs = append(errs, fmt.Errorf("JANITOR_SCHEDULE is invalid: %v", err))
	}
	if c.PrefetchWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("PREFETCH_WORKER_COUNT must be positive (got %d)", c.PrefetchWorkerCount))
	}
	if c.PrefetchQueueSize < 1 {
		errs = append(errs, fmt.Errorf("PREFETCH_QUEUE_SIZE must be positive (got %d)", c.PrefetchQueueSize))
	}

	return stderrors.Join(errs...)
}

// UseMemoryStore reports whether DB_PATH selects the in-memory stores.
func (c *Config) UseMemoryStore() bool {
	return strings.EqualFold(c.DBPath, MemoryDBPath)
}

func (c *Config) QuizAPITimeout() time.Duration {
	return time.Duration(c.QuizAPITimeoutSeconds) * time.Second
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

func (c *Config) FeedbackDelay() time.Duration {
	return time.Duration(c.FeedbackDelayMs) * time.Millisecond
}

func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleTTLMinutes) * time.Minute
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
