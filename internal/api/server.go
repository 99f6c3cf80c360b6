package api

import (
	"database/sql"

	"github.com/vytor/quizmaster/internal/jobs"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/services"
	"github.com/vytor/quizmaster/internal/session"
)

type Server struct {
	// DB is pinged by the readiness probe; nil when running on in-memory stores.
	DB                *sql.DB
	Sessions          *session.Manager
	QuestionService   services.QuestionService
	ProgressService   services.ProgressService
	JobQueue          jobs.JobQueue
	DefaultDifficulty models.Difficulty
}
