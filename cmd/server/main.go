package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/quizmaster/internal/api"
	"github.com/vytor/quizmaster/internal/config"
	"github.com/vytor/quizmaster/internal/db"
	"github.com/vytor/quizmaster/internal/jobs"
	"github.com/vytor/quizmaster/internal/logger"
	"github.com/vytor/quizmaster/internal/models"
	"github.com/vytor/quizmaster/internal/quizapi"
	"github.com/vytor/quizmaster/internal/repository"
	"github.com/vytor/quizmaster/internal/repository/memory"
	"github.com/vytor/quizmaster/internal/repository/sqlite"
	"github.com/vytor/quizmaster/internal/services"
	"github.com/vytor/quizmaster/internal/session"
	"github.com/vytor/quizmaster/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("QuizMaster Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("quizapi_base_url=%s", cfg.QuizAPIBaseURL)
	log.Debug("quizapi_timeout=%v", cfg.QuizAPITimeout())
	log.Debug("default_difficulty=%s", cfg.DefaultDifficulty)
	log.Debug("question_limit=%d", cfg.QuestionLimit)
	log.Debug("question_time_limit=%d", cfg.QuestionTimeLimit)
	log.Debug("tick_interval=%v", cfg.TickInterval())
	log.Debug("feedback_delay=%v", cfg.FeedbackDelay())
	log.Debug("session_idle_ttl=%v", cfg.SessionIdleTTL())
	log.Debug("janitor_schedule=%s", cfg.JanitorSchedule)
	log.Debug("prefetch_on_start=%t", cfg.PrefetchOnStart)
	if cfg.QuizAPIKey == "" {
		log.Warn("QUIZAPI_KEY is not set; the question source will likely reject requests")
	}

	var (
		sqlDB   *sql.DB
		store   repository.ProgressStore
		history repository.AnswerHistoryRepository
	)
	if cfg.UseMemoryStore() {
		log.Info("using in-memory stores; progress will not survive a restart")
		store = memory.NewProgressStore()
		history = memory.NewAnswerHistory()
	} else {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Error("failed to open database: %v", err)
			os.Exit(1)
		}
		defer func() {
			log.Debug("closing database connection")
			database.Close()
		}()
		sqlDB = database.DB
		store = sqlite.NewProgressStore(sqlDB)
		history = sqlite.NewAnswerHistoryRepository(sqlDB)
	}

	defaultDifficulty, _ := models.ParseDifficulty(cfg.DefaultDifficulty)

	quizClient := quizapi.New(cfg.QuizAPIBaseURL, cfg.QuizAPIKey, cfg.QuizAPITimeout())
	questionService := services.NewQuestionService(quizClient, store)
	progressService := services.NewProgressService(store, history)

	eventLog := log.WithPrefix("quiz")
	sessions := session.NewManager(questionService, progressService, cfg.QuestionLimit, defaultDifficulty,
		session.WithTimeLimit(cfg.QuestionTimeLimit),
		session.WithTickInterval(cfg.TickInterval()),
		session.WithFeedbackDelay(cfg.FeedbackDelay()),
		session.WithObserver(func(ev session.Event) {
			switch ev.Type {
			case session.EventTick:
				return
			case session.EventErrored:
				eventLog.Warn("session %s: %s", ev.SessionID, ev.Message)
			default:
				eventLog.Debug("session %s: %s index=%d remaining=%d correct=%t", ev.SessionID, ev.Type, ev.Index, ev.Remaining, ev.Correct)
			}
		}),
	)

	janitor, err := session.NewJanitor(sessions, cfg.JanitorSchedule, cfg.SessionIdleTTL())
	if err != nil {
		log.Error("failed to create session janitor: %v", err)
		os.Exit(1)
	}

	prefetchPool := worker.NewPool(cfg.PrefetchWorkerCount, cfg.PrefetchQueueSize)
	jobQueue := jobs.NewWorkerQueue(prefetchPool, questionService, cfg.QuestionLimit)

	srv := &api.Server{
		DB:                sqlDB,
		Sessions:          sessions,
		QuestionService:   questionService,
		ProgressService:   progressService,
		JobQueue:          jobQueue,
		DefaultDifficulty: defaultDifficulty,
	}

	ctx, cancel := context.WithCancel(context.Background())
	prefetchPool.Start(ctx)
	janitor.Start()

	if cfg.PrefetchOnStart {
		for _, category := range questionService.Categories() {
			if err := jobQueue.EnqueuePrefetch(category, defaultDifficulty); err != nil {
				log.Warn("failed to enqueue prefetch for %s: %v", category, err)
			}
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping session janitor")
	janitor.Stop()
	log.Debug("closing %d open sessions", sessions.Len())
	sessions.CloseAll()

	log.Debug("stopping prefetch pool")
	cancel()
	prefetchPool.Stop()

	log.Info("===========================================")
	log.Info("QuizMaster Server Stopped")
	log.Info("===========================================")
}
