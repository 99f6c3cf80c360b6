package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vytor/quizmaster/internal/logger"
)

// Janitor periodically sweeps idle sessions so abandoned ones release their
// tickers.
type Janitor struct {
	cron    *cron.Cron
	manager *Manager
	idleTTL time.Duration
	log     *logger.Logger
}

func NewJanitor(manager *Manager, schedule string, idleTTL time.Duration) (*Janitor, error) {
	log := logger.Default().WithPrefix("janitor")
	cl := cronLogger{log: log}

	j := &Janitor{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		manager: manager,
		idleTTL: idleTTL,
		log:     log,
	}
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return nil, fmt.Errorf("janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Run performs one sweep.
func (j *Janitor) Run() {
	if n := j.manager.Sweep(j.idleTTL); n > 0 {
		j.log.Info("closed %d idle sessions, %d remaining", n, j.manager.Len())
	}
}

func (j *Janitor) Start() {
	j.log.Info("session janitor started (idle ttl %v)", j.idleTTL)
	j.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.log.Info("session janitor stopped")
}

// cronLogger routes cron's key/value logging through the project logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("%s%s", msg, formatKV(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("%s: %v%s", msg, err, formatKV(keysAndValues))
}

func formatKV(kv []interface{}) string {
	if len(kv) == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		b.WriteString(" ")
		if i+1 < len(kv) {
			fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, "%v", kv[i])
		}
	}
	return b.String()
}
