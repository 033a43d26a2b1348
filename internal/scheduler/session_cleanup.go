// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// Scheduler purges expired and revoked sessions on a cron spec with a
// seconds field, e.g. "0 */30 * * * *".
type Scheduler struct {
	cron     *cron.Cron
	sessions SessionCleaner
	spec     string
	timeout  time.Duration
	log      *zap.Logger
}

func New(sessions SessionCleaner, spec string, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
		spec:     spec,
		timeout:  30 * time.Second,
		log:      log.With(zap.String("component", "scheduler")),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.cleanSessions); err != nil {
		return fmt.Errorf("schedule session cleanup %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info("Scheduler started", zap.String("session_cleanup", s.spec))
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) cleanSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.sessions.CleanExpiredSessions(ctx)
	if err != nil {
		s.log.Error("Session cleanup failed", zap.Error(err))
		return
	}
	s.log.Info("Session cleanup done", zap.Int64("removed", n))
}
