// Package jobs runs the scheduled background work of the emmotion API,
// currently the periodic content refresh.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps a cron runner. Jobs are registered by name so a
// double registration is caught at startup instead of running twice.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// NewScheduler builds a scheduler whose jobs never overlap themselves
// and never take the process down on panic.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Start begins executing registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler")
	s.cron.Start()
}

// Stop halts scheduling. The returned context is done once jobs that
// are still running have finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers job under name with a standard cron expression
// ("15 * * * *", "@hourly", "@every 15m").
func (s *Scheduler) AddJob(name string, cronExpr string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		start := time.Now()
		s.logger.Info("running scheduled job", zap.String("job_name", name))
		job()
		s.logger.Info("completed scheduled job",
			zap.String("job_name", name),
			zap.Duration("duration", time.Since(start)))
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("cron_expr", cronExpr))
	return nil
}

// GetJobNames lists the registered job names.
func (s *Scheduler) GetJobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}
