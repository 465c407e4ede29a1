package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shelfmetrics/stockwatch/internal/domain/scheduler"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
)

// Sweeper triggers timed scheduler runs at a fixed interval
type Sweeper struct {
	scheduler scheduler.Service
	interval  time.Duration
	logger    *logger.Logger

	cron *cron.Cron
}

// NewSweeper creates a new periodic sweep worker
func NewSweeper(svc scheduler.Service, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		scheduler: svc,
		interval:  interval,
		logger:    log,
	}
}

// Start schedules the periodic sweep and runs an initial one immediately.
// The ctx bounds every triggered run.
func (s *Sweeper) Start(ctx context.Context) error {
	s.cron = cron.New()

	spec := fmt.Sprintf("@every %s", s.interval)
	_, err := s.cron.AddFunc(spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.logger.WithFields(map[string]interface{}{
		"interval": s.interval.String(),
	}).Info("Sweep worker started")

	// Initial sweep so a fresh deployment does not wait a full interval
	go s.run(ctx)

	return nil
}

// Stop stops the cron schedule and waits for any running jobs to finish
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.logger.Info("Sweep worker stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	report, err := s.scheduler.Run(ctx, scheduler.TriggerTimed, "")
	if err != nil {
		s.logger.ErrorWithErr(err, "Timed scheduler run failed")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":     report.RunID,
		"workspaces": report.Summary.WorkspacesChecked,
		"failed":     report.Summary.FailedChecks,
	}).Info("Timed sweep completed")
}
