package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shelfmetrics/stockwatch/internal/config"
	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
	"github.com/shelfmetrics/stockwatch/internal/domain/product"
	"github.com/shelfmetrics/stockwatch/internal/domain/scheduler"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/pkg/metrics"
	"github.com/shelfmetrics/stockwatch/internal/pkg/retry"
)

const recentRunsLimit = 10

// SchedulerService implements scheduler.Service. It fans sweeps out across
// workspaces with bounded concurrency and retries each workspace with
// exponential backoff; one workspace's exhausted retries never abort the rest.
type SchedulerService struct {
	engine    alert.Engine
	products  product.Repository
	auditor   audit.Writer
	auditRepo audit.Repository
	cfg       config.AlertingConfig
	logger    *logger.Logger
}

// NewSchedulerService creates a new sweep scheduler
func NewSchedulerService(
	engine alert.Engine,
	products product.Repository,
	auditor audit.Writer,
	auditRepo audit.Repository,
	cfg config.AlertingConfig,
	log *logger.Logger,
) scheduler.Service {
	return &SchedulerService{
		engine:    engine,
		products:  products,
		auditor:   auditor,
		auditRepo: auditRepo,
		cfg:       cfg,
		logger:    log,
	}
}

// Run sweeps every active workspace, or only workspaceID when given
func (s *SchedulerService) Run(ctx context.Context, trigger scheduler.Trigger, workspaceID string) (*scheduler.RunReport, error) {
	start := time.Now()
	runID := uuid.New().String()

	workspaces, err := s.resolveWorkspaces(ctx, workspaceID)
	if err != nil {
		s.auditor.Log(ctx, audit.ActorScheduler, audit.ActionSchedulerError, audit.TargetScheduler,
			runID, map[string]interface{}{
				"trigger": string(trigger),
				"error":   err.Error(),
			})
		return nil, fmt.Errorf("failed to enumerate workspaces: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":     runID,
		"trigger":    string(trigger),
		"workspaces": len(workspaces),
	}).Info("Starting scheduler run")

	results := make([]scheduler.WorkspaceResult, len(workspaces))
	sem := make(chan struct{}, s.cfg.SweepConcurrency)
	var wg sync.WaitGroup

	for i, ws := range workspaces {
		wg.Add(1)
		go func(i int, ws string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = s.checkWorkspace(ctx, ws)
		}(i, ws)
	}
	wg.Wait()

	summary := scheduler.Summary{
		WorkspacesChecked: len(workspaces),
		DurationMs:        time.Since(start).Milliseconds(),
	}
	for _, res := range results {
		if res.Success {
			summary.SuccessfulChecks++
		} else {
			summary.FailedChecks++
		}
	}

	metrics.RecordSchedulerRun(string(trigger), summary.SuccessfulChecks, summary.FailedChecks)

	payload := map[string]interface{}{
		"trigger":            string(trigger),
		"workspaces_checked": summary.WorkspacesChecked,
		"successful_checks":  summary.SuccessfulChecks,
		"failed_checks":      summary.FailedChecks,
		"duration_ms":        summary.DurationMs,
	}
	if workspaceID != "" {
		payload["workspace_id"] = workspaceID
	}
	s.auditor.Log(ctx, audit.ActorScheduler, audit.ActionSchedulerRun, audit.TargetScheduler, runID, payload)

	s.logger.WithFields(map[string]interface{}{
		"run_id":     runID,
		"successful": summary.SuccessfulChecks,
		"failed":     summary.FailedChecks,
		"duration":   summary.DurationMs,
	}).Info("Scheduler run completed")

	return &scheduler.RunReport{
		RunID:     runID,
		Trigger:   trigger,
		StartedAt: start,
		Summary:   summary,
		Results:   results,
	}, nil
}

// checkWorkspace runs one workspace's sweep wrapped in retry with
// exponential backoff, returning its terminal outcome
func (s *SchedulerService) checkWorkspace(ctx context.Context, workspaceID string) scheduler.WorkspaceResult {
	var (
		attempts int
		result   *alert.SweepResult
	)

	err := retry.Do(ctx, s.cfg.RetryAttempts, retry.Exponential(s.cfg.BaseDelay), func(ctx context.Context) error {
		attempts++
		var sweepErr error
		result, sweepErr = s.engine.Sweep(ctx, workspaceID)
		if sweepErr != nil {
			s.logger.WithFields(map[string]interface{}{
				"workspace_id": workspaceID,
				"attempt":      attempts,
			}).ErrorWithErr(sweepErr, "Workspace sweep attempt failed")
		}
		return sweepErr
	})

	if err != nil {
		return scheduler.WorkspaceResult{
			WorkspaceID: workspaceID,
			Success:     false,
			Attempts:    attempts,
			Error:       err.Error(),
		}
	}

	return scheduler.WorkspaceResult{
		WorkspaceID: workspaceID,
		Success:     true,
		Attempts:    attempts,
		Result:      result,
	}
}

func (s *SchedulerService) resolveWorkspaces(ctx context.Context, workspaceID string) ([]string, error) {
	if workspaceID != "" {
		return []string{workspaceID}, nil
	}
	return s.products.Workspaces(ctx)
}

// Status returns recent runs, active workspaces, and static configuration
func (s *SchedulerService) Status(ctx context.Context) (*scheduler.Status, error) {
	workspaces, err := s.products.Workspaces(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.auditRepo.RecentByAction(ctx, audit.ActionSchedulerRun, recentRunsLimit)
	if err != nil {
		// Observability only: serve what we have rather than failing the query
		s.logger.ErrorWithErr(err, "Failed to load recent scheduler runs")
		recent = nil
	}

	return &scheduler.Status{
		ActiveWorkspaces: workspaces,
		RecentRuns:       recent,
		Configuration: scheduler.Configuration{
			CheckIntervalMinutes: int(s.cfg.CheckInterval.Minutes()),
			RetryAttempts:        s.cfg.RetryAttempts,
			BaseDelayMs:          s.cfg.BaseDelay.Milliseconds(),
			LowStockThreshold:    s.cfg.LowStockThreshold,
		},
	}, nil
}
