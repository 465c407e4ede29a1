package scheduler

import (
	"time"

	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
)

// Trigger identifies what started a scheduler run
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerTimed  Trigger = "timed"
)

// WorkspaceResult is the terminal outcome of one workspace's check.
// Exactly one of Result and Error is set.
type WorkspaceResult struct {
	WorkspaceID string             `json:"workspace_id"`
	Success     bool               `json:"success"`
	Attempts    int                `json:"attempts"`
	Result      *alert.SweepResult `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// Summary aggregates a whole run
type Summary struct {
	WorkspacesChecked int   `json:"workspaces_checked"`
	SuccessfulChecks  int   `json:"successful_checks"`
	FailedChecks      int   `json:"failed_checks"`
	DurationMs        int64 `json:"duration_ms"`
}

// RunReport is the full result of one scheduler run
type RunReport struct {
	RunID     string            `json:"run_id"`
	Trigger   Trigger           `json:"trigger"`
	StartedAt time.Time         `json:"started_at"`
	Summary   Summary           `json:"summary"`
	Results   []WorkspaceResult `json:"results"`
}

// Configuration is the static scheduler configuration exposed by the
// status query
type Configuration struct {
	CheckIntervalMinutes int   `json:"check_interval_minutes"`
	RetryAttempts        int   `json:"retry_attempts"`
	BaseDelayMs          int64 `json:"base_delay_ms"`
	LowStockThreshold    int   `json:"low_stock_threshold"`
}

// Status is an observability snapshot of the scheduler
type Status struct {
	ActiveWorkspaces []string        `json:"active_workspaces"`
	RecentRuns       []*audit.Record `json:"recent_runs"`
	Configuration    Configuration   `json:"configuration"`
}
