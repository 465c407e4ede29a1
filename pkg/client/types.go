package client

import (
	"encoding/json"
	"time"
)

// Alert represents an inventory alert
type Alert struct {
	ID             int64      `json:"id"`
	WorkspaceID    string     `json:"workspace_id"`
	ProductID      string     `json:"product_id"`
	SKU            string     `json:"sku"`
	Type           string     `json:"type"`     // low_stock, out_of_stock
	Severity       string     `json:"severity"` // warning, critical
	Message        string     `json:"message"`
	Status         string     `json:"status"` // open, closed
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SweepResult is the outcome of a triggered inventory sweep
type SweepResult struct {
	Alerts          []Alert `json:"alerts"`
	Created         int     `json:"created"`
	Closed          int     `json:"closed"`
	ProductsChecked int     `json:"products_checked"`
}

// AlertList is a workspace's alerts. Degraded is true when the server
// answered from its cache because the alert store was unreachable.
type AlertList struct {
	Alerts   []Alert `json:"alerts"`
	Degraded bool    `json:"degraded,omitempty"`
}

// WorkspaceResult is the outcome of one workspace's check in a scheduler run
type WorkspaceResult struct {
	WorkspaceID string       `json:"workspace_id"`
	Success     bool         `json:"success"`
	Attempts    int          `json:"attempts"`
	Result      *SweepResult `json:"result,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// RunSummary aggregates a whole scheduler run
type RunSummary struct {
	WorkspacesChecked int   `json:"workspaces_checked"`
	SuccessfulChecks  int   `json:"successful_checks"`
	FailedChecks      int   `json:"failed_checks"`
	DurationMs        int64 `json:"duration_ms"`
}

// SchedulerRun is the full report of one scheduler run
type SchedulerRun struct {
	RunID     string            `json:"run_id"`
	Trigger   string            `json:"trigger"` // manual, timed
	StartedAt time.Time         `json:"started_at"`
	Summary   RunSummary        `json:"summary"`
	Results   []WorkspaceResult `json:"results"`
}

// AuditRecord is one entry from the audit trail
type AuditRecord struct {
	ID         string          `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	TargetType string          `json:"target_type"`
	TargetID   string          `json:"target_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SchedulerConfiguration is the static scheduler configuration
type SchedulerConfiguration struct {
	CheckIntervalMinutes int   `json:"check_interval_minutes"`
	RetryAttempts        int   `json:"retry_attempts"`
	BaseDelayMs          int64 `json:"base_delay_ms"`
	LowStockThreshold    int   `json:"low_stock_threshold"`
}

// SchedulerStatus is an observability snapshot of the scheduler
type SchedulerStatus struct {
	ActiveWorkspaces []string               `json:"active_workspaces"`
	RecentRuns       []AuditRecord          `json:"recent_runs"`
	Configuration    SchedulerConfiguration `json:"configuration"`
}

// HealthResponse is the health check response
type HealthResponse struct {
	Status string `json:"status"`
}
