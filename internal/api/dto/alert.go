package dto

import "github.com/shelfmetrics/stockwatch/internal/domain/alert"

// SweepRequest triggers an inventory sweep for a workspace. Force is
// accepted for trigger compatibility but does not change sweep semantics.
type SweepRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	Force       bool   `json:"force"`
}

// SweepResponse is the outcome of a triggered sweep
type SweepResponse struct {
	Alerts          []*alert.Alert `json:"alerts"`
	Created         int            `json:"created"`
	Closed          int            `json:"closed"`
	ProductsChecked int            `json:"products_checked"`
}

// AlertListResponse carries a workspace's alerts. Degraded is set when the
// store was unreachable and the payload is a cached snapshot.
type AlertListResponse struct {
	Alerts   []*alert.Alert `json:"alerts"`
	Degraded bool           `json:"degraded,omitempty"`
}

// AcknowledgeRequest marks an alert as acknowledged by an actor
type AcknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledged_by" validate:"required"`
}

// SchedulerRunRequest triggers a scheduler run across all workspaces,
// or a single one when WorkspaceID is set
type SchedulerRunRequest struct {
	Manual      bool   `json:"manual"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}
