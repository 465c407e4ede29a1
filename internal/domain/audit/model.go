package audit

import (
	"encoding/json"
	"time"
)

// Record is an append-only entry describing a state-changing action
type Record struct {
	ID         string          `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	TargetType string          `json:"target_type"`
	TargetID   string          `json:"target_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Audit actions
const (
	ActionCreate         = "create"
	ActionClose          = "close"
	ActionAcknowledge    = "acknowledge"
	ActionSchedulerRun   = "scheduler_run"
	ActionSchedulerError = "scheduler_error"
)

// Target types
const (
	TargetAlert     = "alert"
	TargetScheduler = "scheduler"
)

// Well-known actors
const (
	ActorScheduler = "system:scheduler"
	ActorEngine    = "system:lifecycle"
)
