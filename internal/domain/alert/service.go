package alert

import "context"

// Service defines the interface for alert business logic
type Service interface {
	// List retrieves alerts for a workspace with filters
	List(ctx context.Context, workspaceID string, filter Filter) ([]*Alert, error)

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// Acknowledge marks an open alert as acknowledged by the given actor.
	// A closed or already-acknowledged alert is rejected.
	Acknowledge(ctx context.Context, id int64, acknowledgedBy string) (*Alert, error)
}

// Engine evaluates a workspace's inventory against the alert rules,
// creating and closing alerts as stock levels change
type Engine interface {
	// Sweep runs one evaluation pass over the workspace's products
	Sweep(ctx context.Context, workspaceID string) (*SweepResult, error)
}
