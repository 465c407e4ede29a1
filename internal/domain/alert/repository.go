package alert

import "context"

// Repository defines the interface for alert data access
type Repository interface {
	// CreateBatch inserts a set of alerts in a single persistence call
	CreateBatch(ctx context.Context, alerts []*Alert) error

	// CloseByIDs closes the given alerts in a single persistence call
	CloseByIDs(ctx context.Context, ids []int64) error

	// GetByID retrieves an alert by ID
	GetByID(ctx context.Context, id int64) (*Alert, error)

	// Update persists changes to an existing alert
	Update(ctx context.Context, alert *Alert) error

	// ListOpenByWorkspace retrieves all open alerts for a workspace
	ListOpenByWorkspace(ctx context.Context, workspaceID string) ([]*Alert, error)

	// List retrieves alerts for a workspace with filters
	List(ctx context.Context, workspaceID string, filter Filter) ([]*Alert, error)
}
