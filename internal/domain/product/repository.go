package product

import "context"

// Repository defines read-only access to product records. Inventory
// quantities are sourced by another subsystem; this service never writes.
type Repository interface {
	// ListByWorkspace retrieves all product snapshots for a workspace
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*Product, error)

	// Workspaces enumerates the active workspace IDs
	Workspaces(ctx context.Context) ([]string, error)
}
