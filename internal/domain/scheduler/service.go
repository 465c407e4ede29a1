package scheduler

import "context"

// Service orchestrates inventory sweeps across workspaces
type Service interface {
	// Run sweeps every active workspace, or only workspaceID when given.
	// Individual workspace failures are isolated into the report; Run
	// itself only errors when the run as a whole cannot proceed.
	Run(ctx context.Context, trigger Trigger, workspaceID string) (*RunReport, error)

	// Status returns recent runs, currently active workspaces, and the
	// static configuration. Used for observability, not control.
	Status(ctx context.Context) (*Status, error)
}
