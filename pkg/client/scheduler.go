package client

import "context"

// SchedulerService handles scheduler control API calls
type SchedulerService struct {
	client *Client
}

// RunRequest triggers a scheduler run. When WorkspaceID is empty all
// workspaces are checked.
type RunRequest struct {
	Manual      bool   `json:"manual"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// Run triggers a scheduler run and returns its report
func (s *SchedulerService) Run(ctx context.Context, req RunRequest) (*SchedulerRun, error) {
	var run SchedulerRun
	if err := s.client.doRequest(ctx, "POST", "/api/v1/alerts/scheduler", req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Status returns the scheduler's current status
func (s *SchedulerService) Status(ctx context.Context) (*SchedulerStatus, error) {
	var status SchedulerStatus
	if err := s.client.doRequest(ctx, "GET", "/api/v1/alerts/scheduler?action=status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
