package client

import (
	"context"
	"fmt"
	"net/url"
)

// AlertService handles alert-related API calls
type AlertService struct {
	client *Client
}

// SweepRequest triggers an inventory sweep for a workspace
type SweepRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Force       bool   `json:"force,omitempty"`
}

// AcknowledgeRequest marks an alert as acknowledged
type AcknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledged_by"`
}

// AlertListOptions contains filters for listing alerts
type AlertListOptions struct {
	Status   string
	Type     string
	Severity string
}

// Sweep runs an inventory check for one workspace and returns the alerts
// it created
func (s *AlertService) Sweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	var result SweepResult
	if err := s.client.doRequest(ctx, "POST", "/api/v1/alerts/inventory", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// List retrieves a workspace's alerts
func (s *AlertService) List(ctx context.Context, workspaceID string, opts *AlertListOptions) (*AlertList, error) {
	query := url.Values{}
	query.Set("workspace_id", workspaceID)

	if opts != nil {
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
		if opts.Type != "" {
			query.Set("type", opts.Type)
		}
		if opts.Severity != "" {
			query.Set("severity", opts.Severity)
		}
	}

	path := "/api/v1/alerts/inventory?" + query.Encode()

	var list AlertList
	if err := s.client.doRequest(ctx, "GET", path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Acknowledge marks an open alert as acknowledged by the given actor
func (s *AlertService) Acknowledge(ctx context.Context, id int64, acknowledgedBy string) (*Alert, error) {
	path := fmt.Sprintf("/api/v1/alerts/%d/acknowledge", id)

	var alert Alert
	if err := s.client.doRequest(ctx, "PATCH", path, AcknowledgeRequest{AcknowledgedBy: acknowledgedBy}, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}
