package services

import (
	"context"
	"strconv"
	"time"

	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
	"github.com/shelfmetrics/stockwatch/internal/domain/notification"
	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
)

// AlertService implements alert.Service
type AlertService struct {
	repo       alert.Repository
	auditor    audit.Writer
	dispatcher notification.Dispatcher
	logger     *logger.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(
	repo alert.Repository,
	auditor audit.Writer,
	dispatcher notification.Dispatcher,
	log *logger.Logger,
) alert.Service {
	return &AlertService{
		repo:       repo,
		auditor:    auditor,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// List retrieves alerts for a workspace with filters
func (s *AlertService) List(ctx context.Context, workspaceID string, filter alert.Filter) ([]*alert.Alert, error) {
	return s.repo.List(ctx, workspaceID, filter)
}

// GetByID retrieves an alert by ID
func (s *AlertService) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	return s.repo.GetByID(ctx, id)
}

// Acknowledge marks an open alert as acknowledged. Preconditions are checked
// in order: the alert must exist, must not be closed, and must not already
// carry an acknowledgment.
func (s *AlertService) Acknowledge(ctx context.Context, id int64, acknowledgedBy string) (*alert.Alert, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status == alert.StatusClosed {
		return nil, errors.InvalidState("cannot acknowledge a closed alert")
	}

	if a.AcknowledgedBy != nil {
		return nil, errors.AlreadyAcknowledged(map[string]interface{}{
			"acknowledged_by": *a.AcknowledgedBy,
			"acknowledged_at": a.AcknowledgedAt,
		})
	}

	previousStatus := a.Status
	now := time.Now()
	a.AcknowledgedBy = &acknowledgedBy
	a.AcknowledgedAt = &now
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to acknowledge alert")
		return nil, err
	}

	s.auditor.Log(ctx, acknowledgedBy, audit.ActionAcknowledge, audit.TargetAlert,
		strconv.FormatInt(a.ID, 10), map[string]interface{}{
			"previous_status": previousStatus,
			"type":            a.Type,
			"sku":             a.SKU,
			"severity":        a.Severity,
		})

	if err := s.dispatcher.Notify(ctx, notification.EventAlertAcknowledged, []*alert.Alert{a}); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": a.ID,
			"sku":      a.SKU,
		}).ErrorWithErr(err, "Failed to send acknowledgment notification")
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id":        a.ID,
		"workspace_id":    a.WorkspaceID,
		"acknowledged_by": acknowledgedBy,
	}).Info("Alert acknowledged")

	return a, nil
}
