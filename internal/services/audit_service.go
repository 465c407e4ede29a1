package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
)

// AuditService implements audit.Writer
type AuditService struct {
	repo   audit.Repository
	logger *logger.Logger
}

// NewAuditService creates a new audit log writer
func NewAuditService(repo audit.Repository, log *logger.Logger) audit.Writer {
	return &AuditService{
		repo:   repo,
		logger: log,
	}
}

// Log appends an audit record. Persistence failures are logged locally and
// swallowed: the audit trail must never fail the state transition it records.
func (s *AuditService) Log(ctx context.Context, actor, action, targetType, targetID string, payload map[string]interface{}) {
	rec := &audit.Record{
		ID:         uuid.New().String(),
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"action":    action,
				"target_id": targetID,
			}).ErrorWithErr(err, "Failed to marshal audit payload")
		} else {
			rec.Payload = data
		}
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"actor":       actor,
			"action":      action,
			"target_type": targetType,
			"target_id":   targetID,
		}).ErrorWithErr(err, "Failed to write audit record")
	}
}
