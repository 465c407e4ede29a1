package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/testutil"
)

func TestAuditService_Log(t *testing.T) {
	repo := testutil.NewMockAuditRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	writer := NewAuditService(repo, log)

	writer.Log(context.Background(), audit.ActorEngine, audit.ActionCreate, audit.TargetAlert, "42",
		map[string]interface{}{"sku": "SKU-1"})

	if len(repo.Records) != 1 {
		t.Fatalf("audit records = %d, want 1", len(repo.Records))
	}

	rec := repo.Records[0]
	if rec.ID == "" {
		t.Error("Log() record ID not set")
	}
	if rec.Actor != audit.ActorEngine || rec.Action != audit.ActionCreate {
		t.Errorf("Log() recorded %s/%s, want %s/%s", rec.Actor, rec.Action, audit.ActorEngine, audit.ActionCreate)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Payload, &payload); err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if payload["sku"] != "SKU-1" {
		t.Errorf("Log() payload sku = %v, want SKU-1", payload["sku"])
	}
}

func TestAuditService_Log_SwallowsInsertFailure(t *testing.T) {
	repo := testutil.NewMockAuditRepository()
	repo.InsertError = errors.New("database gone")
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	writer := NewAuditService(repo, log)

	// Must not panic or surface the failure
	writer.Log(context.Background(), audit.ActorEngine, audit.ActionClose, audit.TargetAlert, "7", nil)

	if len(repo.Records) != 0 {
		t.Errorf("audit records = %d, want 0", len(repo.Records))
	}
}
