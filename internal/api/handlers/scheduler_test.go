package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shelfmetrics/stockwatch/internal/api/dto"
	"github.com/shelfmetrics/stockwatch/internal/config"
	"github.com/shelfmetrics/stockwatch/internal/domain/product"
	"github.com/shelfmetrics/stockwatch/internal/domain/scheduler"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/services"
	"github.com/shelfmetrics/stockwatch/internal/testutil"
)

func newSchedulerHandlerFixture(engine *testutil.MockEngine) (*SchedulerHandler, *testutil.MockProductRepository) {
	products := testutil.NewMockProductRepository()
	auditor := testutil.NewRecordedAuditor()
	auditRepo := testutil.NewMockAuditRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	cfg := config.AlertingConfig{
		LowStockThreshold: 10,
		RetryAttempts:     2,
		BaseDelay:         time.Millisecond,
		CheckInterval:     30 * time.Minute,
		SweepConcurrency:  4,
	}
	service := services.NewSchedulerService(engine, products, auditor, auditRepo, cfg, log)
	return NewSchedulerHandler(service, log), products
}

func TestSchedulerHandler_Run(t *testing.T) {
	engine := testutil.NewMockEngine()
	engine.FailuresLeft["ws-2"] = -1
	handler, products := newSchedulerHandlerFixture(engine)
	products.Products["ws-1"] = []*product.Product{}
	products.Products["ws-2"] = []*product.Product{}

	body, _ := json.Marshal(dto.SchedulerRunRequest{Manual: true})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/scheduler", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.Run(rr, req)

	// Workspace failures are part of the report, not a request failure
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Success bool                `json:"success"`
		Data    scheduler.RunReport `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Trigger != scheduler.TriggerManual {
		t.Errorf("trigger = %v, want %v", resp.Data.Trigger, scheduler.TriggerManual)
	}
	if resp.Data.Summary.WorkspacesChecked != 2 || resp.Data.Summary.FailedChecks != 1 {
		t.Errorf("summary = %+v, want 2 checked with 1 failure", resp.Data.Summary)
	}
}

func TestSchedulerHandler_Run_InvalidBody(t *testing.T) {
	handler, _ := newSchedulerHandlerFixture(testutil.NewMockEngine())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/scheduler", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.Run(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

func TestSchedulerHandler_Run_EnumerationFailure(t *testing.T) {
	handler, products := newSchedulerHandlerFixture(testutil.NewMockEngine())
	products.WorkspacesError = context.DeadlineExceeded

	body, _ := json.Marshal(dto.SchedulerRunRequest{Manual: true})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/scheduler", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.Run(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusInternalServerError)
	}
}

func TestSchedulerHandler_Status(t *testing.T) {
	handler, products := newSchedulerHandlerFixture(testutil.NewMockEngine())
	products.Products["ws-1"] = []*product.Product{}

	tests := []struct {
		name           string
		query          string
		expectedStatus int
	}{
		{
			name:           "status query",
			query:          "?action=status",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing action",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unsupported action",
			query:          "?action=restart",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/scheduler"+tt.query, nil)
			rr := httptest.NewRecorder()

			handler.Status(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", status, tt.expectedStatus)
			}
		})
	}
}
