package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shelfmetrics/stockwatch/internal/api/dto"
	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/domain/product"
	"github.com/shelfmetrics/stockwatch/internal/pkg/cache"
	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/pkg/validator"
	"github.com/shelfmetrics/stockwatch/internal/services"
	"github.com/shelfmetrics/stockwatch/internal/testutil"
)

type alertHandlerFixture struct {
	handler  *AlertHandler
	alerts   *testutil.MockAlertRepository
	products *testutil.MockProductRepository
}

func newAlertHandlerFixture() *alertHandlerFixture {
	alerts := testutil.NewMockAlertRepository()
	products := testutil.NewMockProductRepository()
	auditor := testutil.NewRecordedAuditor()
	dispatcher := testutil.NewMockDispatcher()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	val := validator.New()

	engine := services.NewLifecycleService(alerts, products, auditor, dispatcher, 10, log)
	service := services.NewAlertService(alerts, auditor, dispatcher, log)
	handler := NewAlertHandler(service, engine, cache.New(time.Minute), log, val)

	return &alertHandlerFixture{handler: handler, alerts: alerts, products: products}
}

func TestAlertHandler_Sweep(t *testing.T) {
	fix := newAlertHandlerFixture()
	low := int64(2)
	fix.products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: &low},
	}

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid sweep request",
			body:           dto.SweepRequest{WorkspaceID: "ws-1"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing workspace_id",
			body:           dto.SweepRequest{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/inventory", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			fix.handler.Sweep(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v, body: %s", status, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestAlertHandler_Sweep_InvalidBody(t *testing.T) {
	fix := newAlertHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/inventory", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	fix.handler.Sweep(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

func TestAlertHandler_List(t *testing.T) {
	fix := newAlertHandlerFixture()
	fix.alerts.CreateBatch(context.Background(), []*alert.Alert{
		{WorkspaceID: "ws-1", SKU: "SKU-1", Type: alert.TypeLowStock, Severity: alert.SeverityWarning, Status: alert.StatusOpen},
	})

	tests := []struct {
		name           string
		query          string
		expectedStatus int
	}{
		{
			name:           "list workspace alerts",
			query:          "?workspace_id=ws-1",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing workspace_id",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "list with filters",
			query:          "?workspace_id=ws-1&status=open&severity=warning",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/inventory"+tt.query, nil)
			rr := httptest.NewRecorder()

			fix.handler.List(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", status, tt.expectedStatus)
			}
		})
	}
}

func TestAlertHandler_List_ServesCacheWhenStoreDown(t *testing.T) {
	fix := newAlertHandlerFixture()
	fix.alerts.CreateBatch(context.Background(), []*alert.Alert{
		{WorkspaceID: "ws-1", SKU: "SKU-1", Type: alert.TypeLowStock, Severity: alert.SeverityWarning, Status: alert.StatusOpen},
	})

	// Prime the cache with a healthy read
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/inventory?workspace_id=ws-1", nil)
	rr := httptest.NewRecorder()
	fix.handler.List(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("priming read failed: %v", rr.Code)
	}

	// Store goes away; the same query is answered from cache, flagged degraded
	fix.alerts.ListError = errors.DatabaseError("query failed", nil)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/alerts/inventory?workspace_id=ws-1", nil)
	rr = httptest.NewRecorder()
	fix.handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("degraded read status = %v, want %v", rr.Code, http.StatusOK)
	}

	var resp struct {
		Success bool                  `json:"success"`
		Data    dto.AlertListResponse `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Data.Degraded {
		t.Error("degraded read not flagged")
	}
	if len(resp.Data.Alerts) != 1 {
		t.Errorf("degraded read alerts = %d, want 1", len(resp.Data.Alerts))
	}

	// A query that was never cached fails outright
	req = httptest.NewRequest(http.MethodGet, "/api/v1/alerts/inventory?workspace_id=ws-2", nil)
	rr = httptest.NewRecorder()
	fix.handler.List(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("uncached degraded read status = %v, want %v", rr.Code, http.StatusInternalServerError)
	}
}

func TestAlertHandler_Acknowledge(t *testing.T) {
	fix := newAlertHandlerFixture()
	a := &alert.Alert{
		WorkspaceID: "ws-1",
		SKU:         "SKU-1",
		Type:        alert.TypeLowStock,
		Severity:    alert.SeverityWarning,
		Status:      alert.StatusOpen,
	}
	fix.alerts.CreateBatch(context.Background(), []*alert.Alert{a})

	tests := []struct {
		name           string
		alertID        string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "acknowledge open alert",
			alertID:        "1",
			body:           dto.AcknowledgeRequest{AcknowledgedBy: "ops@example.com"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "duplicate acknowledgment",
			alertID:        "1",
			body:           dto.AcknowledgeRequest{AcknowledgedBy: "other@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing acknowledged_by",
			alertID:        "1",
			body:           dto.AcknowledgeRequest{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-numeric id",
			alertID:        "abc",
			body:           dto.AcknowledgeRequest{AcknowledgedBy: "ops@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/alerts/"+tt.alertID+"/acknowledge", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.alertID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			fix.handler.Acknowledge(rr, req)

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v, body: %s", status, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestAlertHandler_Acknowledge_NotFound(t *testing.T) {
	fix := newAlertHandlerFixture()
	fix.alerts.GetError = errors.NotFound("Alert")

	body, _ := json.Marshal(dto.AcknowledgeRequest{AcknowledgedBy: "ops@example.com"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/alerts/999/acknowledge", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "999")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr := httptest.NewRecorder()
	fix.handler.Acknowledge(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
	}
}
