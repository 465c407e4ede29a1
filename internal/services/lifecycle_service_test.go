package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
	"github.com/shelfmetrics/stockwatch/internal/domain/notification"
	"github.com/shelfmetrics/stockwatch/internal/domain/product"
	"github.com/shelfmetrics/stockwatch/internal/pkg/logger"
	"github.com/shelfmetrics/stockwatch/internal/testutil"
)

func qty(n int64) *int64 {
	return &n
}

func newTestEngine(threshold int) (alert.Engine, *testutil.MockAlertRepository, *testutil.MockProductRepository, *testutil.RecordedAuditor, *testutil.MockDispatcher) {
	alerts := testutil.NewMockAlertRepository()
	products := testutil.NewMockProductRepository()
	auditor := testutil.NewRecordedAuditor()
	dispatcher := testutil.NewMockDispatcher()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	engine := NewLifecycleService(alerts, products, auditor, dispatcher, threshold, log)
	return engine, alerts, products, auditor, dispatcher
}

func TestLifecycleService_Sweep_Thresholds(t *testing.T) {
	tests := []struct {
		name         string
		quantity     *int64
		sku          string
		wantType     string
		wantSeverity string
		wantCreated  int
	}{
		{
			name:        "quantity at threshold creates nothing",
			quantity:    qty(10),
			sku:         "SKU-1",
			wantCreated: 0,
		},
		{
			name:        "quantity above threshold creates nothing",
			quantity:    qty(50),
			sku:         "SKU-1",
			wantCreated: 0,
		},
		{
			name:         "quantity below threshold creates low-stock warning",
			quantity:     qty(9),
			sku:          "SKU-1",
			wantType:     alert.TypeLowStock,
			wantSeverity: alert.SeverityWarning,
			wantCreated:  1,
		},
		{
			name:         "quantity of one creates low-stock warning",
			quantity:     qty(1),
			sku:          "SKU-1",
			wantType:     alert.TypeLowStock,
			wantSeverity: alert.SeverityWarning,
			wantCreated:  1,
		},
		{
			name:         "zero quantity creates out-of-stock critical",
			quantity:     qty(0),
			sku:          "SKU-1",
			wantType:     alert.TypeOutOfStock,
			wantSeverity: alert.SeverityCritical,
			wantCreated:  1,
		},
		{
			name:         "negative quantity creates out-of-stock critical",
			quantity:     qty(-3),
			sku:          "SKU-1",
			wantType:     alert.TypeOutOfStock,
			wantSeverity: alert.SeverityCritical,
			wantCreated:  1,
		},
		{
			name:        "empty SKU is skipped",
			quantity:    qty(0),
			sku:         "",
			wantCreated: 0,
		},
		{
			name:        "unknown quantity is skipped",
			quantity:    nil,
			sku:         "SKU-1",
			wantCreated: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, products, _, _ := newTestEngine(10)
			products.Products["ws-1"] = []*product.Product{
				{WorkspaceID: "ws-1", ProductID: "p-1", SKU: tt.sku, InventoryQuantity: tt.quantity},
			}

			result, err := engine.Sweep(context.Background(), "ws-1")
			if err != nil {
				t.Fatalf("Sweep() error = %v", err)
			}

			if len(result.Created) != tt.wantCreated {
				t.Fatalf("Sweep() created = %d, want %d", len(result.Created), tt.wantCreated)
			}
			if tt.wantCreated > 0 {
				created := result.Created[0]
				if created.Type != tt.wantType {
					t.Errorf("Sweep() type = %v, want %v", created.Type, tt.wantType)
				}
				if created.Severity != tt.wantSeverity {
					t.Errorf("Sweep() severity = %v, want %v", created.Severity, tt.wantSeverity)
				}
				if created.Status != alert.StatusOpen {
					t.Errorf("Sweep() status = %v, want %v", created.Status, alert.StatusOpen)
				}
			}
		})
	}
}

func TestLifecycleService_Sweep_SkippedProductsNotCounted(t *testing.T) {
	engine, _, products, _, _ := newTestEngine(10)
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(5)},
		{WorkspaceID: "ws-1", ProductID: "p-2", SKU: "", InventoryQuantity: qty(0)},
		{WorkspaceID: "ws-1", ProductID: "p-3", SKU: "SKU-3", InventoryQuantity: nil},
	}

	result, err := engine.Sweep(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if result.ProductsChecked != 1 {
		t.Errorf("Sweep() products checked = %d, want 1", result.ProductsChecked)
	}
}

func TestLifecycleService_Sweep_EmptyWorkspace(t *testing.T) {
	engine, _, _, _, _ := newTestEngine(10)

	result, err := engine.Sweep(context.Background(), "ws-empty")
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(result.Created) != 0 || len(result.ClosedIDs) != 0 || result.ProductsChecked != 0 {
		t.Errorf("Sweep() on empty workspace = %+v, want empty result", result)
	}
}

func TestLifecycleService_Sweep_NoDuplicateOpenAlert(t *testing.T) {
	engine, alerts, products, _, _ := newTestEngine(10)
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(3)},
	}

	first, err := engine.Sweep(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("first Sweep() error = %v", err)
	}
	if len(first.Created) != 1 {
		t.Fatalf("first Sweep() created = %d, want 1", len(first.Created))
	}

	// Unchanged inventory: second sweep must be a no-op
	second, err := engine.Sweep(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("second Sweep() error = %v", err)
	}
	if len(second.Created) != 0 || len(second.ClosedIDs) != 0 {
		t.Errorf("second Sweep() created = %d, closed = %d, want 0, 0", len(second.Created), len(second.ClosedIDs))
	}

	if n := alerts.OpenCount("ws-1", "SKU-1", alert.TypeLowStock); n != 1 {
		t.Errorf("open low-stock alerts = %d, want 1", n)
	}
}

func TestLifecycleService_Sweep_OutOfStockSupersedesLowStock(t *testing.T) {
	engine, alerts, products, _, _ := newTestEngine(10)
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(4)},
	}

	if _, err := engine.Sweep(context.Background(), "ws-1"); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	// Stock drops to zero: the low-stock alert closes, out-of-stock opens
	products.Products["ws-1"][0].InventoryQuantity = qty(0)
	result, err := engine.Sweep(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(result.Created) != 1 || result.Created[0].Type != alert.TypeOutOfStock {
		t.Fatalf("Sweep() created = %+v, want one out-of-stock alert", result.Created)
	}
	if len(result.ClosedIDs) != 1 {
		t.Fatalf("Sweep() closed = %d, want 1", len(result.ClosedIDs))
	}
	if n := alerts.OpenCount("ws-1", "SKU-1", alert.TypeLowStock); n != 0 {
		t.Errorf("open low-stock alerts = %d, want 0", n)
	}
	if n := alerts.OpenCount("ws-1", "SKU-1", alert.TypeOutOfStock); n != 1 {
		t.Errorf("open out-of-stock alerts = %d, want 1", n)
	}
}

func TestLifecycleService_Sweep_LowStockSkippedWhileOutOfStockOpen(t *testing.T) {
	engine, alerts, products, _, _ := newTestEngine(10)
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(0)},
	}

	if _, err := engine.Sweep(context.Background(), "ws-1"); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	// Partial recovery into the low-stock band: the critical alert stays,
	// no warning is added alongside it
	products.Products["ws-1"][0].InventoryQuantity = qty(3)
	result, err := engine.Sweep(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(result.Created) != 0 || len(result.ClosedIDs) != 0 {
		t.Errorf("Sweep() created = %d, closed = %d, want 0, 0", len(result.Created), len(result.ClosedIDs))
	}
	if n := alerts.OpenCount("ws-1", "SKU-1", alert.TypeOutOfStock); n != 1 {
		t.Errorf("open out-of-stock alerts = %d, want 1", n)
	}
}

func TestLifecycleService_Sweep_RecoveryClosesAll(t *testing.T) {
	engine, alerts, products, _, _ := newTestEngine(10)
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(0)},
	}

	if _, err := engine.Sweep(context.Background(), "ws-1"); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	products.Products["ws-1"][0].InventoryQuantity = qty(25)
	result, err := engine.Sweep(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(result.ClosedIDs) != 1 {
		t.Fatalf("Sweep() closed = %d, want 1", len(result.ClosedIDs))
	}
	if n := alerts.OpenCount("ws-1", "SKU-1", alert.TypeOutOfStock); n != 0 {
		t.Errorf("open out-of-stock alerts = %d, want 0", n)
	}
}

func TestLifecycleService_Sweep_AuditTrail(t *testing.T) {
	engine, _, products, auditor, _ := newTestEngine(10)
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(2)},
		{WorkspaceID: "ws-1", ProductID: "p-2", SKU: "SKU-2", InventoryQuantity: qty(0)},
	}

	if _, err := engine.Sweep(context.Background(), "ws-1"); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if got := len(auditor.ByAction(audit.ActionCreate)); got != 2 {
		t.Errorf("create audit records = %d, want 2", got)
	}

	// Recovery closes both alerts, one close record each
	products.Products["ws-1"][0].InventoryQuantity = qty(100)
	products.Products["ws-1"][1].InventoryQuantity = qty(100)
	if _, err := engine.Sweep(context.Background(), "ws-1"); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if got := len(auditor.ByAction(audit.ActionClose)); got != 2 {
		t.Errorf("close audit records = %d, want 2", got)
	}
}

func TestLifecycleService_Sweep_NotificationFailureTolerated(t *testing.T) {
	engine, alerts, products, _, dispatcher := newTestEngine(10)
	dispatcher.NotifyError = errors.New("webhook unreachable")
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(0)},
	}

	result, err := engine.Sweep(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(result.Created) != 1 {
		t.Fatalf("Sweep() created = %d, want 1", len(result.Created))
	}
	if n := alerts.OpenCount("ws-1", "SKU-1", alert.TypeOutOfStock); n != 1 {
		t.Errorf("open out-of-stock alerts = %d, want 1", n)
	}
}

func TestLifecycleService_Sweep_BulkNotification(t *testing.T) {
	engine, _, products, _, dispatcher := newTestEngine(10)
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(0)},
		{WorkspaceID: "ws-1", ProductID: "p-2", SKU: "SKU-2", InventoryQuantity: qty(3)},
	}

	if _, err := engine.Sweep(context.Background(), "ws-1"); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if got := dispatcher.CountByEvent(notification.EventAlertCreated); got != 2 {
		t.Errorf("created notifications = %d, want 2", got)
	}
	if got := dispatcher.CountByEvent(notification.EventAlertBulk); got != 1 {
		t.Errorf("bulk notifications = %d, want 1", got)
	}
}

func TestLifecycleService_Sweep_StoreErrorSurfaces(t *testing.T) {
	engine, alerts, products, _, _ := newTestEngine(10)
	products.Products["ws-1"] = []*product.Product{
		{WorkspaceID: "ws-1", ProductID: "p-1", SKU: "SKU-1", InventoryQuantity: qty(0)},
	}
	alerts.CreateError = errors.New("database gone")

	if _, err := engine.Sweep(context.Background(), "ws-1"); err == nil {
		t.Error("Sweep() expected error when alert store fails")
	}
}
