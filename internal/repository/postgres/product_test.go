package postgres

import (
	"context"
	"testing"

	"github.com/shelfmetrics/stockwatch/internal/testutil"
)

func TestProductRepository_Workspaces(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seed := `
		INSERT INTO products (workspace_id, product_id, sku, name, inventory_quantity, updated_at) VALUES
		('ws-1', 'p-1', 'SKU-1', 'Widget', 5, '2026-01-01T00:00:00Z'),
		('ws-1', 'p-2', 'SKU-2', 'Gadget', NULL, '2026-01-01T00:00:00Z'),
		('ws-2', 'p-3', 'SKU-3', 'Gizmo', 0, '2026-01-01T00:00:00Z')
	`
	if _, err := db.Exec(seed); err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}

	workspaces, err := repo.Workspaces(ctx)
	if err != nil {
		t.Fatalf("Workspaces() error = %v", err)
	}
	if len(workspaces) != 2 || workspaces[0] != "ws-1" || workspaces[1] != "ws-2" {
		t.Errorf("Workspaces() = %v, want [ws-1 ws-2]", workspaces)
	}

	products, err := repo.ListByWorkspace(ctx, "ws-1")
	if err != nil {
		t.Fatalf("ListByWorkspace() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("ListByWorkspace() = %d products, want 2", len(products))
	}
	if products[0].InventoryQuantity == nil || *products[0].InventoryQuantity != 5 {
		t.Errorf("product quantity = %v, want 5", products[0].InventoryQuantity)
	}
	if products[1].InventoryQuantity != nil {
		t.Errorf("product quantity = %v, want nil for unknown", *products[1].InventoryQuantity)
	}
}

func TestProductRepository_EmptyWorkspace(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.CleanupDB(db)
	repo := NewProductRepository(db)

	products, err := repo.ListByWorkspace(context.Background(), "ws-none")
	if err != nil {
		t.Fatalf("ListByWorkspace() error = %v", err)
	}
	if len(products) != 0 {
		t.Errorf("ListByWorkspace() = %d products, want 0", len(products))
	}
}
