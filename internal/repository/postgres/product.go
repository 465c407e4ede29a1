package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shelfmetrics/stockwatch/internal/domain/product"
	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) product.Repository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*product.Product, error) {
	query := `
		SELECT id, workspace_id, product_id, sku, name, inventory_quantity, updated_at
		FROM products WHERE workspace_id = ? ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list products", err)
	}
	defer rows.Close()

	products := make([]*product.Product, 0, 64)
	for rows.Next() {
		var p product.Product
		var quantity sql.NullInt64
		var updatedAt string

		err := rows.Scan(&p.ID, &p.WorkspaceID, &p.ProductID, &p.SKU, &p.Name, &quantity, &updatedAt)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan product", err)
		}

		if quantity.Valid {
			q := quantity.Int64
			p.InventoryQuantity = &q
		}
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		products = append(products, &p)
	}

	return products, rows.Err()
}

func (r *ProductRepository) Workspaces(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT workspace_id FROM products ORDER BY workspace_id")
	if err != nil {
		return nil, errors.DatabaseError("Failed to enumerate workspaces", err)
	}
	defer rows.Close()

	var workspaces []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.DatabaseError("Failed to scan workspace", err)
		}
		workspaces = append(workspaces, id)
	}

	return workspaces, rows.Err()
}
