package product

import "time"

// Product is a read-only snapshot of a workspace's product record.
// InventoryQuantity is nil when the quantity is unknown, which is
// distinct from a quantity of zero.
type Product struct {
	ID                int64     `json:"id"`
	WorkspaceID       string    `json:"workspace_id"`
	ProductID         string    `json:"product_id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	InventoryQuantity *int64    `json:"inventory_quantity,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}
