package alert

import "time"

// Alert represents a stock alert raised for a product in a workspace
type Alert struct {
	ID             int64      `json:"id"`
	WorkspaceID    string     `json:"workspace_id"`
	ProductID      string     `json:"product_id"`
	SKU            string     `json:"sku"`
	Type           string     `json:"type"`
	Severity       string     `json:"severity"`
	Message        string     `json:"message"`
	Status         string     `json:"status"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at,omitempty"`
}

// Alert types
const (
	TypeLowStock   = "low_stock"
	TypeOutOfStock = "out_of_stock"
)

// Alert severity levels
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Alert status. Closed is terminal; acknowledgment does not change status.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Filter contains alert filtering options
type Filter struct {
	Status   string
	Type     string
	Severity string
}

// SweepResult is the outcome of one evaluation pass of a workspace's
// products against the alert rules
type SweepResult struct {
	WorkspaceID     string   `json:"workspace_id"`
	Created         []*Alert `json:"alerts"`
	ClosedIDs       []int64  `json:"closed_ids"`
	ProductsChecked int      `json:"products_checked"`
}
