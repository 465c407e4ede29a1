package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// NewTestDB creates an in-memory SQLite database with the service schema
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workspace_id VARCHAR(64) NOT NULL,
		product_id VARCHAR(64) NOT NULL,
		sku VARCHAR(128) NOT NULL DEFAULT '',
		name VARCHAR(255) NOT NULL DEFAULT '',
		inventory_quantity INTEGER,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (workspace_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workspace_id VARCHAR(64) NOT NULL,
		product_id VARCHAR(64) NOT NULL,
		sku VARCHAR(128) NOT NULL,
		type VARCHAR(32) NOT NULL,
		severity VARCHAR(16) NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL DEFAULT 'open',
		acknowledged_by VARCHAR(255),
		acknowledged_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS uq_alerts_open
		ON alerts(workspace_id, sku, type) WHERE status = 'open';

	CREATE TABLE IF NOT EXISTS audit_logs (
		id VARCHAR(36) PRIMARY KEY,
		actor VARCHAR(255) NOT NULL,
		action VARCHAR(64) NOT NULL,
		target_type VARCHAR(64) NOT NULL,
		target_id VARCHAR(64) NOT NULL,
		payload TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return db
}

// CleanupDB closes the test database
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}
