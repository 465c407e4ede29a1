package audit

import "context"

// Repository defines the interface for audit record persistence
type Repository interface {
	// Insert appends an audit record
	Insert(ctx context.Context, record *Record) error

	// RecentByAction retrieves the most recent records for an action,
	// newest first
	RecentByAction(ctx context.Context, action string, limit int) ([]*Record, error)
}

// Writer appends audit records for state-changing actions. Log never
// reports failure to the caller: the primary state transition outranks
// completeness of the audit trail, so persistence errors are logged
// locally and swallowed.
type Writer interface {
	Log(ctx context.Context, actor, action, targetType, targetID string, payload map[string]interface{})
}
