package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shelfmetrics/stockwatch/internal/domain/audit"
	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, rec *audit.Record) error {
	query := `
		INSERT INTO audit_logs (id, actor, action, target_type, target_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var payload sql.NullString
	if len(rec.Payload) > 0 {
		payload = sql.NullString{String: string(rec.Payload), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Actor, rec.Action, rec.TargetType, rec.TargetID, payload,
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return errors.DatabaseError("Failed to insert audit record", err)
	}

	return nil
}

func (r *AuditRepository) RecentByAction(ctx context.Context, action string, limit int) ([]*audit.Record, error) {
	query := `
		SELECT id, actor, action, target_type, target_id, payload, created_at
		FROM audit_logs WHERE action = ? ORDER BY created_at DESC LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, action, limit)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list audit records", err)
	}
	defer rows.Close()

	records := make([]*audit.Record, 0, limit)
	for rows.Next() {
		var rec audit.Record
		var payload sql.NullString
		var createdAt string

		err := rows.Scan(&rec.ID, &rec.Actor, &rec.Action, &rec.TargetType, &rec.TargetID, &payload, &createdAt)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan audit record", err)
		}

		if payload.Valid {
			rec.Payload = []byte(payload.String)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		records = append(records, &rec)
	}

	return records, rows.Err()
}
