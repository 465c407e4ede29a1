package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shelfmetrics/stockwatch/internal/domain/alert"
	"github.com/shelfmetrics/stockwatch/internal/pkg/errors"
)

type AlertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) alert.Repository {
	return &AlertRepository{db: db}
}

const alertColumns = `id, workspace_id, product_id, sku, type, severity, message, status,
	acknowledged_by, acknowledged_at, created_at, updated_at`

func (r *AlertRepository) CreateBatch(ctx context.Context, alerts []*alert.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to begin alert insert", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO alerts (workspace_id, product_id, sku, type, severity, message, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.DatabaseError("Failed to prepare alert insert", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, a := range alerts {
		a.Status = alert.StatusOpen
		a.CreatedAt = now
		a.UpdatedAt = now

		result, err := stmt.ExecContext(ctx,
			a.WorkspaceID, a.ProductID, a.SKU, a.Type, a.Severity, a.Message, a.Status,
			now.Format(time.RFC3339), now.Format(time.RFC3339),
		)
		if err != nil {
			return errors.DatabaseError("Failed to insert alert", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return errors.DatabaseError("Failed to get alert ID", err)
		}
		a.ID = id
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit alert insert", err)
	}

	return nil
}

func (r *AlertRepository) CloseByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+2)
	args = append(args, alert.StatusClosed, time.Now().Format(time.RFC3339))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(
		"UPDATE alerts SET status = ?, updated_at = ? WHERE id IN (%s)",
		strings.Join(placeholders, ", "),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.DatabaseError("Failed to close alerts", err)
	}

	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id int64) (*alert.Alert, error) {
	query := fmt.Sprintf("SELECT %s FROM alerts WHERE id = ?", alertColumns)

	a, err := scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Alert")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get alert", err)
	}

	return a, nil
}

func (r *AlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	a.UpdatedAt = time.Now()

	var ackBy, ackAt sql.NullString
	if a.AcknowledgedBy != nil {
		ackBy = sql.NullString{String: *a.AcknowledgedBy, Valid: true}
	}
	if a.AcknowledgedAt != nil {
		ackAt = sql.NullString{String: a.AcknowledgedAt.Format(time.RFC3339), Valid: true}
	}

	query := `
		UPDATE alerts SET status = ?, message = ?, acknowledged_by = ?, acknowledged_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		a.Status, a.Message, ackBy, ackAt, a.UpdatedAt.Format(time.RFC3339), a.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update alert", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Alert")
	}

	return nil
}

func (r *AlertRepository) ListOpenByWorkspace(ctx context.Context, workspaceID string) ([]*alert.Alert, error) {
	return r.List(ctx, workspaceID, alert.Filter{Status: alert.StatusOpen})
}

func (r *AlertRepository) List(ctx context.Context, workspaceID string, filter alert.Filter) ([]*alert.Alert, error) {
	where := []string{"workspace_id = ?"}
	args := []interface{}{workspaceID}

	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, filter.Severity)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM alerts WHERE %s ORDER BY id DESC",
		alertColumns, strings.Join(where, " AND "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list alerts", err)
	}
	defer rows.Close()

	alerts := make([]*alert.Alert, 0, 32)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var a alert.Alert
	var ackBy, ackAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&a.ID, &a.WorkspaceID, &a.ProductID, &a.SKU, &a.Type, &a.Severity, &a.Message, &a.Status,
		&ackBy, &ackAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if ackBy.Valid {
		a.AcknowledgedBy = &ackBy.String
	}
	if ackAt.Valid {
		if t, err := time.Parse(time.RFC3339, ackAt.String); err == nil {
			a.AcknowledgedAt = &t
		}
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &a, nil
}
