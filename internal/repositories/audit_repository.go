package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"zakupBack/internal/models"
)

type AuditRepository struct {
	DB *sql.DB
}

// Append writes one audit row. The trail is append-only: there are no update
// or delete methods on purpose.
func (r *AuditRepository) Append(ctx context.Context, e models.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `INSERT INTO audit_log (id, entity_type, entity_id, action, field_diffs, actor_id) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query, e.ID, e.EntityType, e.EntityID, e.Action, e.FieldDiffs, e.ActorID)
	return err
}

// AppendTx writes an audit row inside the transaction of the change it
// records, so the status change and its trail commit or roll back together.
func AppendTx(ctx context.Context, tx *sql.Tx, e models.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `INSERT INTO audit_log (id, entity_type, entity_id, action, field_diffs, actor_id) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query, e.ID, e.EntityType, e.EntityID, e.Action, e.FieldDiffs, e.ActorID)
	return err
}

func (r *AuditRepository) ListByEntity(ctx context.Context, entityType string, entityID int) ([]models.AuditEntry, error) {
	query := `SELECT id, entity_type, entity_id, action, field_diffs, actor_id, created_at FROM audit_log WHERE entity_type = ? AND entity_id = ? ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.FieldDiffs, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
