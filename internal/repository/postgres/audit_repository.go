package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/audit"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, event audit.Event) error {
	event.ID = common.NewUUID()
	event.CreatedAt = time.Now().UTC()
	payload := event.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode audit payload", err)
	}
	var userID any
	if event.UserID != nil {
		userID = *event.UserID
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO audit_events (id, name, user_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.Name, userID, encoded, event.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to create audit event", err)
	}
	return nil
}
