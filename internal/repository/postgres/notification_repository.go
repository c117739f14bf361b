package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/notification"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func encodeMetadata(metadata map[string]string) ([]byte, error) {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return json.Marshal(metadata)
}

func scanNotification(row rowScanner) (*notification.Notification, error) {
	var n notification.Notification
	var sentAt sql.NullTime
	var metadata []byte
	if err := row.Scan(&n.ID, &n.UserID, &n.Channel, &n.Message, &n.Status, &n.SendAt, &sentAt, &metadata, &n.CreatedAt); err != nil {
		return nil, err
	}
	if sentAt.Valid {
		t := sentAt.Time.UTC()
		n.SentAt = &t
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, err
		}
	}
	return &n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) (*notification.Notification, error) {
	n.ID = common.NewUUID()
	now := time.Now().UTC()
	n.CreatedAt = now
	if n.SendAt.IsZero() {
		n.SendAt = now
	}
	if n.Status == "" {
		n.Status = notification.StatusPending
	}
	metadata, err := encodeMetadata(n.Metadata)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode notification metadata", err)
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO notifications (id, user_id, channel, message, status, send_at, sent_at, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.UserID, n.Channel, n.Message, n.Status, n.SendAt, nullableTime(n.SentAt), metadata, n.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create notification", err)
	}
	return &n, nil
}

// UpdateStatus records a dispatch outcome. Moving to sent also stamps
// sent_at; metadata replaces the stored map when provided.
func (r *NotificationRepository) UpdateStatus(ctx context.Context, id common.UUID, status notification.Status, metadata map[string]string) (*notification.Notification, error) {
	var sentAt any
	if status == notification.StatusSent {
		sentAt = time.Now().UTC()
	}
	if metadata != nil {
		encoded, err := encodeMetadata(metadata)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to encode notification metadata", err)
		}
		_, err = r.db.ExecContext(ctx, `UPDATE notifications SET status = $1, sent_at = COALESCE($2, sent_at), metadata = $3 WHERE id = $4`,
			status, sentAt, encoded, id)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to update notification", err)
		}
	} else {
		_, err := r.db.ExecContext(ctx, `UPDATE notifications SET status = $1, sent_at = COALESCE($2, sent_at) WHERE id = $3`,
			status, sentAt, id)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to update notification", err)
		}
	}
	return r.getByID(ctx, id)
}

func (r *NotificationRepository) getByID(ctx context.Context, id common.UUID) (*notification.Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, channel, message, status, send_at, sent_at, metadata, created_at
		FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "notification not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load notification", err)
	}
	return n, nil
}

func (r *NotificationRepository) ListPending(ctx context.Context) ([]notification.Notification, error) {
	return r.list(ctx, `SELECT id, user_id, channel, message, status, send_at, sent_at, metadata, created_at
		FROM notifications WHERE status = $1 ORDER BY send_at ASC`, notification.StatusPending)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	return r.list(ctx, `SELECT id, user_id, channel, message, status, send_at, sent_at, metadata, created_at
		FROM notifications WHERE user_id = $1 ORDER BY send_at DESC`, userID)
}

func (r *NotificationRepository) list(ctx context.Context, query string, arg any) ([]notification.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notifications", err)
	}
	defer rows.Close()
	var items []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan notification", err)
		}
		items = append(items, *n)
	}
	return items, nil
}
