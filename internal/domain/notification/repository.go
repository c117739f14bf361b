package notification

import (
	"context"

	"admitdesk/internal/common"
)

type Repository interface {
	Create(ctx context.Context, n Notification) (*Notification, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status, metadata map[string]string) (*Notification, error)
	ListPending(ctx context.Context) ([]Notification, error)
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
}
