package department

import (
	"context"

	"admitdesk/internal/common"
)

type Repository interface {
	Create(ctx context.Context, dep Department) (*Department, error)
	Update(ctx context.Context, dep Department) (*Department, error)
	Delete(ctx context.Context, id common.UUID) error
	GetByID(ctx context.Context, id common.UUID) (*Department, error)
	List(ctx context.Context) ([]Department, error)
}
