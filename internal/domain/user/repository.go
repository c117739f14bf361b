package user

import "context"

type Repository interface {
	GetByUID(ctx context.Context, uid string) (*User, error)
	Upsert(ctx context.Context, account User) (*User, error)
	SetRole(ctx context.Context, uid string, role Role) error
}
