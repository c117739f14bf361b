package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, uid, phone_number, role, display_name, photo_url, email, created_at, updated_at
		FROM users WHERE uid = $1`, uid)
	var account user.User
	if err := row.Scan(&account.ID, &account.UID, &account.PhoneNumber, &account.Role, &account.DisplayName, &account.PhotoURL, &account.Email, &account.CreatedAt, &account.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	return &account, nil
}

// Upsert creates the user on first login and refreshes contact details on
// later logins. Role is only written on insert; role changes go through
// SetRole.
func (r *UserRepository) Upsert(ctx context.Context, account user.User) (*user.User, error) {
	account.ID = common.NewUUID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	row := r.db.QueryRowContext(ctx, `INSERT INTO users (id, uid, phone_number, role, display_name, photo_url, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (uid) DO UPDATE SET
			phone_number = EXCLUDED.phone_number,
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
		RETURNING id, uid, phone_number, role, display_name, photo_url, email, created_at, updated_at`,
		account.ID, account.UID, account.PhoneNumber, account.Role, account.DisplayName, account.PhotoURL, account.Email, account.CreatedAt, account.UpdatedAt)
	var stored user.User
	if err := row.Scan(&stored.ID, &stored.UID, &stored.PhoneNumber, &stored.Role, &stored.DisplayName, &stored.PhotoURL, &stored.Email, &stored.CreatedAt, &stored.UpdatedAt); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to upsert user", err)
	}
	return &stored, nil
}

func (r *UserRepository) SetRole(ctx context.Context, uid string, role user.Role) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1, updated_at = $2 WHERE uid = $3`,
		role, time.Now().UTC(), uid)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to set role", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "user not found", sql.ErrNoRows)
	}
	return nil
}
