package postgres

import (
	"context"
	"database/sql"

	"admitdesk/internal/common"
)

type CounterRepository struct {
	db *sql.DB
}

func NewCounterRepository(db *sql.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next advances the named counter and returns the new value in one statement.
// The upsert keeps increment-and-fetch atomic; concurrent callers can never
// observe the same value.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	row := r.db.QueryRowContext(ctx, `INSERT INTO counters (name, sequence) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET sequence = counters.sequence + 1
		RETURNING sequence`, name)
	var sequence int64
	if err := row.Scan(&sequence); err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to advance counter", err)
	}
	return sequence, nil
}
