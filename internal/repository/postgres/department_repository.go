package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/department"
)

type DepartmentRepository struct {
	db *sql.DB
}

func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, dep department.Department) (*department.Department, error) {
	dep.ID = common.NewUUID()
	now := time.Now().UTC()
	dep.CreatedAt = now
	dep.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO departments (id, name, code, description, subjects, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		dep.ID, dep.Name, dep.Code, dep.Description, pq.Array(dep.Subjects), dep.CreatedAt, dep.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "department code already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create department", err)
	}
	return &dep, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, dep department.Department) (*department.Department, error) {
	dep.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE departments SET name = $1, code = $2, description = $3, subjects = $4, updated_at = $5
		WHERE id = $6`,
		dep.Name, dep.Code, dep.Description, pq.Array(dep.Subjects), dep.UpdatedAt, dep.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "department code already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update department", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "department not found", sql.ErrNoRows)
	}
	return &dep, nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete department", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "department not found", sql.ErrNoRows)
	}
	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id common.UUID) (*department.Department, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, code, description, subjects, created_at, updated_at FROM departments WHERE id = $1`, id)
	var dep department.Department
	if err := row.Scan(&dep.ID, &dep.Name, &dep.Code, &dep.Description, pq.Array(&dep.Subjects), &dep.CreatedAt, &dep.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "department not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load department", err)
	}
	return &dep, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]department.Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code, description, subjects, created_at, updated_at FROM departments ORDER BY name ASC`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list departments", err)
	}
	defer rows.Close()
	var items []department.Department
	for rows.Next() {
		var dep department.Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.Code, &dep.Description, pq.Array(&dep.Subjects), &dep.CreatedAt, &dep.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan department", err)
		}
		items = append(items, dep)
	}
	return items, nil
}
