package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type departmentRepository struct {
	q queryer
}

func (r *departmentRepository) Create(ctx context.Context, department *model.Department) error {
	query := `
		INSERT INTO departments (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	department.CreatedAt = time.Now().UTC()
	department.UpdatedAt = department.CreatedAt

	err := r.q.QueryRowxContext(ctx, query,
		department.Name,
		department.CreatedAt,
		department.UpdatedAt,
	).Scan(&department.ID)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id int64) (*model.Department, error) {
	query := `SELECT id, name, created_at, updated_at FROM departments WHERE id = $1`
	var department model.Department
	if err := r.q.GetContext(ctx, &department, query, id); err != nil {
		return nil, notFound(err, "Department")
	}
	return &department, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	query := `SELECT id, name, created_at, updated_at FROM departments ORDER BY id`
	departments := []*model.Department{}
	if err := r.q.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) FindByName(ctx context.Context, name string) (*model.Department, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM departments
		WHERE name = $1
		ORDER BY id
		LIMIT 1
	`
	var department model.Department
	if err := r.q.GetContext(ctx, &department, query, name); err != nil {
		return nil, notFound(err, "Department")
	}
	return &department, nil
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return expectOneRow(result, "Department")
}
