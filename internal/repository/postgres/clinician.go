package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type clinicianRepository struct {
	q queryer
}

func (r *clinicianRepository) Create(ctx context.Context, clinician *model.Clinician) error {
	query := `
		INSERT INTO clinicians (name, department_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	clinician.CreatedAt = time.Now().UTC()
	clinician.UpdatedAt = clinician.CreatedAt

	err := r.q.QueryRowxContext(ctx, query,
		clinician.Name,
		clinician.DepartmentID,
		clinician.CreatedAt,
		clinician.UpdatedAt,
	).Scan(&clinician.ID)
	if err != nil {
		return fmt.Errorf("failed to create clinician: %w", err)
	}
	return nil
}

func (r *clinicianRepository) Get(ctx context.Context, id int64) (*model.Clinician, error) {
	query := `
		SELECT id, name, department_id, created_at, updated_at
		FROM clinicians
		WHERE id = $1
	`
	var clinician model.Clinician
	if err := r.q.GetContext(ctx, &clinician, query, id); err != nil {
		return nil, notFound(err, "Clinician")
	}
	return &clinician, nil
}

func (r *clinicianRepository) List(ctx context.Context, filters *model.ClinicianFilters) ([]*model.Clinician, error) {
	query := `
		SELECT id, name, department_id, created_at, updated_at
		FROM clinicians
		WHERE ($1::bigint = 0 OR department_id = $1::bigint)
		ORDER BY id
	`
	var departmentID int64
	if filters != nil {
		departmentID = filters.DepartmentID
	}

	clinicians := []*model.Clinician{}
	if err := r.q.SelectContext(ctx, &clinicians, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list clinicians: %w", err)
	}
	return clinicians, nil
}

func (r *clinicianRepository) FindByName(ctx context.Context, name string, departmentID int64) (*model.Clinician, error) {
	query := `
		SELECT id, name, department_id, created_at, updated_at
		FROM clinicians
		WHERE name = $1 AND department_id = $2
		ORDER BY id
		LIMIT 1
	`
	var clinician model.Clinician
	if err := r.q.GetContext(ctx, &clinician, query, name, departmentID); err != nil {
		return nil, notFound(err, "Clinician")
	}
	return &clinician, nil
}

func (r *clinicianRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM clinicians WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete clinician: %w", err)
	}
	return expectOneRow(result, "Clinician")
}

func (r *clinicianRepository) DeleteByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM clinicians WHERE department_id = $1`, departmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete department clinicians: %w", err)
	}
	return result.RowsAffected()
}
