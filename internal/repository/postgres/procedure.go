package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type procedureRepository struct {
	q queryer
}

func (r *procedureRepository) Create(ctx context.Context, procedure *model.Procedure) error {
	query := `
		INSERT INTO procedures (name, date, patient_id, clinician_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	procedure.CreatedAt = time.Now().UTC()
	procedure.UpdatedAt = procedure.CreatedAt

	err := r.q.QueryRowxContext(ctx, query,
		procedure.Name,
		procedure.Date,
		procedure.PatientID,
		procedure.ClinicianID,
		procedure.CreatedAt,
		procedure.UpdatedAt,
	).Scan(&procedure.ID)
	if err != nil {
		return fmt.Errorf("failed to create procedure: %w", err)
	}
	return nil
}

func (r *procedureRepository) Get(ctx context.Context, id int64) (*model.Procedure, error) {
	query := `
		SELECT id, name, date, patient_id, clinician_id, created_at, updated_at
		FROM procedures
		WHERE id = $1
	`
	var procedure model.Procedure
	if err := r.q.GetContext(ctx, &procedure, query, id); err != nil {
		return nil, notFound(err, "Procedure")
	}
	return &procedure, nil
}

func (r *procedureRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Procedure, error) {
	query := `
		SELECT id, name, date, patient_id, clinician_id, created_at, updated_at
		FROM procedures
		WHERE patient_id = $1
		ORDER BY id
	`
	procedures := []*model.Procedure{}
	if err := r.q.SelectContext(ctx, &procedures, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list procedures: %w", err)
	}
	return procedures, nil
}

func (r *procedureRepository) Find(ctx context.Context, name string, patientID, clinicianID int64) (*model.Procedure, error) {
	query := `
		SELECT id, name, date, patient_id, clinician_id, created_at, updated_at
		FROM procedures
		WHERE name = $1 AND patient_id = $2 AND clinician_id = $3
		ORDER BY id
		LIMIT 1
	`
	var procedure model.Procedure
	if err := r.q.GetContext(ctx, &procedure, query, name, patientID, clinicianID); err != nil {
		return nil, notFound(err, "Procedure")
	}
	return &procedure, nil
}

func (r *procedureRepository) DeleteByPatient(ctx context.Context, patientID int64) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM procedures WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete patient procedures: %w", err)
	}
	return result.RowsAffected()
}

func (r *procedureRepository) DeleteByClinicians(ctx context.Context, clinicianIDs []int64) (int64, error) {
	if len(clinicianIDs) == 0 {
		return 0, nil
	}
	result, err := r.q.ExecContext(ctx, `DELETE FROM procedures WHERE clinician_id = ANY($1)`, pq.Array(clinicianIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete clinician procedures: %w", err)
	}
	return result.RowsAffected()
}
