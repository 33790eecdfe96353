package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type careTeamRepository struct {
	q queryer
}

func (r *careTeamRepository) Add(ctx context.Context, patientID, clinicianID int64) error {
	query := `
		INSERT INTO patient_clinicians (patient_id, clinician_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (patient_id, clinician_id) DO NOTHING
	`
	if _, err := r.q.ExecContext(ctx, query, patientID, clinicianID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to add clinician to care team: %w", err)
	}
	return nil
}

func (r *careTeamRepository) Remove(ctx context.Context, patientID, clinicianID int64) error {
	query := `DELETE FROM patient_clinicians WHERE patient_id = $1 AND clinician_id = $2`
	if _, err := r.q.ExecContext(ctx, query, patientID, clinicianID); err != nil {
		return fmt.Errorf("failed to remove clinician from care team: %w", err)
	}
	return nil
}

func (r *careTeamRepository) ListClinicians(ctx context.Context, patientID int64) ([]*model.Clinician, error) {
	query := `
		SELECT c.id, c.name, c.department_id, c.created_at, c.updated_at
		FROM clinicians c
		JOIN patient_clinicians pc ON pc.clinician_id = c.id
		WHERE pc.patient_id = $1
		ORDER BY c.id
	`
	clinicians := []*model.Clinician{}
	if err := r.q.SelectContext(ctx, &clinicians, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list care team: %w", err)
	}
	return clinicians, nil
}

func (r *careTeamRepository) DeleteByPatient(ctx context.Context, patientID int64) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM patient_clinicians WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete patient care team: %w", err)
	}
	return result.RowsAffected()
}

func (r *careTeamRepository) DeleteByClinicians(ctx context.Context, clinicianIDs []int64) (int64, error) {
	if len(clinicianIDs) == 0 {
		return 0, nil
	}
	result, err := r.q.ExecContext(ctx, `DELETE FROM patient_clinicians WHERE clinician_id = ANY($1)`, pq.Array(clinicianIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete clinician care teams: %w", err)
	}
	return result.RowsAffected()
}
