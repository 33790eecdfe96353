package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
)

type reportRepository struct {
	q queryer
}

func (r *reportRepository) ProcedureMatches(ctx context.Context, term string) ([]*model.ProcedureMatch, error) {
	query := `
		SELECT
			p.id            AS patient_id,
			p.name          AS patient_name,
			p.gender        AS gender,
			p.email         AS email,
			p.date_of_birth AS date_of_birth,
			pr.id           AS procedure_id,
			pr.name         AS procedure_name,
			pr.date         AS procedure_date,
			c.name          AS clinician_name
		FROM procedures pr
		JOIN patients p ON p.id = pr.patient_id
		JOIN clinicians c ON c.id = pr.clinician_id
		WHERE pr.name ILIKE $1
		ORDER BY p.id, pr.id
	`
	matches := []*model.ProcedureMatch{}
	if err := r.q.SelectContext(ctx, &matches, query, "%"+escapeLike(term)+"%"); err != nil {
		return nil, fmt.Errorf("failed to query procedures by name: %w", err)
	}
	return matches, nil
}

func (r *reportRepository) ClinicianPatientCounts(ctx context.Context, departmentID int64) ([]*model.ClinicianPatientCount, error) {
	query := `
		SELECT
			c.id   AS clinician_id,
			c.name AS clinician_name,
			d.name AS department_name,
			COUNT(DISTINCT pc.patient_id) AS patient_count
		FROM clinicians c
		JOIN departments d ON d.id = c.department_id
		LEFT JOIN patient_clinicians pc ON pc.clinician_id = c.id
		WHERE c.department_id = $1
		GROUP BY c.id, c.name, d.name
		ORDER BY c.id
	`
	counts := []*model.ClinicianPatientCount{}
	if err := r.q.SelectContext(ctx, &counts, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to count clinician patients: %w", err)
	}
	return counts, nil
}
