package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

var (
	dialect = goqu.Dialect("postgres")

	patientColumns = []interface{}{
		"id", "name", "gender", "email", "date_of_birth", "created_at", "updated_at",
	}
)

type patientRepository struct {
	q queryer
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (name, gender, email, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	patient.CreatedAt = time.Now().UTC()
	patient.UpdatedAt = patient.CreatedAt

	err := r.q.QueryRowxContext(ctx, query,
		patient.Name,
		patient.Gender,
		patient.Email,
		patient.DateOfBirth,
		patient.CreatedAt,
		patient.UpdatedAt,
	).Scan(&patient.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflict("patient with this email already exists", err)
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `
		SELECT id, name, gender, email, date_of_birth, created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	if err := r.q.GetContext(ctx, &patient, query, id); err != nil {
		return nil, notFound(err, "Patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	query := `
		SELECT id, name, gender, email, date_of_birth, created_at, updated_at
		FROM patients
		WHERE email = $1
	`
	var patient model.Patient
	if err := r.q.GetContext(ctx, &patient, query, email); err != nil {
		return nil, notFound(err, "Patient")
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, gender = $2, email = $3, date_of_birth = $4, updated_at = $5
		WHERE id = $6
		RETURNING created_at
	`
	patient.UpdatedAt = time.Now().UTC()

	err := r.q.QueryRowxContext(ctx, query,
		patient.Name,
		patient.Gender,
		patient.Email,
		patient.DateOfBirth,
		patient.UpdatedAt,
		patient.ID,
	).Scan(&patient.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflict("patient with this email already exists", err)
		}
		return notFound(err, "Patient")
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return expectOneRow(result, "Patient")
}

func (r *patientRepository) Search(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error) {
	page := filters.Pagination.Normalize()

	ds := dialect.From("patients").Prepared(true)
	if term := strings.TrimSpace(filters.SearchTerm); term != "" {
		pattern := "%" + escapeLike(term) + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("email").ILike(pattern),
		))
	}

	countQuery, countArgs, err := ds.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build patient count query: %w", err)
	}
	var total int
	if err := r.q.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	listQuery, listArgs, err := ds.Select(patientColumns...).
		Order(goqu.C("id").Asc()).
		Limit(uint(page.PageSize)).
		Offset(uint(page.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build patient search query: %w", err)
	}

	patients := []*model.Patient{}
	if err := r.q.SelectContext(ctx, &patients, listQuery, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralises LIKE wildcards so user input is matched literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
