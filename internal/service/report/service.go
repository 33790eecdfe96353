// Package report answers the cross-entity queries: which patients had a
// procedure with a given name, and how many patients each clinician of a
// department looks after.
package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const (
	queryPatientsByProcedure = "patients_by_procedure"
	queryCountsByDepartment  = "counts_by_department"
)

type Service struct {
	store   repository.Store
	metrics *metrics.Metrics
}

func NewService(store repository.Store, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Service{store: store, metrics: m}
}

// PatientsByProcedure returns each patient with at least one procedure whose
// name contains name (ignoring case) exactly once, together with only the
// matching procedures.
func (s *Service) PatientsByProcedure(ctx context.Context, name string) ([]*model.PatientWithProcedures, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidation("procedure_name parameter required")
	}

	defer s.observe(queryPatientsByProcedure, time.Now())

	rows, err := s.store.Reports().ProcedureMatches(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find patients by procedure: %w", err)
	}
	return groupByPatient(rows), nil
}

// groupByPatient folds rows ordered by (patient, procedure) into one entry
// per patient.
func groupByPatient(rows []*model.ProcedureMatch) []*model.PatientWithProcedures {
	result := []*model.PatientWithProcedures{}
	var current *model.PatientWithProcedures

	for _, row := range rows {
		if current == nil || current.PatientID != row.PatientID {
			current = &model.PatientWithProcedures{
				PatientID:   row.PatientID,
				PatientName: row.PatientName,
				Gender:      row.Gender,
				Email:       row.Email,
				DateOfBirth: row.DateOfBirth,
				Procedures:  []*model.MatchedProcedure{},
			}
			result = append(result, current)
		}
		current.Procedures = append(current.Procedures, &model.MatchedProcedure{
			ProcedureID:   row.ProcedureID,
			ProcedureName: row.ProcedureName,
			ProcedureDate: row.ProcedureDate,
			ClinicianName: row.ClinicianName,
		})
	}
	return result
}

// CountsByDepartment returns the number of distinct patients associated with
// each clinician of the department. A department that does not exist and one
// without clinicians both yield not-found.
func (s *Service) CountsByDepartment(ctx context.Context, rawDepartmentID string) ([]*model.ClinicianPatientCount, error) {
	rawDepartmentID = strings.TrimSpace(rawDepartmentID)
	if rawDepartmentID == "" {
		return nil, apperrors.NewValidation("department_id parameter required")
	}
	departmentID, err := strconv.ParseInt(rawDepartmentID, 10, 64)
	if err != nil {
		return nil, apperrors.NewValidation("Invalid department_id")
	}

	defer s.observe(queryCountsByDepartment, time.Now())

	counts, err := s.store.Reports().ClinicianPatientCounts(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count clinician patients: %w", err)
	}
	if len(counts) == 0 {
		return nil, &apperrors.AppError{
			Kind:    apperrors.KindNotFound,
			Message: "Department not found or has no clinicians",
		}
	}
	return counts, nil
}

func (s *Service) observe(query string, start time.Time) {
	s.metrics.QueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
