package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	"github.com/jwalitptl/hospital-api/internal/service/lookup"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const (
	msgMissingAssignmentFields = "Missing required fields: name, date, clinician"
	msgDuplicateEmail          = "patient with this email already exists"
)

type Service struct {
	store   repository.Store
	events  *event.EventService
	metrics *metrics.Metrics
}

func NewService(store repository.Store, events *event.EventService, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.NewNop()
	}
	if events == nil {
		events = event.NewEventService(nil, m)
	}
	return &Service{store: store, events: events, metrics: m}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.PatientRequest) (*model.Patient, error) {
	patient, err := newPatient(req)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := ensureEmailAvailable(ctx, tx, patient.Email, 0); err != nil {
			return err
		}
		return tx.Patients().Create(ctx, patient)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Int64("patient_id", patient.ID).Msg("Patient created")
	s.events.Emit(ctx, messaging.EventPatientCreated, map[string]int64{"patient_id": patient.ID})
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	return lookup.NewService(s.store).Patient(ctx, id)
}

// UpdatePatient replaces every mutable field of the patient.
func (s *Service) UpdatePatient(ctx context.Context, id int64, req *model.PatientRequest) (*model.Patient, error) {
	updated, err := newPatient(req)
	if err != nil {
		return nil, err
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		existing, err := lookup.NewService(tx).Patient(ctx, id)
		if err != nil {
			return err
		}
		if existing.Email != updated.Email {
			if err := ensureEmailAvailable(ctx, tx, updated.Email, id); err != nil {
				return err
			}
		}
		updated.ID = id
		return tx.Patients().Update(ctx, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePatient removes the patient's procedures, then its care-team rows,
// then the patient, all in one transaction.
func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	var procedures, links int64
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := lookup.NewService(tx).Patient(ctx, id); err != nil {
			return err
		}

		var err error
		if procedures, err = tx.Procedures().DeleteByPatient(ctx, id); err != nil {
			return err
		}
		if links, err = tx.CareTeams().DeleteByPatient(ctx, id); err != nil {
			return err
		}
		return tx.Patients().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Int64("patient_id", id).
		Int64("procedures_deleted", procedures).
		Int64("care_team_links_deleted", links).
		Msg("Patient deleted")
	s.events.Emit(ctx, messaging.EventPatientDeleted, map[string]int64{
		"patient_id":         id,
		"procedures_deleted": procedures,
	})
	return nil
}

// ListPatients pages through patients whose name or email contains search,
// ignoring case. An empty search lists everyone.
func (s *Service) ListPatients(ctx context.Context, search string, page model.Pagination) (*model.PatientPage, error) {
	if page.Page < 0 || page.PageSize < 0 {
		return nil, apperrors.NewValidation("page and page_size must be positive")
	}
	page = page.Normalize()

	patients, total, err := s.store.Patients().Search(ctx, &model.PatientFilters{
		SearchTerm: strings.TrimSpace(search),
		Pagination: page,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	return &model.PatientPage{
		Count:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  patients,
	}, nil
}

// AssignProcedure records a procedure for the patient. The patient, the
// input and the clinician are checked in that order and the procedure is
// inserted in the same transaction as the checks.
func (s *Service) AssignProcedure(ctx context.Context, patientID int64, req *model.AssignProcedureRequest) (*model.ProcedureAssignment, error) {
	procedure := &model.Procedure{PatientID: patientID}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		lk := lookup.NewService(tx)
		if _, err := lk.Patient(ctx, patientID); err != nil {
			return err
		}

		name := strings.TrimSpace(req.Name)
		rawDate := strings.TrimSpace(req.Date)
		rawClinician := strings.TrimSpace(req.Clinician.String())
		if name == "" || rawDate == "" || rawClinician == "" {
			return apperrors.NewValidation(msgMissingAssignmentFields)
		}

		date, err := parseProcedureDate(rawDate)
		if err != nil {
			return err
		}
		clinicianID, err := lookup.ParseID(lookup.KindClinician, rawClinician)
		if err != nil {
			return err
		}

		clinician, err := lk.Clinician(ctx, clinicianID)
		if err != nil {
			return err
		}

		procedure.Name = name
		procedure.Date = date
		procedure.ClinicianID = clinician.ID
		return tx.Procedures().Create(ctx, procedure)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ProceduresAssigned.Inc()
	log.Ctx(ctx).Info().
		Int64("procedure_id", procedure.ID).
		Int64("patient_id", procedure.PatientID).
		Int64("clinician_id", procedure.ClinicianID).
		Msg("Procedure assigned")

	assignment := model.NewProcedureAssignment(procedure)
	s.events.Emit(ctx, messaging.EventProcedureAssigned, assignment)
	return assignment, nil
}

func (s *Service) ListProcedures(ctx context.Context, patientID int64) ([]*model.Procedure, error) {
	if _, err := lookup.NewService(s.store).Patient(ctx, patientID); err != nil {
		return nil, err
	}
	procedures, err := s.store.Procedures().ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list procedures: %w", err)
	}
	return procedures, nil
}

// AddClinician puts the clinician on the patient's care team. Adding an
// existing member is a no-op.
func (s *Service) AddClinician(ctx context.Context, patientID, clinicianID int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := resolvePair(ctx, tx, patientID, clinicianID); err != nil {
			return err
		}
		return tx.CareTeams().Add(ctx, patientID, clinicianID)
	})
	if err != nil {
		return err
	}
	s.events.Emit(ctx, messaging.EventCareTeamChanged, careTeamChange{patientID, clinicianID, "added"})
	return nil
}

func (s *Service) RemoveClinician(ctx context.Context, patientID, clinicianID int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := resolvePair(ctx, tx, patientID, clinicianID); err != nil {
			return err
		}
		return tx.CareTeams().Remove(ctx, patientID, clinicianID)
	})
	if err != nil {
		return err
	}
	s.events.Emit(ctx, messaging.EventCareTeamChanged, careTeamChange{patientID, clinicianID, "removed"})
	return nil
}

func (s *Service) ListClinicians(ctx context.Context, patientID int64) ([]*model.Clinician, error) {
	if _, err := lookup.NewService(s.store).Patient(ctx, patientID); err != nil {
		return nil, err
	}
	clinicians, err := s.store.CareTeams().ListClinicians(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinicians: %w", err)
	}
	return clinicians, nil
}

type careTeamChange struct {
	PatientID   int64  `json:"patient_id"`
	ClinicianID int64  `json:"clinician_id"`
	Action      string `json:"action"`
}

func resolvePair(ctx context.Context, tx repository.Store, patientID, clinicianID int64) error {
	lk := lookup.NewService(tx)
	if _, err := lk.Patient(ctx, patientID); err != nil {
		return err
	}
	_, err := lk.Clinician(ctx, clinicianID)
	return err
}

func ensureEmailAvailable(ctx context.Context, tx repository.Store, email string, exceptID int64) error {
	existing, err := tx.Patients().GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != exceptID:
		return apperrors.NewConflict(msgDuplicateEmail, nil)
	case err != nil && !apperrors.IsNotFound(err):
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func newPatient(req *model.PatientRequest) (*model.Patient, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	switch {
	case name == "":
		return nil, apperrors.NewValidation("name is required")
	case email == "":
		return nil, apperrors.NewValidation("email is required")
	case !req.Gender.Valid():
		return nil, apperrors.NewValidation("gender must be one of M, F, O")
	case req.DateOfBirth.IsZero():
		return nil, apperrors.NewValidation("date_of_birth is required")
	}

	return &model.Patient{
		Name:        name,
		Email:       email,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
	}, nil
}

func parseProcedureDate(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidation("invalid date")
	}
	return t.UTC(), nil
}
