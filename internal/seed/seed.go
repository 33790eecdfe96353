// Package seed loads a small, fixed set of demo records. Records are matched
// by natural key (department name, clinician name within its department,
// patient email, procedure name/patient/clinician) so running it again
// creates nothing new.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type clinicianSeed struct {
	Name       string
	Department string
}

type patientSeed struct {
	Name        string
	Email       string
	Gender      model.Gender
	DateOfBirth model.Date
}

type careTeamSeed struct {
	PatientEmail string
	Clinician    string
}

type procedureSeed struct {
	Name         string
	PatientEmail string
	Clinician    string
	Date         time.Time
}

var departments = []string{"Cardiology", "Surgery", "Pediatrics", "Emergency", "Radiology"}

var clinicians = []clinicianSeed{
	{"Dr. Smith", "Cardiology"},
	{"Dr. Johnson", "Cardiology"},
	{"Dr. Wilson", "Surgery"},
	{"Dr. Brown", "Surgery"},
	{"Dr. Davis", "Pediatrics"},
	{"Dr. Miller", "Emergency"},
	{"Dr. Garcia", "Radiology"},
}

var patients = []patientSeed{
	{"John Doe", "john@example.com", model.GenderMale, model.NewDate(1990, time.January, 1)},
	{"Jane Smith", "jane@example.com", model.GenderFemale, model.NewDate(1985, time.May, 15)},
	{"Bob Johnson", "bob@example.com", model.GenderMale, model.NewDate(1978, time.December, 3)},
	{"Alice Brown", "alice@example.com", model.GenderFemale, model.NewDate(1992, time.August, 20)},
	{"Charlie Wilson", "charlie@example.com", model.GenderMale, model.NewDate(1988, time.March, 10)},
	{"Diana Davis", "diana@example.com", model.GenderFemale, model.NewDate(1995, time.November, 25)},
}

var careTeams = []careTeamSeed{
	{"john@example.com", "Dr. Smith"},
	{"jane@example.com", "Dr. Smith"},
	{"jane@example.com", "Dr. Johnson"},
	{"bob@example.com", "Dr. Wilson"},
	{"alice@example.com", "Dr. Davis"},
}

var procedures = []procedureSeed{
	{"Heart Surgery", "john@example.com", "Dr. Smith", time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)},
	{"Checkup", "jane@example.com", "Dr. Johnson", time.Date(2024, 12, 1, 14, 30, 0, 0, time.UTC)},
	{"Appendectomy", "bob@example.com", "Dr. Wilson", time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC)},
	{"X-Ray", "alice@example.com", "Dr. Davis", time.Date(2024, 11, 25, 16, 0, 0, 0, time.UTC)},
	{"Heart Surgery", "jane@example.com", "Dr. Smith", time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)},
	{"Consultation", "charlie@example.com", "Dr. Miller", time.Date(2024, 12, 5, 11, 15, 0, 0, time.UTC)},
}

// Result counts the records created by one run.
type Result struct {
	Departments int `json:"departments"`
	Clinicians  int `json:"clinicians"`
	Patients    int `json:"patients"`
	Procedures  int `json:"procedures"`
}

type seeder struct {
	tx          repository.Store
	result      *Result
	departments map[string]*model.Department
	clinicians  map[string]*model.Clinician
	patients    map[string]*model.Patient
}

// Run seeds store inside a single transaction.
func Run(ctx context.Context, store repository.Store) (*Result, error) {
	result := &Result{}

	err := store.WithTx(ctx, func(tx repository.Store) error {
		s := &seeder{
			tx:          tx,
			result:      result,
			departments: make(map[string]*model.Department),
			clinicians:  make(map[string]*model.Clinician),
			patients:    make(map[string]*model.Patient),
		}
		for _, step := range []func(context.Context) error{
			s.seedDepartments,
			s.seedClinicians,
			s.seedPatients,
			s.seedCareTeams,
			s.seedProcedures,
		} {
			if err := step(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int("departments", result.Departments).
		Int("clinicians", result.Clinicians).
		Int("patients", result.Patients).
		Int("procedures", result.Procedures).
		Msg("Seed data loaded")
	return result, nil
}

func (s *seeder) seedDepartments(ctx context.Context) error {
	for _, name := range departments {
		dept, err := s.tx.Departments().FindByName(ctx, name)
		if apperrors.IsNotFound(err) {
			dept = &model.Department{Name: name}
			if err = s.tx.Departments().Create(ctx, dept); err == nil {
				s.result.Departments++
			}
		}
		if err != nil {
			return fmt.Errorf("failed to seed department %q: %w", name, err)
		}
		s.departments[name] = dept
	}
	return nil
}

func (s *seeder) seedClinicians(ctx context.Context) error {
	for _, seed := range clinicians {
		dept, ok := s.departments[seed.Department]
		if !ok {
			continue
		}
		clinician, err := s.tx.Clinicians().FindByName(ctx, seed.Name, dept.ID)
		if apperrors.IsNotFound(err) {
			clinician = &model.Clinician{Name: seed.Name, DepartmentID: dept.ID}
			if err = s.tx.Clinicians().Create(ctx, clinician); err == nil {
				s.result.Clinicians++
			}
		}
		if err != nil {
			return fmt.Errorf("failed to seed clinician %q: %w", seed.Name, err)
		}
		s.clinicians[seed.Name] = clinician
	}
	return nil
}

func (s *seeder) seedPatients(ctx context.Context) error {
	for _, seed := range patients {
		patient, err := s.tx.Patients().GetByEmail(ctx, seed.Email)
		if apperrors.IsNotFound(err) {
			patient = &model.Patient{
				Name:        seed.Name,
				Email:       seed.Email,
				Gender:      seed.Gender,
				DateOfBirth: seed.DateOfBirth,
			}
			if err = s.tx.Patients().Create(ctx, patient); err == nil {
				s.result.Patients++
			}
		}
		if err != nil {
			return fmt.Errorf("failed to seed patient %q: %w", seed.Email, err)
		}
		s.patients[seed.Email] = patient
	}
	return nil
}

func (s *seeder) seedCareTeams(ctx context.Context) error {
	for _, seed := range careTeams {
		patient, clinician := s.patients[seed.PatientEmail], s.clinicians[seed.Clinician]
		if patient == nil || clinician == nil {
			continue
		}
		if err := s.tx.CareTeams().Add(ctx, patient.ID, clinician.ID); err != nil {
			return fmt.Errorf("failed to seed care team for %q: %w", seed.PatientEmail, err)
		}
	}
	return nil
}

func (s *seeder) seedProcedures(ctx context.Context) error {
	for _, seed := range procedures {
		patient, clinician := s.patients[seed.PatientEmail], s.clinicians[seed.Clinician]
		if patient == nil || clinician == nil {
			continue
		}
		_, err := s.tx.Procedures().Find(ctx, seed.Name, patient.ID, clinician.ID)
		if apperrors.IsNotFound(err) {
			err = s.tx.Procedures().Create(ctx, &model.Procedure{
				Name:        seed.Name,
				Date:        seed.Date,
				PatientID:   patient.ID,
				ClinicianID: clinician.ID,
			})
			if err == nil {
				s.result.Procedures++
			}
		}
		if err != nil {
			return fmt.Errorf("failed to seed procedure %q: %w", seed.Name, err)
		}
	}
	return nil
}
