package repository

import (
	"context"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	// Store is the entity store handle passed into every service. Repositories
	// obtained from the Store passed to a WithTx callback read and write
	// through that transaction.
	Store interface {
		Departments() DepartmentRepository
		Clinicians() ClinicianRepository
		Patients() PatientRepository
		Procedures() ProcedureRepository
		CareTeams() CareTeamRepository
		Reports() ReportRepository

		// WithTx runs fn in a single unit of work. The work is committed when
		// fn returns nil and rolled back otherwise. Nested calls join the
		// outer transaction.
		WithTx(ctx context.Context, fn func(tx Store) error) error
		Ping(ctx context.Context) error
		Close() error
	}

	DepartmentRepository interface {
		Create(ctx context.Context, department *model.Department) error
		Get(ctx context.Context, id int64) (*model.Department, error)
		List(ctx context.Context) ([]*model.Department, error)
		FindByName(ctx context.Context, name string) (*model.Department, error)
		Delete(ctx context.Context, id int64) error
	}

	ClinicianRepository interface {
		Create(ctx context.Context, clinician *model.Clinician) error
		Get(ctx context.Context, id int64) (*model.Clinician, error)
		List(ctx context.Context, filters *model.ClinicianFilters) ([]*model.Clinician, error)
		FindByName(ctx context.Context, name string, departmentID int64) (*model.Clinician, error)
		Delete(ctx context.Context, id int64) error
		DeleteByDepartment(ctx context.Context, departmentID int64) (int64, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		// Search matches the term case-insensitively against name or email
		// and returns one page ordered by id plus the total match count.
		Search(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error)
	}

	ProcedureRepository interface {
		Create(ctx context.Context, procedure *model.Procedure) error
		Get(ctx context.Context, id int64) (*model.Procedure, error)
		ListByPatient(ctx context.Context, patientID int64) ([]*model.Procedure, error)
		Find(ctx context.Context, name string, patientID, clinicianID int64) (*model.Procedure, error)
		DeleteByPatient(ctx context.Context, patientID int64) (int64, error)
		DeleteByClinicians(ctx context.Context, clinicianIDs []int64) (int64, error)
	}

	// CareTeamRepository owns the patient/clinician association table.
	CareTeamRepository interface {
		// Add is idempotent: adding an existing pair is not an error.
		Add(ctx context.Context, patientID, clinicianID int64) error
		Remove(ctx context.Context, patientID, clinicianID int64) error
		ListClinicians(ctx context.Context, patientID int64) ([]*model.Clinician, error)
		DeleteByPatient(ctx context.Context, patientID int64) (int64, error)
		DeleteByClinicians(ctx context.Context, clinicianIDs []int64) (int64, error)
	}

	ReportRepository interface {
		// ProcedureMatches returns every procedure whose name contains the
		// term (case-insensitive), ordered by patient id then procedure id.
		ProcedureMatches(ctx context.Context, term string) ([]*model.ProcedureMatch, error)
		// ClinicianPatientCounts returns one row per clinician of the
		// department with the number of distinct associated patients.
		ClinicianPatientCounts(ctx context.Context, departmentID int64) ([]*model.ClinicianPatientCount, error)
	}
)
