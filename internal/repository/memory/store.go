// Package memory is an in-process repository.Store. Every write works on a
// private copy of the state that replaces the shared state only on success,
// so a failed operation or transaction leaves nothing behind.
package memory

import (
	"context"
	"sync"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type careKey struct {
	patientID   int64
	clinicianID int64
}

type sequences struct {
	departments int64
	clinicians  int64
	patients    int64
	procedures  int64
}

type state struct {
	departments map[int64]model.Department
	clinicians  map[int64]model.Clinician
	patients    map[int64]model.Patient
	procedures  map[int64]model.Procedure
	careTeams   map[careKey]struct{}
	seq         sequences
}

func newState() *state {
	return &state{
		departments: map[int64]model.Department{},
		clinicians:  map[int64]model.Clinician{},
		patients:    map[int64]model.Patient{},
		procedures:  map[int64]model.Procedure{},
		careTeams:   map[careKey]struct{}{},
	}
}

func (s *state) clone() *state {
	c := &state{
		departments: make(map[int64]model.Department, len(s.departments)),
		clinicians:  make(map[int64]model.Clinician, len(s.clinicians)),
		patients:    make(map[int64]model.Patient, len(s.patients)),
		procedures:  make(map[int64]model.Procedure, len(s.procedures)),
		careTeams:   make(map[careKey]struct{}, len(s.careTeams)),
		seq:         s.seq,
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.clinicians {
		c.clinicians[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.procedures {
		c.procedures[k] = v
	}
	for k := range s.careTeams {
		c.careTeams[k] = struct{}{}
	}
	return c
}

type database struct {
	mu    sync.RWMutex
	state *state
}

// Store implements repository.Store in memory.
type Store struct {
	db *database
	tx *state
}

func NewStore() *Store {
	return &Store{db: &database{state: newState()}}
}

func (s *Store) read(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return fn(s.db.state)
}

func (s *Store) write(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	working := s.db.state.clone()
	if err := fn(working); err != nil {
		return err
	}
	s.db.state = working
	return nil
}

func (s *Store) Departments() repository.DepartmentRepository {
	return &departmentRepository{s: s}
}

func (s *Store) Clinicians() repository.ClinicianRepository {
	return &clinicianRepository{s: s}
}

func (s *Store) Patients() repository.PatientRepository {
	return &patientRepository{s: s}
}

func (s *Store) Procedures() repository.ProcedureRepository {
	return &procedureRepository{s: s}
}

func (s *Store) CareTeams() repository.CareTeamRepository {
	return &careTeamRepository{s: s}
}

func (s *Store) Reports() repository.ReportRepository {
	return &reportRepository{s: s}
}

// WithTx holds the write lock for the whole of fn, so transactions are
// serialised.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	working := s.db.state.clone()
	if err := fn(&Store{db: s.db, tx: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.db.state = working
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
