// Package lookup resolves entity ids to live records. Every operation that
// touches more than one entity resolves its references through here.
package lookup

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// Kind names a resolvable entity type.
type Kind string

const (
	KindPatient    Kind = "patient"
	KindClinician  Kind = "clinician"
	KindDepartment Kind = "department"
	KindProcedure  Kind = "procedure"
)

// ParseID converts a raw path or body id. Anything that is not a positive
// integer is a validation error, never a not-found.
func ParseID(kind Kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation(fmt.Sprintf("invalid %s id", kind))
	}
	return id, nil
}

type Service struct {
	store repository.Store
}

// NewService returns a lookup over store. Pass the transactional Store from
// WithTx to resolve inside that transaction.
func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Patient(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.store.Patients().Get(ctx, id)
	if err != nil {
		return nil, wrap(err, KindPatient)
	}
	return patient, nil
}

func (s *Service) Clinician(ctx context.Context, id int64) (*model.Clinician, error) {
	clinician, err := s.store.Clinicians().Get(ctx, id)
	if err != nil {
		return nil, wrap(err, KindClinician)
	}
	return clinician, nil
}

func (s *Service) Department(ctx context.Context, id int64) (*model.Department, error) {
	department, err := s.store.Departments().Get(ctx, id)
	if err != nil {
		return nil, wrap(err, KindDepartment)
	}
	return department, nil
}

func (s *Service) Procedure(ctx context.Context, id int64) (*model.Procedure, error) {
	procedure, err := s.store.Procedures().Get(ctx, id)
	if err != nil {
		return nil, wrap(err, KindProcedure)
	}
	return procedure, nil
}

// Resolve parses rawID and returns the record of the given kind.
func (s *Service) Resolve(ctx context.Context, kind Kind, rawID string) (interface{}, error) {
	id, err := ParseID(kind, rawID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPatient:
		return s.Patient(ctx, id)
	case KindClinician:
		return s.Clinician(ctx, id)
	case KindDepartment:
		return s.Department(ctx, id)
	case KindProcedure:
		return s.Procedure(ctx, id)
	}
	return nil, fmt.Errorf("unknown entity kind %q", kind)
}

func wrap(err error, kind Kind) error {
	if apperrors.IsNotFound(err) {
		return err
	}
	return fmt.Errorf("failed to get %s: %w", kind, err)
}
