package clinician

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	"github.com/jwalitptl/hospital-api/internal/service/lookup"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
)

type Service struct {
	store  repository.Store
	events *event.EventService
}

func NewService(store repository.Store, events *event.EventService) *Service {
	if events == nil {
		events = event.NewEventService(nil, nil)
	}
	return &Service{store: store, events: events}
}

func (s *Service) CreateClinician(ctx context.Context, req *model.CreateClinicianRequest) (*model.Clinician, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name is required")
	}

	clinician := &model.Clinician{Name: name, DepartmentID: req.DepartmentID}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := lookup.NewService(tx).Department(ctx, req.DepartmentID); err != nil {
			return err
		}
		return tx.Clinicians().Create(ctx, clinician)
	})
	if err != nil {
		return nil, err
	}
	return clinician, nil
}

func (s *Service) GetClinician(ctx context.Context, id int64) (*model.Clinician, error) {
	return lookup.NewService(s.store).Clinician(ctx, id)
}

func (s *Service) ListClinicians(ctx context.Context, filters *model.ClinicianFilters) ([]*model.Clinician, error) {
	clinicians, err := s.store.Clinicians().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinicians: %w", err)
	}
	return clinicians, nil
}

// DeleteClinician removes the clinician's procedures, then its care-team
// rows, then the clinician.
func (s *Service) DeleteClinician(ctx context.Context, id int64) error {
	var procedures int64
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := lookup.NewService(tx).Clinician(ctx, id); err != nil {
			return err
		}

		var err error
		ids := []int64{id}
		if procedures, err = tx.Procedures().DeleteByClinicians(ctx, ids); err != nil {
			return err
		}
		if _, err = tx.CareTeams().DeleteByClinicians(ctx, ids); err != nil {
			return err
		}
		return tx.Clinicians().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Int64("clinician_id", id).
		Int64("procedures_deleted", procedures).
		Msg("Clinician deleted")
	s.events.Emit(ctx, messaging.EventClinicianDeleted, map[string]int64{
		"clinician_id":       id,
		"procedures_deleted": procedures,
	})
	return nil
}
