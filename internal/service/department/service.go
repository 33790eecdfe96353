package department

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

func (s *Service) CreateDepartment(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name is required")
	}

	department := &model.Department{Name: name}
	if err := s.store.Departments().Create(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*model.Department, error) {
	return lookup.NewService(s.store).Department(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	departments, err := s.store.Departments().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// DeletionSummary counts what a department deletion removed.
type DeletionSummary struct {
	DepartmentID  int64 `json:"department_id"`
	Clinicians    int64 `json:"clinicians_deleted"`
	Procedures    int64 `json:"procedures_deleted"`
	CareTeamLinks int64 `json:"care_team_links_deleted"`
}

// DeleteDepartment removes, in order, the procedures performed by the
// department's clinicians, their care-team rows, the clinicians and finally
// the department. Storage foreign keys do not cascade, so the order matters.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) (*DeletionSummary, error) {
	summary := &DeletionSummary{DepartmentID: id}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := lookup.NewService(tx).Department(ctx, id); err != nil {
			return err
		}

		clinicians, err := tx.Clinicians().List(ctx, &model.ClinicianFilters{DepartmentID: id})
		if err != nil {
			return fmt.Errorf("failed to list department clinicians: %w", err)
		}
		ids := make([]int64, 0, len(clinicians))
		for _, c := range clinicians {
			ids = append(ids, c.ID)
		}

		if summary.Procedures, err = tx.Procedures().DeleteByClinicians(ctx, ids); err != nil {
			return err
		}
		if summary.CareTeamLinks, err = tx.CareTeams().DeleteByClinicians(ctx, ids); err != nil {
			return err
		}
		if summary.Clinicians, err = tx.Clinicians().DeleteByDepartment(ctx, id); err != nil {
			return err
		}
		return tx.Departments().Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Int64("department_id", id).
		Int64("clinicians_deleted", summary.Clinicians).
		Int64("procedures_deleted", summary.Procedures).
		Msg("Department deleted")
	s.events.Emit(ctx, messaging.EventDepartmentDeleted, summary)
	return summary, nil
}
