package department

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
)

func TestCreateAndListDepartments(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)
	ctx := context.Background()

	d, err := svc.CreateDepartment(ctx, &model.CreateDepartmentRequest{Name: " Radiology "})
	require.NoError(t, err)
	assert.Equal(t, "Radiology", d.Name)

	_, err = svc.CreateDepartment(ctx, &model.CreateDepartmentRequest{Name: ""})
	assert.True(t, apperrors.IsValidation(err))

	list, err := svc.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetDepartment(ctx, 42)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteDepartment_CascadesTransitively(t *testing.T) {
	store := memory.NewStore()
	broker := messaging.NewMemoryBroker()
	svc := NewService(store, event.NewEventService(broker, nil))
	ctx := context.Background()

	cardiology := &model.Department{Name: "Cardiology"}
	surgery := &model.Department{Name: "Surgery"}
	require.NoError(t, store.Departments().Create(ctx, cardiology))
	require.NoError(t, store.Departments().Create(ctx, surgery))

	smith := &model.Clinician{Name: "Dr. Smith", DepartmentID: cardiology.ID}
	jones := &model.Clinician{Name: "Dr. Jones", DepartmentID: cardiology.ID}
	cutter := &model.Clinician{Name: "Dr. Cutter", DepartmentID: surgery.ID}
	for _, c := range []*model.Clinician{smith, jones, cutter} {
		require.NoError(t, store.Clinicians().Create(ctx, c))
	}

	patient := &model.Patient{Name: "Ann", Email: "ann@example.com", Gender: model.GenderFemale, DateOfBirth: model.NewDate(1970, 1, 1)}
	require.NoError(t, store.Patients().Create(ctx, patient))
	require.NoError(t, store.CareTeams().Add(ctx, patient.ID, smith.ID))
	require.NoError(t, store.CareTeams().Add(ctx, patient.ID, cutter.ID))

	date := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Procedures().Create(ctx, &model.Procedure{Name: "ECG", Date: date, PatientID: patient.ID, ClinicianID: smith.ID}))
	require.NoError(t, store.Procedures().Create(ctx, &model.Procedure{Name: "Stent", Date: date, PatientID: patient.ID, ClinicianID: jones.ID}))
	kept := &model.Procedure{Name: "Appendectomy", Date: date, PatientID: patient.ID, ClinicianID: cutter.ID}
	require.NoError(t, store.Procedures().Create(ctx, kept))

	summary, err := svc.DeleteDepartment(ctx, cardiology.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Clinicians)
	assert.Equal(t, int64(2), summary.Procedures)
	assert.Equal(t, int64(1), summary.CareTeamLinks)

	_, err = store.Departments().Get(ctx, cardiology.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = store.Clinicians().Get(ctx, smith.ID)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = store.Clinicians().Get(ctx, jones.ID)
	assert.True(t, apperrors.IsNotFound(err))

	procedures, err := store.Procedures().ListByPatient(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, procedures, 1)
	assert.Equal(t, kept.ID, procedures[0].ID)

	team, err := store.CareTeams().ListClinicians(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, cutter.ID, team[0].ID)

	_, err = store.Patients().Get(ctx, patient.ID)
	assert.NoError(t, err)

	events := broker.Events()
	require.Len(t, events, 1)
	assert.Equal(t, messaging.EventDepartmentDeleted, events[0].Type)
}

func TestDeleteDepartment_NotFound(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)

	_, err := svc.DeleteDepartment(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Department not found", err.Error())
}
