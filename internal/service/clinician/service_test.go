package clinician

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func TestCreateClinician(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	dept := &model.Department{Name: "Pediatrics"}
	require.NoError(t, store.Departments().Create(ctx, dept))

	c, err := svc.CreateClinician(ctx, &model.CreateClinicianRequest{Name: "Dr. Lee", DepartmentID: dept.ID})
	require.NoError(t, err)
	assert.Equal(t, dept.ID, c.DepartmentID)

	_, err = svc.CreateClinician(ctx, &model.CreateClinicianRequest{Name: "Dr. Nobody", DepartmentID: 99})
	require.Error(t, err)
	assert.Equal(t, "Department not found", err.Error())

	_, err = svc.CreateClinician(ctx, &model.CreateClinicianRequest{Name: " ", DepartmentID: dept.ID})
	assert.True(t, apperrors.IsValidation(err))
}

func TestListClinicians_FilterByDepartment(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	a := &model.Department{Name: "A"}
	b := &model.Department{Name: "B"}
	require.NoError(t, store.Departments().Create(ctx, a))
	require.NoError(t, store.Departments().Create(ctx, b))
	require.NoError(t, store.Clinicians().Create(ctx, &model.Clinician{Name: "One", DepartmentID: a.ID}))
	require.NoError(t, store.Clinicians().Create(ctx, &model.Clinician{Name: "Two", DepartmentID: b.ID}))

	all, err := svc.ListClinicians(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.ListClinicians(ctx, &model.ClinicianFilters{DepartmentID: b.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Two", filtered[0].Name)
}

func TestDeleteClinician_RemovesProceduresAndLinks(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	dept := &model.Department{Name: "Emergency"}
	require.NoError(t, store.Departments().Create(ctx, dept))
	c := &model.Clinician{Name: "Dr. House", DepartmentID: dept.ID}
	require.NoError(t, store.Clinicians().Create(ctx, c))
	p := &model.Patient{Name: "Ann", Email: "ann@example.com", Gender: model.GenderOther, DateOfBirth: model.NewDate(2000, 2, 29)}
	require.NoError(t, store.Patients().Create(ctx, p))
	require.NoError(t, store.CareTeams().Add(ctx, p.ID, c.ID))
	require.NoError(t, store.Procedures().Create(ctx, &model.Procedure{
		Name: "Triage", Date: time.Now().UTC(), PatientID: p.ID, ClinicianID: c.ID,
	}))

	require.NoError(t, svc.DeleteClinician(ctx, c.ID))

	_, err := svc.GetClinician(ctx, c.ID)
	assert.True(t, apperrors.IsNotFound(err))
	procedures, err := store.Procedures().ListByPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, procedures)
	_, err = store.Departments().Get(ctx, dept.ID)
	assert.NoError(t, err)

	assert.True(t, apperrors.IsNotFound(svc.DeleteClinician(ctx, c.ID)))
}
