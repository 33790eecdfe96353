package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
)

func TestRunCreatesDemoData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	result, err := Run(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, &Result{Departments: 5, Clinicians: 7, Patients: 6, Procedures: 6}, result)

	cardiology, err := store.Departments().FindByName(ctx, "Cardiology")
	require.NoError(t, err)

	counts, err := store.Reports().ClinicianPatientCounts(ctx, cardiology.ID)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Dr. Smith", counts[0].ClinicianName)
	assert.Equal(t, 2, counts[0].PatientCount)
	assert.Equal(t, "Dr. Johnson", counts[1].ClinicianName)
	assert.Equal(t, 1, counts[1].PatientCount)

	matches, err := store.Reports().ProcedureMatches(ctx, "heart")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := Run(ctx, store)
	require.NoError(t, err)

	result, err := Run(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, &Result{}, result)

	departments, err := store.Departments().List(ctx)
	require.NoError(t, err)
	assert.Len(t, departments, 5)

	_, total, err := store.Patients().Search(ctx, &model.PatientFilters{Pagination: model.Pagination{Page: 1, PageSize: 50}})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
}

func TestRunKeepsExistingRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	existing := &model.Patient{Name: "Johnny", Email: "john@example.com", Gender: model.GenderMale, DateOfBirth: model.NewDate(1990, 1, 1)}
	require.NoError(t, store.Patients().Create(ctx, existing))

	result, err := Run(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Patients)

	john, err := store.Patients().GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, john.ID)
	assert.Equal(t, "Johnny", john.Name)

	procs, err := store.Procedures().ListByPatient(ctx, existing.ID)
	require.NoError(t, err)
	require.Len(t, procs, 1)
	assert.Equal(t, "Heart Surgery", procs[0].Name)
}
