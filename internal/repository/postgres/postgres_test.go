package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewStore(sqlx.NewDb(mockDB, "postgres")), mock
}

var patientRowColumns = []string{"id", "name", "gender", "email", "date_of_birth", "created_at", "updated_at"}

func TestPatientRepository_Create(t *testing.T) {
	store, mock := newMockStore(t)
	patient := &model.Patient{
		Name:        "Jane",
		Gender:      model.GenderFemale,
		Email:       "jane@example.com",
		DateOfBirth: model.NewDate(1985, time.May, 15),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WithArgs("Jane", model.GenderFemale, "jane@example.com", "1985-05-15", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	require.NoError(t, store.Patients().Create(context.Background(), patient))
	assert.Equal(t, int64(7), patient.ID)
	assert.False(t, patient.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_CreateDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := store.Patients().Create(context.Background(), &model.Patient{Name: "Jane", Email: "jane@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_Get(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(patientRowColumns).
			AddRow(3, "Bob", "M", "bob@example.com", time.Date(1978, 12, 3, 0, 0, 0, 0, time.UTC), now, now))

	patient, err := store.Patients().Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Bob", patient.Name)
	assert.Equal(t, model.GenderMale, patient.Gender)
	assert.Equal(t, "1978-12-03", patient.DateOfBirth.String())

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients")).
		WithArgs(int64(4)).
		WillReturnError(sql.ErrNoRows)

	_, err = store.Patients().Get(context.Background(), 4)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_DeleteMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM patients WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Patients().Delete(context.Background(), 9)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_SearchEscapesWildcards(t *testing.T) {
	store, mock := newMockStore(t)
	pattern := `%o\_b%`

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "patients" WHERE .*ILIKE`).
		WithArgs(pattern, pattern).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT "id", "name", "gender", "email", "date_of_birth", "created_at", "updated_at" FROM "patients" WHERE .* ORDER BY "id" ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows(patientRowColumns).
			AddRow(1, "Jo_Bo", "O", "jo_bo@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), time.Now(), time.Now()))

	patients, total, err := store.Patients().Search(context.Background(), &model.PatientFilters{
		SearchTerm: " o_b ",
		Pagination: model.Pagination{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, patients, 1)
	assert.Equal(t, "Jo_Bo", patients[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}

func TestClinicianRepository_ListFiltersByDepartment(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM clinicians")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "department_id", "created_at", "updated_at"}).
			AddRow(1, "Dr. Wilson", 2, now, now).
			AddRow(2, "Dr. Brown", 2, now, now))

	clinicians, err := store.Clinicians().List(context.Background(), &model.ClinicianFilters{DepartmentID: 2})
	require.NoError(t, err)
	require.Len(t, clinicians, 2)
	assert.Equal(t, int64(2), clinicians[1].DepartmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcedureRepository_DeleteByClinicians(t *testing.T) {
	store, mock := newMockStore(t)

	n, err := store.Procedures().DeleteByClinicians(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM procedures WHERE clinician_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err = store.Procedures().DeleteByClinicians(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCareTeamRepository_AddIsIdempotent(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (patient_id, clinician_id) DO NOTHING")).
		WithArgs(int64(1), int64(2), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.CareTeams().Add(context.Background(), 1, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ProcedureMatches(t *testing.T) {
	store, mock := newMockStore(t)
	when := time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE pr.name ILIKE $1")).
		WithArgs("%heart%").
		WillReturnRows(sqlmock.NewRows([]string{
			"patient_id", "patient_name", "gender", "email", "date_of_birth",
			"procedure_id", "procedure_name", "procedure_date", "clinician_name",
		}).AddRow(1, "John Doe", "M", "john@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			5, "Heart Surgery", when, "Dr. Smith"))

	matches, err := store.Reports().ProcedureMatches(context.Background(), "heart")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Dr. Smith", matches[0].ClinicianName)
	assert.True(t, matches[0].ProcedureDate.Equal(when))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_ClinicianPatientCounts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(DISTINCT pc.patient_id)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"clinician_id", "clinician_name", "department_name", "patient_count"}).
			AddRow(1, "Dr. Smith", "Cardiology", 2).
			AddRow(2, "Dr. Johnson", "Cardiology", 0))

	counts, err := store.Reports().ClinicianPatientCounts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 2, counts[0].PatientCount)
	assert.Equal(t, 0, counts[1].PatientCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM patient_clinicians")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithTx(context.Background(), func(tx repository.Store) error {
			return tx.WithTx(context.Background(), func(nested repository.Store) error {
				return nested.CareTeams().Remove(context.Background(), 1, 2)
			})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := store.WithTx(context.Background(), func(tx repository.Store) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_indexes.sql": {Data: []byte("CREATE INDEX x ON y (z);")},
		"m/001_init.sql":    {Data: []byte("CREATE TABLE y (z INT);")},
		"m/README.md":       {Data: []byte("notes")},
		"m/draft.sql":       {Data: []byte("SELECT 1;")},
	}

	migrations, err := loadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "002_indexes.sql", migrations[1].Name)

	embedded, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, embedded)
	assert.Equal(t, "001_init.sql", embedded[0].Name)
}

func TestMigrateSkipsAppliedVersions(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "postgres")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))

	applied, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
