package repository

import (
	"context"
	"testing"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var profileRowColumns = []string{
	"profile_id", "name", "age", "education_years", "diagnosis_notes", "created_at", "updated_at",
}

func newProfileRepo(t *testing.T) (*PostgresProfileRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresProfileRepo(db, zap.NewNop()), mock
}

func TestPostgresProfileRepo_Get(t *testing.T) {
	repo, mock := newProfileRepo(t)

	profileID := uuid.New().String()
	now := time.Now()
	rows := sqlmock.NewRows(profileRowColumns).
		AddRow(profileID, "Grandma Li", 82, 9, "mild memory decline", now, now)

	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	profile, err := repo.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, profileID, profile.ProfileID)
	assert.Equal(t, "Grandma Li", profile.Name)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 82, *profile.Age)
	assert.Equal(t, time.UTC, profile.UpdatedAt.Location())
}

func TestPostgresProfileRepo_Get_Empty(t *testing.T) {
	repo, mock := newProfileRepo(t)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(profileRowColumns))

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresProfileRepo_Upsert_UpdatesExistingRow(t *testing.T) {
	repo, mock := newProfileRepo(t)

	profileID := uuid.New().String()
	now := time.Now()
	rows := sqlmock.NewRows(profileRowColumns).
		AddRow(profileID, "Grandma Li", 82, nil, nil, now, now)

	mock.ExpectQuery("UPDATE profile SET").WillReturnRows(rows)

	age := 82
	profile, err := repo.Upsert(context.Background(), &models.ProfileInput{Name: "Grandma Li", Age: &age})
	require.NoError(t, err)

	assert.Equal(t, profileID, profile.ProfileID)
	assert.Nil(t, profile.EducationYears)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProfileRepo_Upsert_InsertsWhenMissing(t *testing.T) {
	repo, mock := newProfileRepo(t)

	now := time.Now()
	mock.ExpectQuery("UPDATE profile SET").WillReturnRows(sqlmock.NewRows(profileRowColumns))
	mock.ExpectQuery("INSERT INTO profile").WillReturnRows(
		sqlmock.NewRows(profileRowColumns).
			AddRow(uuid.New().String(), "Grandma Li", nil, nil, nil, now, now))

	profile, err := repo.Upsert(context.Background(), &models.ProfileInput{Name: "Grandma Li"})
	require.NoError(t, err)

	assert.Equal(t, "Grandma Li", profile.Name)
	assert.NotEmpty(t, profile.ProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
