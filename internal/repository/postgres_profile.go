package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostgresProfileRepo 档案 PostgreSQL 实现（单行表）
type PostgresProfileRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresProfileRepo(db *sql.DB, logger *zap.Logger) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db, logger: logger}
}

const profileColumns = `profile_id, name, age, education_years, diagnosis_notes, created_at, updated_at`

func (r *PostgresProfileRepo) Get(ctx context.Context) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profile LIMIT 1`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (r *PostgresProfileRepo) Upsert(ctx context.Context, input *models.ProfileInput) (*models.Profile, error) {
	now := time.Now().UTC()

	// 先尝试更新已有的单例记录
	query := `
		UPDATE profile SET
			name = $1,
			age = $2,
			education_years = $3,
			diagnosis_notes = $4,
			updated_at = $5
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query,
		input.Name, input.Age, input.EducationYears, input.DiagnosisNotes, now))
	if err == nil {
		return profile, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	// 不存在则创建
	insert := `
		INSERT INTO profile (profile_id, name, age, education_years, diagnosis_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + profileColumns

	profile, err = scanProfile(r.db.QueryRowContext(ctx, insert,
		uuid.New().String(), input.Name, input.Age, input.EducationYears, input.DiagnosisNotes, now, now))
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	return profile, nil
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var profile models.Profile
	var age, educationYears sql.NullInt64
	var diagnosisNotes sql.NullString
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&profile.ProfileID,
		&profile.Name,
		&age,
		&educationYears,
		&diagnosisNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.CreatedAt = createdAt.UTC()
	profile.UpdatedAt = updatedAt.UTC()
	if age.Valid {
		v := int(age.Int64)
		profile.Age = &v
	}
	if educationYears.Valid {
		v := int(educationYears.Int64)
		profile.EducationYears = &v
	}
	if diagnosisNotes.Valid {
		profile.DiagnosisNotes = &diagnosisNotes.String
	}
	return &profile, nil
}
