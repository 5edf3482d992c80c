package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// checkinColumns SELECT 列（所有查询保持同一列序，统一走 scanCheckin）
const checkinColumns = `
	checkin_id,
	date,
	memory_score,
	orientation_score,
	activities_score,
	mood,
	notes,
	ai_risk_level,
	ai_summary,
	ai_suggestions,
	ai_disclaimer,
	ai_status,
	ai_error_message,
	created_at`

// PostgresCheckinsRepo 签到记录 PostgreSQL 实现
type PostgresCheckinsRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresCheckinsRepo 创建签到记录仓库
func NewPostgresCheckinsRepo(db *sql.DB, logger *zap.Logger) *PostgresCheckinsRepo {
	return &PostgresCheckinsRepo{db: db, logger: logger}
}

// Create 创建签到记录（AI 字段为 pending 初值）
func (r *PostgresCheckinsRepo) Create(ctx context.Context, input *models.CheckinInput) (*models.Checkin, error) {
	checkinID := uuid.New().String()
	now := time.Now().UTC()

	query := `
		INSERT INTO checkins (
			checkin_id, date, memory_score, orientation_score, activities_score,
			mood, notes, ai_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		checkinID,
		input.Date,
		input.MemoryScore,
		input.OrientationScore,
		input.ActivitiesScore,
		input.Mood,
		input.Notes,
		models.AIStatusPending,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert checkin: %w", err)
	}

	return &models.Checkin{
		CheckinID:        checkinID,
		Date:             input.Date,
		MemoryScore:      input.MemoryScore,
		OrientationScore: input.OrientationScore,
		ActivitiesScore:  input.ActivitiesScore,
		Mood:             input.Mood,
		Notes:            input.Notes,
		AIStatus:         models.AIStatusPending,
		CreatedAt:        now,
	}, nil
}

// FinalizeAI 覆写 AI 字段组并返回更新后的记录
func (r *PostgresCheckinsRepo) FinalizeAI(ctx context.Context, checkinID string, result *models.FeedbackResult) (*models.Checkin, error) {
	if _, err := uuid.Parse(checkinID); err != nil {
		return nil, ErrNotFound
	}

	status := result.Status
	if status == "" {
		status = models.AIStatusOK
	}

	var suggestions any
	if result.Suggestions != nil {
		b, err := json.Marshal(result.Suggestions)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal suggestions: %w", err)
		}
		suggestions = b
	}

	var disclaimer any
	if result.Disclaimer != "" {
		disclaimer = result.Disclaimer
	}

	query := `
		UPDATE checkins SET
			ai_risk_level = $2,
			ai_summary = $3,
			ai_suggestions = $4,
			ai_disclaimer = $5,
			ai_status = $6,
			ai_error_message = $7
		WHERE checkin_id = $1
		RETURNING ` + checkinColumns

	row := r.db.QueryRowContext(ctx, query,
		checkinID,
		result.RiskLevel,
		nullableString(result.Summary),
		suggestions,
		disclaimer,
		status,
		result.ErrorMessage,
	)

	checkin, err := scanCheckin(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to finalize checkin %s: %w", checkinID, err)
	}
	return checkin, nil
}

// List 按创建时间倒序返回签到记录
func (r *PostgresCheckinsRepo) List(ctx context.Context, limit int) ([]*models.Checkin, error) {
	query := `SELECT` + checkinColumns + `
		FROM checkins
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkins: %w", err)
	}
	defer rows.Close()

	checkins := make([]*models.Checkin, 0, limit)
	for rows.Next() {
		checkin, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkin: %w", err)
		}
		checkins = append(checkins, checkin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkins: %w", err)
	}
	return checkins, nil
}

// Get 根据 id 获取单条记录
func (r *PostgresCheckinsRepo) Get(ctx context.Context, checkinID string) (*models.Checkin, error) {
	if _, err := uuid.Parse(checkinID); err != nil {
		return nil, ErrNotFound
	}

	query := `SELECT` + checkinColumns + `
		FROM checkins
		WHERE checkin_id = $1`

	checkin, err := scanCheckin(r.db.QueryRowContext(ctx, query, checkinID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get checkin %s: %w", checkinID, err)
	}
	return checkin, nil
}

// RecentContext 返回 AI 上下文用的简化记录
func (r *PostgresCheckinsRepo) RecentContext(ctx context.Context, limit int) ([]*models.CheckinObservation, error) {
	query := `
		SELECT date, memory_score, orientation_score, activities_score, mood, notes
		FROM checkins
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent context: %w", err)
	}
	defer rows.Close()

	observations := make([]*models.CheckinObservation, 0, limit)
	for rows.Next() {
		var obs models.CheckinObservation
		if err := rows.Scan(
			&obs.Date,
			&obs.MemoryScore,
			&obs.OrientationScore,
			&obs.ActivitiesScore,
			&obs.Mood,
			&obs.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan context row: %w", err)
		}
		observations = append(observations, &obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate context rows: %w", err)
	}
	return observations, nil
}

// rowScanner *sql.Row 与 *sql.Rows 的公共 Scan
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCheckin 按 checkinColumns 列序扫描单条记录
func scanCheckin(row rowScanner) (*models.Checkin, error) {
	var checkin models.Checkin
	var riskLevel, summary, disclaimer, errorMessage sql.NullString
	var suggestions []byte
	var createdAt time.Time

	err := row.Scan(
		&checkin.CheckinID,
		&checkin.Date,
		&checkin.MemoryScore,
		&checkin.OrientationScore,
		&checkin.ActivitiesScore,
		&checkin.Mood,
		&checkin.Notes,
		&riskLevel,
		&summary,
		&suggestions,
		&disclaimer,
		&checkin.AIStatus,
		&errorMessage,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	checkin.CreatedAt = createdAt.UTC()
	if riskLevel.Valid {
		checkin.AIRiskLevel = &riskLevel.String
	}
	if summary.Valid {
		checkin.AISummary = &summary.String
	}
	if disclaimer.Valid {
		checkin.AIDisclaimer = &disclaimer.String
	}
	if errorMessage.Valid {
		checkin.AIErrorMessage = &errorMessage.String
	}
	if len(suggestions) > 0 {
		if err := json.Unmarshal(suggestions, &checkin.AISuggestions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ai_suggestions: %w", err)
		}
	}
	return &checkin, nil
}

// nullableString 空字符串落 NULL（错误结果的 summary 仍然写入文本，只有纯空串才置空）
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
