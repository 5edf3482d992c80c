package repository

import (
	"context"
	"errors"

	"github.com/LeonWTW/Elderly-companion/internal/models"
)

// ErrNotFound 记录不存在（格式非法的 id 也按不存在处理，不单独报解析错误）
var ErrNotFound = errors.New("not found")

// CheckinsRepository 签到记录 Repository 接口
// 使用强类型领域模型，不使用 map[string]any
// Repository 层只负责数据访问；生命周期（pending → ok/error）由 service 层驱动
type CheckinsRepository interface {
	// Create 创建签到记录：分配 id 与创建时间，AI 字段置为 pending 初值。
	// 单条 INSERT，要么全部写入要么失败，不存在半成品记录
	Create(ctx context.Context, input *models.CheckinInput) (*models.Checkin, error)

	// FinalizeAI 一次性覆写 AI 字段组并返回更新后的记录。
	// result.Status 为空时按 "ok" 写入；id 不存在返回 ErrNotFound
	FinalizeAI(ctx context.Context, checkinID string, result *models.FeedbackResult) (*models.Checkin, error)

	// List 按创建时间倒序返回签到记录（最新在前），limit 由 service 层收敛
	List(ctx context.Context, limit int) ([]*models.Checkin, error)

	// Get 根据 id 获取单条记录；不存在返回 ErrNotFound
	Get(ctx context.Context, checkinID string) (*models.Checkin, error)

	// RecentContext 返回用于 AI 上下文的简化记录（最新在前，无 id、无 AI 字段）
	RecentContext(ctx context.Context, limit int) ([]*models.CheckinObservation, error)
}
