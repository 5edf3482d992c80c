package repository

import (
	"context"

	"github.com/LeonWTW/Elderly-companion/internal/models"
)

// ProfileRepository 老人档案 Repository 接口（单例记录，last-write-wins）
type ProfileRepository interface {
	// Get 获取档案；不存在返回 ErrNotFound
	Get(ctx context.Context) (*models.Profile, error)

	// Upsert 创建或整体覆盖档案，返回最新记录
	Upsert(ctx context.Context, input *models.ProfileInput) (*models.Profile, error)
}
