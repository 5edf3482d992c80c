package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/ai"
	"github.com/LeonWTW/Elderly-companion/internal/models"
	"github.com/LeonWTW/Elderly-companion/internal/repository"
	"github.com/LeonWTW/Elderly-companion/internal/store"

	"go.uber.org/zap"
)

const (
	// recentContextLimit AI 上下文携带的历史条数
	recentContextLimit = 5

	// 列表 limit 收敛范围
	listLimitMin     = 1
	listLimitMax     = 50
	listLimitDefault = 20

	// contextCacheKey / contextCacheTTL 最近历史的 Redis 缓存
	contextCacheKey = "checkin:context:recent"
	contextCacheTTL = 60 * time.Second
)

// ValidationError 输入校验失败（调用方错误，HTTP 层映射为 400）
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// FeedbackGenerator 反馈生成器接口（值语义：任何失败都编码为结果，不返回 error）
type FeedbackGenerator interface {
	Generate(ctx context.Context, current *models.CheckinObservation, recent []*models.CheckinObservation) *models.FeedbackResult
}

// CheckinService 签到服务接口
type CheckinService interface {
	// SubmitCheckin 校验 → 落库(pending) → 取历史 → 生成反馈 → finalize。
	// 返回的记录 ai_status 一定是终态（ok/error）；只有 finalize 丢失行时
	// 才会拿到 pending 的原始记录
	SubmitCheckin(ctx context.Context, submission *models.CheckinSubmission) (*models.Checkin, error)

	// ListCheckins 最新在前，limit 收敛到 [1,50]，默认 20
	ListCheckins(ctx context.Context, limit int) ([]*models.Checkin, error)

	// GetCheckin 根据 id 查询；不存在返回 repository.ErrNotFound
	GetCheckin(ctx context.Context, checkinID string) (*models.Checkin, error)
}

type checkinService struct {
	repo      repository.CheckinsRepository
	kv        store.KV // 可为 nil（Redis 未配置时直接走 DB）
	generator FeedbackGenerator
	logger    *zap.Logger
}

// NewCheckinService 创建签到服务
func NewCheckinService(repo repository.CheckinsRepository, kv store.KV, generator FeedbackGenerator, logger *zap.Logger) CheckinService {
	return &checkinService{
		repo:      repo,
		kv:        kv,
		generator: generator,
		logger:    logger,
	}
}

func (s *checkinService) SubmitCheckin(ctx context.Context, submission *models.CheckinSubmission) (*models.Checkin, error) {
	input, err := validateCheckin(submission)
	if err != nil {
		return nil, err
	}

	// 耐久性检查点：从这里开始，照护者的输入不会再丢失
	checkin, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkin: %w", err)
	}

	s.logger.Info("Created check-in, generating AI feedback",
		zap.String("checkin_id", checkin.CheckinID),
	)

	s.invalidateContextCache(ctx)
	recent := s.recentContext(ctx)

	result := s.generator.Generate(ctx, input.Observation(), recent)
	if result == nil {
		// 生成器契约被破坏时兜底，保证记录仍能落到终态
		result = ai.UnavailableResult("feedback generator returned no result")
	}

	finalized, err := s.repo.FinalizeAI(ctx, checkin.CheckinID, result)
	if err != nil {
		// finalize 失败不向上抛：pending 的原始记录已持久化，照护者输入不丢
		s.logger.Error("Failed to finalize check-in AI fields",
			zap.String("checkin_id", checkin.CheckinID),
			zap.Error(err),
		)
		return checkin, nil
	}

	s.logger.Info("AI feedback recorded",
		zap.String("checkin_id", finalized.CheckinID),
		zap.String("ai_status", finalized.AIStatus),
	)
	return finalized, nil
}

func (s *checkinService) ListCheckins(ctx context.Context, limit int) ([]*models.Checkin, error) {
	if limit == 0 {
		limit = listLimitDefault
	}
	if limit < listLimitMin {
		limit = listLimitMin
	}
	if limit > listLimitMax {
		limit = listLimitMax
	}
	return s.repo.List(ctx, limit)
}

func (s *checkinService) GetCheckin(ctx context.Context, checkinID string) (*models.Checkin, error) {
	return s.repo.Get(ctx, checkinID)
}

// recentContext 读取 AI 上下文：优先 Redis 缓存，失败/未命中回退 DB。
// 上下文是 best-effort：任何失败只记日志，返回 nil 继续生成
func (s *checkinService) recentContext(ctx context.Context) []*models.CheckinObservation {
	if s.kv != nil {
		raw, err := s.kv.Get(ctx, contextCacheKey)
		if err == nil {
			var observations []*models.CheckinObservation
			if json.Unmarshal([]byte(raw), &observations) == nil {
				return observations
			}
		} else if err != store.ErrMiss {
			s.logger.Warn("Recent context cache read failed", zap.Error(err))
		}
	}

	observations, err := s.repo.RecentContext(ctx, recentContextLimit)
	if err != nil {
		s.logger.Warn("Failed to load recent context, generating without history", zap.Error(err))
		return nil
	}

	if s.kv != nil {
		if b, err := json.Marshal(observations); err == nil {
			if err := s.kv.Set(ctx, contextCacheKey, string(b), contextCacheTTL); err != nil {
				s.logger.Warn("Recent context cache write failed", zap.Error(err))
			}
		}
	}
	return observations
}

func (s *checkinService) invalidateContextCache(ctx context.Context) {
	if s.kv == nil {
		return
	}
	if err := s.kv.Del(ctx, contextCacheKey); err != nil {
		s.logger.Warn("Recent context cache invalidation failed", zap.Error(err))
	}
}

// requiredFields 必填字段及校验顺序（错误信息按此顺序产出）
var requiredFields = []string{"date", "memory_score", "orientation_score", "activities_score", "mood"}

var validMoods = []string{models.MoodGood, models.MoodOK, models.MoodLow}

// validateCheckin 字段级校验，全部通过才返回清洗后的输入；任何失败都发生在落库之前
func validateCheckin(submission *models.CheckinSubmission) (*models.CheckinInput, error) {
	scores := map[string]models.IntValue{
		"memory_score":      submission.MemoryScore,
		"orientation_score": submission.OrientationScore,
		"activities_score":  submission.ActivitiesScore,
	}

	for _, field := range requiredFields {
		missing := false
		switch field {
		case "date":
			missing = submission.Date == ""
		case "mood":
			missing = submission.Mood == ""
		default:
			missing = !scores[field].Present()
		}
		if missing {
			return nil, &ValidationError{Message: fmt.Sprintf("Missing required field: %s", field)}
		}
	}

	if len(submission.Date) != 10 {
		return nil, &ValidationError{Message: "Invalid date format. Use YYYY-MM-DD"}
	}

	values := map[string]int{}
	for _, field := range []string{"memory_score", "orientation_score", "activities_score"} {
		value, ok := scores[field].Int()
		if !ok {
			return nil, &ValidationError{Message: fmt.Sprintf("%s must be a valid number between 1 and 5", field)}
		}
		if value < 1 || value > 5 {
			return nil, &ValidationError{Message: fmt.Sprintf("%s must be between 1 and 5", field)}
		}
		values[field] = value
	}

	moodValid := false
	for _, m := range validMoods {
		if submission.Mood == m {
			moodValid = true
			break
		}
	}
	if !moodValid {
		return nil, &ValidationError{Message: fmt.Sprintf("Mood must be one of: %s", strings.Join(validMoods, ", "))}
	}

	return &models.CheckinInput{
		Date:             submission.Date,
		MemoryScore:      values["memory_score"],
		OrientationScore: values["orientation_score"],
		ActivitiesScore:  values["activities_score"],
		Mood:             submission.Mood,
		Notes:            strings.TrimSpace(submission.Notes),
	}, nil
}
