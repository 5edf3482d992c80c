package repository

import (
	"context"
	"sync"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/models"

	"github.com/google/uuid"
)

// MemoryCheckinsRepo: 用于 DB 未就绪时的本地联测，以及 service/handler 单元测试
// - IDs 使用 uuid
// - 读接口返回副本，避免调用方改到内部状态
type MemoryCheckinsRepo struct {
	mu       sync.RWMutex
	checkins map[string]*models.Checkin
	order    []string // 创建顺序（最新的在末尾）
}

func NewMemoryCheckinsRepo() *MemoryCheckinsRepo {
	return &MemoryCheckinsRepo{
		checkins: map[string]*models.Checkin{},
	}
}

func (r *MemoryCheckinsRepo) Create(_ context.Context, input *models.CheckinInput) (*models.Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	checkin := &models.Checkin{
		CheckinID:        uuid.New().String(),
		Date:             input.Date,
		MemoryScore:      input.MemoryScore,
		OrientationScore: input.OrientationScore,
		ActivitiesScore:  input.ActivitiesScore,
		Mood:             input.Mood,
		Notes:            input.Notes,
		AIStatus:         models.AIStatusPending,
		CreatedAt:        time.Now().UTC(),
	}

	r.checkins[checkin.CheckinID] = checkin
	r.order = append(r.order, checkin.CheckinID)
	return copyCheckin(checkin), nil
}

func (r *MemoryCheckinsRepo) FinalizeAI(_ context.Context, checkinID string, result *models.FeedbackResult) (*models.Checkin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	checkin, ok := r.checkins[checkinID]
	if !ok {
		return nil, ErrNotFound
	}

	status := result.Status
	if status == "" {
		status = models.AIStatusOK
	}

	checkin.AIRiskLevel = copyStringPtr(result.RiskLevel)
	if result.Summary != "" {
		summary := result.Summary
		checkin.AISummary = &summary
	} else {
		checkin.AISummary = nil
	}
	checkin.AISuggestions = append([]string(nil), result.Suggestions...)
	if result.Disclaimer != "" {
		disclaimer := result.Disclaimer
		checkin.AIDisclaimer = &disclaimer
	} else {
		checkin.AIDisclaimer = nil
	}
	checkin.AIStatus = status
	checkin.AIErrorMessage = copyStringPtr(result.ErrorMessage)

	return copyCheckin(checkin), nil
}

func (r *MemoryCheckinsRepo) List(_ context.Context, limit int) ([]*models.Checkin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkins := make([]*models.Checkin, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(checkins) < limit; i-- {
		checkins = append(checkins, copyCheckin(r.checkins[r.order[i]]))
	}
	return checkins, nil
}

func (r *MemoryCheckinsRepo) Get(_ context.Context, checkinID string) (*models.Checkin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkin, ok := r.checkins[checkinID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCheckin(checkin), nil
}

func (r *MemoryCheckinsRepo) RecentContext(_ context.Context, limit int) ([]*models.CheckinObservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	observations := make([]*models.CheckinObservation, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(observations) < limit; i-- {
		c := r.checkins[r.order[i]]
		observations = append(observations, &models.CheckinObservation{
			Date:             c.Date,
			MemoryScore:      c.MemoryScore,
			OrientationScore: c.OrientationScore,
			ActivitiesScore:  c.ActivitiesScore,
			Mood:             c.Mood,
			Notes:            c.Notes,
		})
	}
	return observations, nil
}

// Count 当前记录数（测试用）
func (r *MemoryCheckinsRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checkins)
}

func copyCheckin(c *models.Checkin) *models.Checkin {
	cp := *c
	cp.AIRiskLevel = copyStringPtr(c.AIRiskLevel)
	cp.AISummary = copyStringPtr(c.AISummary)
	cp.AIDisclaimer = copyStringPtr(c.AIDisclaimer)
	cp.AIErrorMessage = copyStringPtr(c.AIErrorMessage)
	if c.AISuggestions != nil {
		cp.AISuggestions = append([]string(nil), c.AISuggestions...)
	}
	return &cp
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
