package repository

import (
	"context"
	"sync"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/models"

	"github.com/google/uuid"
)

// MemoryProfileRepo 档案内存实现（DB 未就绪时的本地联测）
type MemoryProfileRepo struct {
	mu      sync.RWMutex
	profile *models.Profile
}

func NewMemoryProfileRepo() *MemoryProfileRepo {
	return &MemoryProfileRepo{}
}

func (r *MemoryProfileRepo) Get(_ context.Context) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.profile == nil {
		return nil, ErrNotFound
	}
	return copyProfile(r.profile), nil
}

func (r *MemoryProfileRepo) Upsert(_ context.Context, input *models.ProfileInput) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if r.profile == nil {
		r.profile = &models.Profile{
			ProfileID: uuid.New().String(),
			CreatedAt: now,
		}
	}
	r.profile.Name = input.Name
	r.profile.Age = copyIntPtr(input.Age)
	r.profile.EducationYears = copyIntPtr(input.EducationYears)
	r.profile.DiagnosisNotes = copyStringPtr(input.DiagnosisNotes)
	r.profile.UpdatedAt = now

	return copyProfile(r.profile), nil
}

func copyProfile(p *models.Profile) *models.Profile {
	cp := *p
	cp.Age = copyIntPtr(p.Age)
	cp.EducationYears = copyIntPtr(p.EducationYears)
	cp.DiagnosisNotes = copyStringPtr(p.DiagnosisNotes)
	return &cp
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
