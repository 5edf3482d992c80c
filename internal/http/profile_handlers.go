package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/LeonWTW/Elderly-companion/internal/models"
	"github.com/LeonWTW/Elderly-companion/internal/repository"

	"go.uber.org/zap"
)

// ProfileHandler 老人档案 API（单例记录的简单 upsert，无生命周期）
type ProfileHandler struct {
	repo   repository.ProfileRepository
	logger *zap.Logger
}

func NewProfileHandler(repo repository.ProfileRepository, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{repo: repo, logger: logger}
}

// blankProfile 档案不存在时返回的空白结构（前端据此渲染空表单）
type blankProfile struct {
	ID             *string `json:"id"`
	Name           string  `json:"name"`
	Age            *int    `json:"age"`
	EducationYears *int    `json:"education_years"`
	DiagnosisNotes string  `json:"diagnosis_notes"`
	CreatedAt      *string `json:"created_at"`
	UpdatedAt      *string `json:"updated_at"`
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.repo.Get(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusOK, ProfileResult{Success: true, Profile: blankProfile{}})
			return
		}
		h.logger.Error("Failed to get profile", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Failed to retrieve profile"))
		return
	}

	writeJSON(w, http.StatusOK, ProfileResult{Success: true, Profile: profile})
}

// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r, maxBodyBytes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid request body"))
		return
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("No data provided"))
		return
	}

	var submission models.ProfileSubmission
	if err := json.Unmarshal(body, &submission); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid request body"))
		return
	}

	input, validationErr := validateProfile(&submission)
	if validationErr != "" {
		writeJSON(w, http.StatusBadRequest, Fail(validationErr))
		return
	}

	profile, err := h.repo.Upsert(r.Context(), input)
	if err != nil {
		h.logger.Error("Failed to save profile", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Failed to save profile"))
		return
	}

	writeJSON(w, http.StatusOK, ProfileResult{Success: true, Profile: profile})
}

// validateProfile 档案字段校验（age ∈ [1,150]，education_years ∈ [0,30]，均可缺省）
func validateProfile(submission *models.ProfileSubmission) (*models.ProfileInput, string) {
	input := &models.ProfileInput{
		Name: strings.TrimSpace(submission.Name),
	}

	if submission.Age.Present() {
		age, ok := submission.Age.Int()
		if !ok {
			return nil, "Age must be a valid number"
		}
		if age <= 0 || age > 150 {
			return nil, "Age must be a positive number between 1 and 150"
		}
		input.Age = &age
	}

	if submission.EducationYears.Present() {
		years, ok := submission.EducationYears.Int()
		if !ok {
			return nil, "Education years must be a valid number"
		}
		if years < 0 || years > 30 {
			return nil, "Education years must be between 0 and 30"
		}
		input.EducationYears = &years
	}

	if notes := strings.TrimSpace(submission.DiagnosisNotes); notes != "" {
		input.DiagnosisNotes = &notes
	}

	return input, ""
}
