package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/LeonWTW/Elderly-companion/internal/models"
	"github.com/LeonWTW/Elderly-companion/internal/repository"
	"github.com/LeonWTW/Elderly-companion/internal/service"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1MB

// CheckinHandler 签到 API
type CheckinHandler struct {
	svc    service.CheckinService
	logger *zap.Logger
}

func NewCheckinHandler(svc service.CheckinService, logger *zap.Logger) *CheckinHandler {
	return &CheckinHandler{svc: svc, logger: logger}
}

// POST /api/checkins
// 校验失败 → 400（带字段级信息）；持久化失败 → 500；
// AI 失败不影响状态码：签到已落库，错误只体现在 ai_* 字段上，仍返回 201
func (h *CheckinHandler) CreateCheckin(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r, maxBodyBytes)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid request body"))
		return
	}
	if len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, Fail("No data provided"))
		return
	}

	var submission models.CheckinSubmission
	if err := json.Unmarshal(body, &submission); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid request body"))
		return
	}

	checkin, err := h.svc.SubmitCheckin(r.Context(), &submission)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, Fail(validationErr.Message))
			return
		}
		h.logger.Error("Failed to create check-in", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Failed to create check-in"))
		return
	}

	writeJSON(w, http.StatusCreated, CheckinResult{Success: true, Checkin: checkin})
}

// GET /api/checkins?limit=N
func (h *CheckinHandler) ListCheckins(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 20)

	checkins, err := h.svc.ListCheckins(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list check-ins", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Failed to retrieve check-ins"))
		return
	}

	writeJSON(w, http.StatusOK, CheckinListResult{Success: true, Checkins: checkins})
}

// GET /api/checkins/{id}
func (h *CheckinHandler) GetCheckin(w http.ResponseWriter, r *http.Request, checkinID string) {
	checkin, err := h.svc.GetCheckin(r.Context(), checkinID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("Not found"))
			return
		}
		h.logger.Error("Failed to get check-in",
			zap.String("checkin_id", checkinID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail("Failed to retrieve check-in"))
		return
	}

	writeJSON(w, http.StatusOK, CheckinResult{Success: true, Checkin: checkin})
}

// GET /api/checkins/export?limit=N
// 导出最近签到为 Excel 文件
func (h *CheckinHandler) ExportCheckins(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 50)

	checkins, err := h.svc.ListCheckins(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load check-ins for export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Failed to export check-ins"))
		return
	}

	data, err := GenerateCheckinsExport(checkins)
	if err != nil {
		h.logger.Error("Failed to generate export file", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Failed to export check-ins"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="checkins.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
