package httpapi

import "github.com/LeonWTW/Elderly-companion/internal/models"

// 与前端约定的响应结构：{success, checkin|checkins|profile|error}

type CheckinResult struct {
	Success bool            `json:"success"`
	Checkin *models.Checkin `json:"checkin"`
}

type CheckinListResult struct {
	Success  bool              `json:"success"`
	Checkins []*models.Checkin `json:"checkins"`
}

type ProfileResult struct {
	Success bool `json:"success"`
	Profile any  `json:"profile"`
}

type ErrorResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func Fail(message string) ErrorResult {
	return ErrorResult{Success: false, Error: message}
}
