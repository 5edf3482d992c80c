package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// 心情枚举（与前端下拉框一致）
const (
	MoodGood = "Good"
	MoodOK   = "OK"
	MoodLow  = "Low"
)

// AI 处理状态
const (
	AIStatusPending = "pending"
	AIStatusOK      = "ok"
	AIStatusError   = "error"
)

// 风险等级枚举（AI 输出，三档）
const (
	RiskLow        = "Low"
	RiskMonitor    = "Monitor"
	RiskConcerning = "Concerning"
)

// Checkin 签到记录领域模型
// 创建时 AI 字段全部为空、ai_status = "pending"；
// 编排完成后 ai_status 只会落在 "ok" / "error" 两个终态之一
type Checkin struct {
	CheckinID        string    `json:"id"`
	Date             string    `json:"date"` // YYYY-MM-DD（仅校验长度，不校验日历合法性）
	MemoryScore      int       `json:"memory_score"`
	OrientationScore int       `json:"orientation_score"`
	ActivitiesScore  int       `json:"activities_score"`
	Mood             string    `json:"mood"`
	Notes            string    `json:"notes"`

	// AI 结果字段（由编排器在 finalize 时一次性写入）
	AIRiskLevel    *string  `json:"ai_risk_level"`
	AISummary      *string  `json:"ai_summary"`
	AISuggestions  []string `json:"ai_suggestions"`
	AIDisclaimer   *string  `json:"ai_disclaimer"`
	AIStatus       string   `json:"ai_status"`
	AIErrorMessage *string  `json:"ai_error_message"`

	CreatedAt time.Time `json:"created_at"` // 始终为 UTC，序列化为 RFC3339（结尾 Z）
}

// CheckinInput 校验通过后的清洗字段（落库前的输入）
type CheckinInput struct {
	Date             string
	MemoryScore      int
	OrientationScore int
	ActivitiesScore  int
	Mood             string
	Notes            string
}

// Observation 返回用于 AI 上下文的简化视图
func (in *CheckinInput) Observation() *CheckinObservation {
	return &CheckinObservation{
		Date:             in.Date,
		MemoryScore:      in.MemoryScore,
		OrientationScore: in.OrientationScore,
		ActivitiesScore:  in.ActivitiesScore,
		Mood:             in.Mood,
		Notes:            in.Notes,
	}
}

// CheckinObservation AI 上下文用的简化记录（无 id、无 AI 字段）
type CheckinObservation struct {
	Date             string `json:"date"`
	MemoryScore      int    `json:"memory_score"`
	OrientationScore int    `json:"orientation_score"`
	ActivitiesScore  int    `json:"activities_score"`
	Mood             string `json:"mood"`
	Notes            string `json:"notes"`
}

// CheckinSubmission POST /api/checkins 请求体
// 打分字段用 IntValue 宽松解码（数字或数字字符串都接受），
// 具体校验在 service 层完成，保证落库前输入完整合法
type CheckinSubmission struct {
	Date             string   `json:"date"`
	MemoryScore      IntValue `json:"memory_score"`
	OrientationScore IntValue `json:"orientation_score"`
	ActivitiesScore  IntValue `json:"activities_score"`
	Mood             string   `json:"mood"`
	Notes            string   `json:"notes"`
}

// IntValue 宽松整数字段：JSON 数字、数字字符串都接受；
// null / 缺失 / 空字符串视为未提供，非数字内容记为无效（由上层给出字段级错误）
type IntValue struct {
	set   bool
	valid bool
	value int
}

// IntOf 构造一个已设置的合法值（测试用）
func IntOf(v int) IntValue {
	return IntValue{set: true, valid: true, value: v}
}

func (v *IntValue) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			v.set = true
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v.set = true
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		v.valid = true
		v.value = n
		return nil
	}
	v.set = true
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	// 浮点数按截断取整（与旧版 int() 行为一致）
	v.valid = true
	v.value = int(f)
	return nil
}

// Present 字段是否提供（null/缺失/空字符串均视为未提供）
func (v IntValue) Present() bool { return v.set }

// Int 返回解析出的整数；第二个返回值表示内容是否为合法数字
func (v IntValue) Int() (int, bool) { return v.value, v.valid }
