package ai

import (
	"encoding/json"
	"fmt"

	"github.com/LeonWTW/Elderly-companion/internal/models"
)

// DefaultDisclaimer 固定免责声明（所有反馈结果都携带）
const DefaultDisclaimer = "This feedback is for informational purposes only and is not a medical diagnosis. " +
	"Please consult a licensed healthcare professional for any concerns."

const (
	// fallbackSummary 结构化输出缺少 summary 时的占位
	fallbackSummary = "Unable to generate summary."
	// emptyResponseSummary 生成器返回空文本时的占位
	emptyResponseSummary = "Unable to process AI response."
	// fillerSuggestion 建议不足 2 条时补齐的固定条目
	fillerSuggestion = "Keep notes of any changes to discuss with a healthcare provider."
	// rawSummaryLimit 非 JSON 文本作为 summary 时的截断长度
	rawSummaryLimit = 500
)

// ParseFeedback 把生成器的原始文本解析为规范化的反馈结果
//
// 解析失败不视为管线失败：仍返回 status="ok" 的降级结果（Monitor + 原文截断 +
// 两条通用建议），真正的 error 只保留给生成器不可达/未配置的场景
func ParseFeedback(raw string) *models.FeedbackResult {
	var payload struct {
		RiskLevel   any     `json:"risk_level"`
		Summary     *string `json:"summary"`
		Suggestions any     `json:"suggestions"`
	}

	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		summary := emptyResponseSummary
		if raw != "" {
			summary = truncateRunes(raw, rawSummaryLimit)
		}
		risk := models.RiskMonitor
		return &models.FeedbackResult{
			RiskLevel: &risk,
			Summary:   summary,
			Suggestions: []string{
				"Continue monitoring and keeping notes.",
				"Consult a healthcare professional if you have concerns.",
			},
			Disclaimer: DefaultDisclaimer,
			Status:     models.AIStatusOK,
		}
	}

	// risk_level：闭集之外的值一律压回 Monitor
	risk := models.RiskMonitor
	if s, ok := payload.RiskLevel.(string); ok {
		switch s {
		case models.RiskLow, models.RiskMonitor, models.RiskConcerning:
			risk = s
		}
	}

	summary := fallbackSummary
	if payload.Summary != nil {
		summary = *payload.Summary
	}

	// suggestions：非数组压成单元素；不足 2 条补一条固定建议；超过 3 条截断
	var suggestions []string
	switch v := payload.Suggestions.(type) {
	case nil:
		suggestions = []string{}
	case []any:
		suggestions = make([]string, 0, len(v))
		for _, item := range v {
			suggestions = append(suggestions, stringify(item))
		}
	default:
		suggestions = []string{stringify(v)}
	}
	if len(suggestions) < 2 {
		suggestions = append(suggestions, fillerSuggestion)
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}

	return &models.FeedbackResult{
		RiskLevel:   &risk,
		Summary:     summary,
		Suggestions: suggestions,
		Disclaimer:  DefaultDisclaimer,
		Status:      models.AIStatusOK,
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// truncateRunes 按字符截断（避免切坏多字节字符）
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
