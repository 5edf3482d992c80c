package models

// FeedbackResult AI 反馈结果（值语义：生成器所有失败路径都编码为字段，不抛错）
// Status 只会是 "ok" / "error"；RiskLevel 在错误结果中为 nil
type FeedbackResult struct {
	RiskLevel    *string  `json:"risk_level"`
	Summary      string   `json:"summary"`
	Suggestions  []string `json:"suggestions"`
	Disclaimer   string   `json:"disclaimer"`
	Status       string   `json:"status"`
	ErrorMessage *string  `json:"error_message"`
}
