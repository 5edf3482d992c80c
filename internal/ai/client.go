package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LeonWTW/Elderly-companion/internal/config"
	"github.com/LeonWTW/Elderly-companion/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// systemInstruction 固定系统指令（支持性、不诊断、只输出 JSON）
const systemInstruction = "You are a helpful, caring assistant for family caregivers. " +
	"You provide supportive, practical feedback but never diagnose medical conditions. " +
	"Always respond with valid JSON only."

const (
	requestTemperature = 0.7
	requestMaxTokens   = 500
	// errorMessageLimit 记录到签到上的错误信息截断长度
	errorMessageLimit = 200
)

// chatMessage / chatCompletionRequest / chatCompletionResponse
// OpenAI chat completions 协议结构
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client 外部反馈生成服务客户端
//
// Generate 的契约是"永不抛错"：凭证缺失、网络/认证/超时/上游格式错误
// 全部编码为 FeedbackResult 值，编排层的 finalize 因此是全覆盖的
type Client struct {
	httpClient *resty.Client
	cfg        config.OpenAIConfig
	logger     *zap.Logger
}

// NewClient 创建客户端
// 单次请求、不重试（重试策略留给调用方决策）；超时由配置给定
func NewClient(cfg config.OpenAIConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if strings.TrimSpace(cfg.APIKey) != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Client{
		httpClient: client,
		cfg:        cfg,
		logger:     logger,
	}
}

// Generate 为一次签到生成 AI 反馈
func (c *Client) Generate(ctx context.Context, current *models.CheckinObservation, recent []*models.CheckinObservation) *models.FeedbackResult {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		c.logger.Warn("OpenAI API key not configured, returning fallback result")
		return NotConfiguredResult()
	}

	prompt := BuildPrompt(current, recent)

	request := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature: requestTemperature,
		MaxTokens:   requestMaxTokens,
	}

	var response chatCompletionResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		SetError(&response).
		Post("/chat/completions")

	if err != nil {
		c.logger.Error("OpenAI API call failed", zap.Error(err))
		return UnavailableResult(err.Error())
	}

	if resp.IsError() {
		message := response.errorMessage()
		if message == "" {
			message = resp.String()
		}
		c.logger.Error("OpenAI API returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("message", sanitizeErrorMessage(message)),
		)
		return UnavailableResult(fmt.Sprintf("OpenAI API error (status %d): %s", resp.StatusCode(), message))
	}

	if len(response.Choices) == 0 {
		c.logger.Error("OpenAI API returned no choices")
		return UnavailableResult("OpenAI API returned no choices")
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	c.logger.Info("AI response received",
		zap.String("preview", truncateRunes(content, 200)),
	)

	return ParseFeedback(content)
}

func (r *chatCompletionResponse) errorMessage() string {
	if r.Error != nil {
		return r.Error.Message
	}
	return ""
}

// NotConfiguredResult 凭证缺失时的固定错误结果（不发起网络调用）
func NotConfiguredResult() *models.FeedbackResult {
	errMsg := "OpenAI API key not configured"
	return &models.FeedbackResult{
		RiskLevel: nil,
		Summary: "AI feedback is not configured. Please set OPENAI_API_KEY environment variable " +
			"to enable AI-powered analysis.",
		Suggestions: []string{
			"Please try again later or consult a healthcare professional if you are worried.",
		},
		Disclaimer:   DefaultDisclaimer,
		Status:       models.AIStatusError,
		ErrorMessage: &errMsg,
	}
}

// UnavailableResult 调用失败时的错误结果；错误信息先脱敏再截断到 200 字符
func UnavailableResult(errMsg string) *models.FeedbackResult {
	sanitized := sanitizeErrorMessage(errMsg)
	return &models.FeedbackResult{
		RiskLevel: nil,
		Summary:   "AI feedback is temporarily unavailable due to a technical issue.",
		Suggestions: []string{
			"Please try again later or consult a healthcare professional if you are worried.",
		},
		Disclaimer:   DefaultDisclaimer,
		Status:       models.AIStatusError,
		ErrorMessage: &sanitized,
	}
}

// sanitizeErrorMessage 错误信息脱敏：疑似携带凭证的内容整体收敛为固定文案
func sanitizeErrorMessage(msg string) string {
	if strings.Contains(strings.ToLower(msg), "api_key") {
		msg = "API authentication error"
	}
	return truncateRunes(msg, errorMessageLimit)
}
