package ai

import (
	"fmt"
	"strings"

	"github.com/LeonWTW/Elderly-companion/internal/models"
)

// maxHistoryEntries 提示词中最多携带的历史记录条数
const maxHistoryEntries = 5

// BuildPrompt 构造反馈生成提示词（纯函数，无副作用）
// current: 本次签到；recent: 最近历史（最新在前，最多取 5 条）
// 输出包含：打分量表说明、本次观察、历史块（非空时）、三档风险分类规则、JSON 输出契约
func BuildPrompt(current *models.CheckinObservation, recent []*models.CheckinObservation) string {
	var historyContext string
	if len(recent) > 0 {
		var lines []string
		entries := recent
		if len(entries) > maxHistoryEntries {
			entries = entries[:maxHistoryEntries]
		}
		for i, rc := range entries {
			lines = append(lines, fmt.Sprintf(
				"  %d. Date: %s, Memory: %d/5, Orientation: %d/5, Activities: %d/5, Mood: %s",
				i+1, rc.Date, rc.MemoryScore, rc.OrientationScore, rc.ActivitiesScore, rc.Mood,
			))
			if rc.Notes != "" {
				lines = append(lines, fmt.Sprintf("     Notes: %s", rc.Notes))
			}
		}
		historyContext = "\n\nRecent check-in history (most recent first):\n" + strings.Join(lines, "\n")
	}

	notes := current.Notes
	if notes == "" {
		notes = "None provided"
	}

	return fmt.Sprintf(`You are a caring, non-diagnostic assistant helping family caregivers track daily observations about an elderly loved one. You provide supportive, practical feedback but NEVER diagnose medical conditions.

SCORING GUIDE (1-5 scale):
- 1 = Much worse than usual
- 2 = Somewhat worse than usual
- 3 = About usual/typical
- 4 = Somewhat better than usual
- 5 = Much better than usual

TODAY'S CHECK-IN:
- Date: %s
- Memory Score: %d/5
- Orientation (time/place) Score: %d/5
- Daily Activities Score: %d/5
- Mood: %s
- Notes: %s%s

CLASSIFICATION GUIDELINES:
- "Low" risk: Scores are mostly stable or higher (3-5), notes describe minor or infrequent issues
- "Monitor" risk: Some lower scores (2-3) or variable pattern, occasional forgetfulness or confusion
- "Concerning" risk: Very low scores (1-2) especially on memory/orientation, significant confusion, safety issues, or repeated concerning events

Provide your response in the following JSON format ONLY (no other text):
{
    "risk_level": "Low" or "Monitor" or "Concerning",
    "summary": "2-4 sentences summarizing today's observations in plain, friendly language. Mention if today differs from recent patterns.",
    "suggestions": [
        "First practical, non-medical suggestion",
        "Second practical suggestion",
        "Third suggestion if warranted"
    ]
}

Remember: Be supportive and practical. Do NOT diagnose any medical conditions. Focus on caregiving tips and when to consult professionals.`,
		current.Date,
		current.MemoryScore,
		current.OrientationScore,
		current.ActivitiesScore,
		current.Mood,
		notes,
		historyContext,
	)
}
