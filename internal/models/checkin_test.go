package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntValue_Unmarshal(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		present bool
		valid   bool
		value   int
	}{
		{"number", `{"v":4}`, true, true, 4},
		{"float truncated", `{"v":4.9}`, true, true, 4},
		{"numeric string", `{"v":"3"}`, true, true, 3},
		{"padded numeric string", `{"v":" 3 "}`, true, true, 3},
		{"non-numeric string", `{"v":"abc"}`, true, false, 0},
		{"null", `{"v":null}`, false, false, 0},
		{"empty string", `{"v":""}`, false, false, 0},
		{"missing", `{}`, false, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var target struct {
				V IntValue `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &target))

			assert.Equal(t, tc.present, target.V.Present())
			value, ok := target.V.Int()
			assert.Equal(t, tc.valid, ok)
			if tc.valid {
				assert.Equal(t, tc.value, value)
			}
		})
	}
}

func TestCheckin_JSONShape(t *testing.T) {
	risk := RiskLow
	checkin := Checkin{
		CheckinID:   "abc",
		Date:        "2025-06-01",
		Mood:        MoodGood,
		AIRiskLevel: &risk,
		AIStatus:    AIStatusOK,
	}

	b, err := json.Marshal(checkin)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))

	// 对外键名为 id，AI 空字段序列化为 null 而不是省略
	assert.Equal(t, "abc", decoded["id"])
	assert.Contains(t, decoded, "ai_summary")
	assert.Nil(t, decoded["ai_summary"])
	assert.Equal(t, "Low", decoded["ai_risk_level"])
}
