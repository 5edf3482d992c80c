package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/LeonWTW/Elderly-companion/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProfileRouter(t *testing.T) *Router {
	t.Helper()
	router := NewRouter(zap.NewNop())
	router.RegisterProfileRoutes(NewProfileHandler(repository.NewMemoryProfileRepo(), zap.NewNop()))
	return router
}

func TestGetProfile_EmptyReturnsBlank(t *testing.T) {
	router := newProfileRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/profile", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Success bool           `json:"success"`
		Profile map[string]any `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	// 档案不存在时返回空白结构而不是 404
	assert.Nil(t, result.Profile["id"])
	assert.Equal(t, "", result.Profile["name"])
	assert.Nil(t, result.Profile["age"])
}

func TestUpdateProfile_RoundTrip(t *testing.T) {
	router := newProfileRouter(t)

	rec := doRequest(router, http.MethodPut, "/api/profile",
		`{"name":"  Grandma Li  ","age":82,"education_years":9,"diagnosis_notes":"mild memory decline"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Success bool           `json:"success"`
		Profile map[string]any `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "Grandma Li", result.Profile["name"]) // 名字去除首尾空白
	assert.Equal(t, float64(82), result.Profile["age"])
	assert.NotEmpty(t, result.Profile["id"])

	rec = doRequest(router, http.MethodGet, "/api/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Grandma Li", result.Profile["name"])
	assert.Equal(t, "mild memory decline", result.Profile["diagnosis_notes"])
}

func TestUpdateProfile_SingletonOverwrite(t *testing.T) {
	router := newProfileRouter(t)

	rec := doRequest(router, http.MethodPut, "/api/profile", `{"name":"First","age":80}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var first struct {
		Profile map[string]any `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = doRequest(router, http.MethodPut, "/api/profile", `{"name":"Second"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var second struct {
		Profile map[string]any `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	// 单例记录：id 不变，未提供的字段被清空
	assert.Equal(t, first.Profile["id"], second.Profile["id"])
	assert.Equal(t, "Second", second.Profile["name"])
	assert.Nil(t, second.Profile["age"])
}

func TestUpdateProfile_ValidationMessages(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"age not a number", `{"name":"x","age":"abc"}`, "Age must be a valid number"},
		{"age out of range", `{"name":"x","age":200}`, "Age must be a positive number between 1 and 150"},
		{"age zero", `{"name":"x","age":0}`, "Age must be a positive number between 1 and 150"},
		{"education not a number", `{"name":"x","education_years":"abc"}`, "Education years must be a valid number"},
		{"education out of range", `{"name":"x","education_years":31}`, "Education years must be between 0 and 30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newProfileRouter(t)

			rec := doRequest(router, http.MethodPut, "/api/profile", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var result ErrorResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.False(t, result.Success)
			assert.Equal(t, tc.message, result.Error)
		})
	}
}

func TestUpdateProfile_EmptyBody(t *testing.T) {
	router := newProfileRouter(t)

	rec := doRequest(router, http.MethodPut, "/api/profile", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"No data provided"}`, rec.Body.String())
}
