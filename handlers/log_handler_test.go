package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitStopperAPI/middleware"
	"habitStopperAPI/services"
)

// The handlers below check identity and input before any service work, so no
// database is wired behind the service in these tests.

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, "user_test_123")
	return req.WithContext(ctx)
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp["error"]
}

func TestGetLogs_Unauthenticated(t *testing.T) {
	h := NewLogHandler(services.NewLogService(nil))

	rr := httptest.NewRecorder()
	h.GetLogs(rr, httptest.NewRequest(http.MethodGet, "/api/logs", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Login required", errorBody(t, rr))
}

func TestSetStatus_Unauthenticated(t *testing.T) {
	h := NewLogHandler(services.NewLogService(nil))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/log", strings.NewReader(`{"date":"2024-03-05","status":"success"}`))
	h.SetStatus(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Login required", errorBody(t, rr))
}

func TestSetStatus_InvalidBody(t *testing.T) {
	h := NewLogHandler(services.NewLogService(nil))

	rr := httptest.NewRecorder()
	h.SetStatus(rr, authedRequest(http.MethodPost, "/api/log", `{not json`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", errorBody(t, rr))
}

func TestSetStatus_MalformedDateRejectedBeforeStore(t *testing.T) {
	h := NewLogHandler(services.NewLogService(nil))

	rr := httptest.NewRecorder()
	h.SetStatus(rr, authedRequest(http.MethodPost, "/api/log", `{"date":"03-05-2024","status":"success"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, errorBody(t, rr), "YYYY-MM-DD")
}

func TestSetStatus_UnknownStatusRejectedBeforeStore(t *testing.T) {
	h := NewLogHandler(services.NewLogService(nil))

	rr := httptest.NewRecorder()
	h.SetStatus(rr, authedRequest(http.MethodPost, "/api/log", `{"date":"2024-03-05","status":"meh"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, errorBody(t, rr), "status")
}

func TestGetCalendar_InvalidMonth(t *testing.T) {
	h := NewLogHandler(services.NewLogService(nil))

	rr := httptest.NewRecorder()
	h.GetCalendar(rr, authedRequest(http.MethodGet, "/api/calendar?year=2024&month=13", ""))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetCurrentUser_AnonymousGetsNull(t *testing.T) {
	h := NewUserHandler(services.NewUserService(nil))

	rr := httptest.NewRecorder()
	h.GetCurrentUser(rr, httptest.NewRequest(http.MethodGet, "/api/current_user", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", strings.TrimSpace(rr.Body.String()))
}
