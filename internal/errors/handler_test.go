package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentpulse/internal/analytics"
	"studentpulse/internal/ingest"
	"studentpulse/internal/services"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	verr := analytics.ValidateDataset(analytics.NewDataset(
		[]string{"Student ID", "Student Name", "Math", "Science", "English", "History", "Geography"},
		[][]string{{"1", "Ana", "x", "1", "1", "1", "1"}}))
	require.Error(t, verr)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", verr, http.StatusBadRequest, "Missing required columns: Attendance %"},
		{"no file", services.ErrNoFile, http.StatusBadRequest, MsgNoFile},
		{"no file selected", services.ErrNoFileSelected, http.StatusBadRequest, MsgNoFileSelected},
		{"unsupported", fmt.Errorf("%w: %q", ingest.ErrUnsupportedFormat, ".txt"), http.StatusBadRequest, MsgUnsupportedFile},
		{"too large", fmt.Errorf("%w: 9 bytes", services.ErrUploadTooLarge), http.StatusRequestEntityTooLarge, ErrPayloadTooLarge.Message},
		{"malformed", fmt.Errorf("%w: record on line 3: wrong number of fields", ingest.ErrMalformedInput), http.StatusBadRequest, "Failed to read file: record on line 3: wrong number of fields"},
		{"api error", ErrRateLimitExceeded, http.StatusTooManyRequests, "Rate limit exceeded"},
		{"file read", FileReadError(fmt.Errorf("zip: not a valid zip file")), http.StatusBadRequest, "Failed to read file: zip: not a valid zip file"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "The request took too long to process and was cancelled"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "An unexpected error occurred while processing your request"},
	}

	h := NewErrorHandler(nil, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantError, body["detail"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/analyze", body["instance"])
		})
	}
}

func TestErrorHandler_ValidationListsEveryMessage(t *testing.T) {
	err := analytics.ValidateDataset(analytics.NewDataset(analytics.RequiredColumns,
		[][]string{{"1", "Ana", "x", "80", "70", "60", "50", "N/A"}}))
	require.Error(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	NewErrorHandler(nil, false).HandleError(rec, req, err)

	body := decodeProblem(t, rec)
	assert.Equal(t, []interface{}{
		"Column 'Math' contains non-numeric values.",
		"Column 'Attendance %' contains non-numeric values.",
	}, body["errors"])
	assert.Equal(t, "Column 'Math' contains non-numeric values. | Column 'Attendance %' contains non-numeric values.", body["error"])
	assert.Equal(t, TypeInvalidDataset, body["type"])
}

func TestErrorHandler_TraceID(t *testing.T) {
	h := NewErrorHandler(nil, false)
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.HandleError(w, r, services.ErrNoFileSelected)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", decodeProblem(t, rec)["trace_id"])
}

func TestErrorHandler_NilErrorWritesNothing(t *testing.T) {
	rec := httptest.NewRecorder()
	NewErrorHandler(nil, false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, rec.Body.Len())
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	rec := httptest.NewRecorder()
	NewErrorHandler(nil, true).HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/x", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "kaboom", body["panic"])
	assert.Equal(t, "An unexpected error occurred", body["error"])
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/analyze", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.True(t, strings.Contains(decodeProblem(t, rec)["detail"].(string), "DELETE"))
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeUpload, "Bad Request", "", "").
		WithExtension("error", "x").
		WithExtension("type", "overridden")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeUpload, body["type"], "standard members win over extensions")
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
	assert.Equal(t, "x", body["error"])
}

func TestAPIError(t *testing.T) {
	err := NewWithDetails(http.StatusBadRequest, "X", "bad", map[string]int{"n": 1})
	assert.Equal(t, "bad", err.Error())
	assert.Equal(t, map[string]int{"n": 1}, err.Details)
}
