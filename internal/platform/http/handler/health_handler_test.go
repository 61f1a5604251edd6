package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks ...Check) *gin.Engine {
	h := NewHealthHandler(checks...)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	return r
}

func okCheck(name string) Check {
	return Check{Name: name, Ping: func(ctx context.Context) error { return nil }}
}

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		checks         []Check
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no dependencies",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "all dependencies healthy",
			checks:         []Check{okCheck("redis"), okCheck("archive")},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok","checks":{"redis":"ok","archive":"ok"}}`,
		},
		{
			name: "one dependency failing",
			checks: []Check{
				okCheck("redis"),
				{Name: "archive", Ping: func(ctx context.Context) error { return errors.New("database is locked") }},
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"degraded","checks":{"redis":"ok","archive":"database is locked"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := setupRouter(tt.checks...)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		})
	}
}

func TestHealth_HEAD_SkipsChecks(t *testing.T) {
	t.Parallel()

	called := false
	router := setupRouter(Check{Name: "redis", Ping: func(ctx context.Context) error {
		called = true
		return nil
	}})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, w.Body.Len(), "HEAD should have no body")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.False(t, called)
}

func TestHealth_OPTIONS(t *testing.T) {
	t.Parallel()

	router := setupRouter()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/healthz", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
