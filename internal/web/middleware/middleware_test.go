package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/resolutions/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "debug", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger_RecordsStatusAndRequestID(t *testing.T) {
	buf := captureLogs(t)

	h := middleware.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("bad file"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", nil)
	req.Header.Set("X-Real-IP", "10.0.0.7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=422")
	assert.Contains(t, out, "bytes=8")
	assert.Contains(t, out, "ip=10.0.0.7")
	assert.Contains(t, out, "request_id=")
}

func TestLogger_ImplicitOK(t *testing.T) {
	buf := captureLogs(t)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "status=200")
	assert.True(t, strings.Contains(out, "path=/healthz"))
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, levelFor(204))
	assert.Equal(t, slog.LevelWarn, levelFor(429))
	assert.Equal(t, slog.LevelError, levelFor(503))
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}
