// Package middleware holds the HTTP middleware specific to the
// reconciliation server. Generic pieces come from chi's middleware package.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/resolutions/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request with the request id attached.
// Server errors log at error level, client errors at warn.
//
// Log fields:
//   - method, path, status
//   - bytes: response body size
//   - duration_ms
//   - ip: X-Real-IP when RealIP ran first, else RemoteAddr
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		ip := r.RemoteAddr
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			ip = realIP
		}

		logging.FromContext(r.Context()).Log(r.Context(), levelFor(status), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", ip,
		)
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
