package httphandler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// statusWriter records the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += n
	return n, err
}

// requestKind classifies a request for logging.
type requestKind int

const (
	kindPage requestKind = iota
	kindDeploy
	kindAsset
	kindProbe
)

func classify(r *http.Request) requestKind {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/setup":
		return kindDeploy
	case strings.HasPrefix(r.URL.Path, "/static/"), strings.HasPrefix(r.URL.Path, "/theme/"):
		return kindAsset
	case r.URL.Path == "/api/v1/health":
		return kindProbe
	default:
		return kindPage
	}
}

// loggingMiddleware logs every request. Deployment triggers are logged at Info
// under their own message, stylesheet and health probe hits at Debug.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		msg, level := "http request", slog.LevelInfo
		switch classify(r) {
		case kindDeploy:
			msg = "deployment trigger"
		case kindAsset, kindProbe:
			level = slog.LevelDebug
		}
		if sw.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}

		logger.Log(r.Context(), level, msg,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// recoveryMiddleware turns a handler panic into a 500: JSON under /api/,
// plain text for the HTML routes.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered",
					"panic", v,
					"method", r.Method,
					"path", r.URL.Path,
				)
				if strings.HasPrefix(r.URL.Path, "/api/") {
					writeError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
