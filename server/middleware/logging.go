package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/voicenote/logger"
)

// RequestLogger logs each finished request: method, path, status, duration,
// upload and response sizes. Probe paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbeEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newRecorder(w)
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":             r.Method,
				logger.FieldPath:     r.URL.Path,
				logger.FieldStatus:   rec.status,
				logger.FieldDuration: duration.Milliseconds(),
				"bytes_out":          rec.written,
			}
			if r.ContentLength > 0 {
				fields["bytes_in"] = r.ContentLength
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields[logger.FieldRequestID] = id
			}
			if duration > 30*time.Second {
				fields["slow"] = true
			}

			logByStatus(log, fields, rec.status)
		})
	}
}

func isProbeEndpoint(path string) bool {
	switch path {
	case "/health", "/alive", "/version":
		return true
	}
	return false
}

// logByStatus logs request fields at a level chosen from the status code.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Info("Request completed", fields)
	}
}
