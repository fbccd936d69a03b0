package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/kbukum/voicenote/errors"
	"github.com/kbukum/voicenote/logger"
)

// Recovery turns a handler panic into a logged stack trace and an
// INTERNAL_ERROR response in the same shape handlers use for errors.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				log.WithContext(r.Context()).Error("panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprint(rec),
					logger.FieldPath, r.URL.Path,
					"method", r.Method,
					"stack", string(debug.Stack()),
				))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(apperrors.Internal(fmt.Errorf("panic: %v", rec)).ToResponse())
			}()
			next.ServeHTTP(w, r)
		})
	}
}
