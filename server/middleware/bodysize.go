package middleware

import (
	"net/http"

	"github.com/kbukum/voicenote/util"
)

// defaultMaxBodySize matches the 25 MB upload cap of hosted whisper APIs.
const defaultMaxBodySize = 25 << 20

// BodySizeLimit caps request bodies at maxSize ("25MB", "512KB"). Reading
// past it fails with *http.MaxBytesError, which handlers map to 413.
func BodySizeLimit(maxSize string) Middleware {
	limit := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
