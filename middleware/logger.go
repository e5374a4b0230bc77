package middleware

import (
	"net/http"
	"time"

	"github.com/go-kyugo/pagekit/logger"
)

// responseRecorder captures status and size written by the handler.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Logger logs one line per request. The htmx field is read once next returns,
// so the request locals must be attached outside of this middleware.
func Logger(l *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rr, r)

			l.Info("HTTP.Request", logger.Fields{
				"duration_ms": time.Since(start).Milliseconds(),
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"size":        rr.size,
				"status":      rr.status,
				"htmx":        IsHTMX(r),
			})
		})
	}
}
