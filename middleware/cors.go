package middleware

import (
	"net/http"
	"strings"

	"github.com/go-kyugo/pagekit/config"
)

var defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

// CORS applies CORS headers based on config. Preflight requests are answered
// with 204 and do not reach next.
func CORS(c config.CorsConfig) func(http.Handler) http.Handler {
	origin := "*"
	if len(c.AllowedOrigins) > 0 {
		origin = c.AllowedOrigins[0]
	}
	methods := c.AllowedMethods
	if len(methods) == 0 {
		methods = defaultMethods
	}
	allowMethods := strings.Join(methods, ",")
	allowHeaders := strings.Join(c.AllowedHeaders, ",")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", allowMethods)
			if allowHeaders != "" {
				w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
