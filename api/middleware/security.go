package middleware

import (
	"net/http"
	"strings"

	"github.com/hsglabs/launchcopy-backend/pkg/config"
)

// SecurityHeaders applies the content-security-policy and related headers on
// every response.
func SecurityHeaders(cfg config.CSPConfig) func(http.Handler) http.Handler {
	connectSources := "'self'"
	if len(cfg.ConnectSources) > 0 {
		connectSources += " " + strings.Join(cfg.ConnectSources, " ")
	}
	policy := strings.Join([]string{
		"default-src 'self'",
		"connect-src " + connectSources,
		"frame-ancestors 'none'",
	}, "; ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", policy)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
