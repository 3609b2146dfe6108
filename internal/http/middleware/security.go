package middleware

import (
	"fmt"
	"net/http"

	"github.com/napoleonmm83/emmotion-api/internal/config"
)

// SecurityHeaders sets the usual browser hardening headers on every
// response. The header set is computed once from config; per request we
// only copy it onto the writer.
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	headers := buildSecurityHeaders(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range headers {
				h.Set(name, value)
			}

			// Do not advertise the server implementation
			h.Del("X-Powered-By")
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

func buildSecurityHeaders(cfg *config.SecurityConfig) map[string]string {
	headers := make(map[string]string)

	if cfg.ContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	if cfg.FrameOptions != "" {
		headers["X-Frame-Options"] = cfg.FrameOptions
	}
	if cfg.XSSProtection != "" {
		headers["X-XSS-Protection"] = cfg.XSSProtection
	}
	if cfg.ContentSecurityPolicy != "" {
		headers["Content-Security-Policy"] = cfg.ContentSecurityPolicy
	}
	if cfg.ReferrerPolicy != "" {
		headers["Referrer-Policy"] = cfg.ReferrerPolicy
	}
	if cfg.PermissionsPolicy != "" {
		headers["Permissions-Policy"] = cfg.PermissionsPolicy
	}
	if cfg.EnableHSTS {
		hsts := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		headers["Strict-Transport-Security"] = hsts
	}

	return headers
}
