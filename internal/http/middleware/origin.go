package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/config"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
)

// OriginCheck rejects submissions whose Origin or Referer does not
// match the configured website origins. An empty allowlist disables the
// check, which is only acceptable in development.
func OriginCheck(cfg *config.OnboardingConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[strings.TrimRight(strings.ToLower(origin), "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			origin := requestOrigin(r)
			if origin == "" || !allowed[origin] {
				logger.Warn("submission origin rejected",
					zap.String("path", r.URL.Path),
					zap.String("origin", origin),
					zap.String("client_ip", ClientIP(r)),
				)
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(&domain.APIError{
					Type:   domain.ErrorTypeForbidden,
					Title:  "Forbidden",
					Status: http.StatusForbidden,
					Detail: domain.MsgOriginRejected,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestOrigin returns the normalized scheme://host of the Origin
// header, falling back to the Referer.
func requestOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return strings.TrimRight(strings.ToLower(origin), "/")
	}
	referer := strings.ToLower(r.Header.Get("Referer"))
	if referer == "" {
		return ""
	}
	// Keep scheme://host, drop the path.
	rest := referer
	scheme := ""
	if idx := strings.Index(referer, "://"); idx != -1 {
		scheme = referer[:idx+3]
		rest = referer[idx+3:]
	}
	if idx := strings.IndexByte(rest, '/'); idx != -1 {
		rest = rest[:idx]
	}
	return scheme + rest
}

// BodyLimit caps the request body size. Submissions carry an inline
// signature image, so the cap has to be generous but bounded.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_ = json.NewEncoder(w).Encode(&domain.APIError{
					Type:   domain.ErrorTypeTooLarge,
					Title:  "Payload Too Large",
					Status: http.StatusRequestEntityTooLarge,
					Detail: domain.MsgPayloadTooLarge,
				})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
