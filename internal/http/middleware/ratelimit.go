package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/config"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
)

// RateLimiter holds rate limiting middleware and configuration. The
// general limiter covers the public API per minute; the submit limiter
// is much tighter because a legitimate visitor signs at most a couple
// of contracts per hour.
type RateLimiter struct {
	cfg            *config.RateLimitConfig
	logger         *zap.Logger
	generalLimiter func(http.Handler) http.Handler
	submitLimiter  func(http.Handler) http.Handler
	whitelistPaths map[string]bool
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:            cfg,
		logger:         logger,
		whitelistPaths: make(map[string]bool),
	}

	for _, path := range cfg.WhitelistPaths {
		rl.whitelistPaths[path] = true
	}

	rl.generalLimiter = httprate.Limit(
		cfg.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(rl.keyByClientIP),
		httprate.WithLimitHandler(rl.limitExceededHandler("60")),
	)

	rl.submitLimiter = httprate.Limit(
		cfg.SubmitPerHour,
		time.Hour,
		httprate.WithKeyFuncs(rl.keyByClientIP),
		httprate.WithLimitHandler(rl.limitExceededHandler("3600")),
	)

	logger.Info("Rate limiter initialized",
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
		zap.Int("submit_per_hour", cfg.SubmitPerHour),
		zap.Strings("whitelist_paths", cfg.WhitelistPaths),
	)

	return rl
}

// Limit returns the general per-IP rate limiting middleware
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.isPathWhitelisted(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		rl.generalLimiter(next).ServeHTTP(w, r)
	})
}

// LimitSubmit returns the tight per-IP limiter for the contract
// submission endpoint.
func (rl *RateLimiter) LimitSubmit(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	return rl.submitLimiter(next)
}

func (rl *RateLimiter) keyByClientIP(r *http.Request) (string, error) {
	return "ip:" + ClientIP(r), nil
}

// ClientIP extracts the client IP from the request, honoring reverse
// proxy headers.
func ClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiter) isPathWhitelisted(path string) bool {
	if rl.whitelistPaths[path] {
		return true
	}

	for wp := range rl.whitelistPaths {
		if strings.HasSuffix(wp, "/*") {
			prefix := strings.TrimSuffix(wp, "/*")
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
	}

	return false
}

func (rl *RateLimiter) limitExceededHandler(retryAfter string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		rl.logger.Warn("rate limit exceeded",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.String("client_ip", ClientIP(r)),
		)

		w.Header().Set("Content-Type", "application/problem+json")
		w.Header().Set("Retry-After", retryAfter)
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(&domain.APIError{
			Type:   domain.ErrorTypeRateLimited,
			Title:  "Too Many Requests",
			Status: http.StatusTooManyRequests,
			Detail: domain.MsgRateLimited,
		})
	}
}
