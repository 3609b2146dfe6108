package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestOriginCheckAllowsConfiguredOrigin(t *testing.T) {
	mw := OriginCheck(&config.OnboardingConfig{
		AllowedOrigins: []string{"https://www.emmotion.ch"},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", nil)
	req.Header.Set("Origin", "https://www.emmotion.ch")
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOriginCheckFallsBackToReferer(t *testing.T) {
	mw := OriginCheck(&config.OnboardingConfig{
		AllowedOrigins: []string{"https://www.emmotion.ch"},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", nil)
	req.Header.Set("Referer", "https://www.emmotion.ch/onboarding/signatur")
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOriginCheckRejectsForeignOrigin(t *testing.T) {
	mw := OriginCheck(&config.OnboardingConfig{
		AllowedOrigins: []string{"https://www.emmotion.ch"},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sicherheitsgründen")
}

func TestOriginCheckDisabledWithEmptyAllowlist(t *testing.T) {
	mw := OriginCheck(&config.OnboardingConfig{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", nil)
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBodyLimitRejectsOversizedPayload(t *testing.T) {
	mw := BodyLimit(64)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", strings.NewReader(strings.Repeat("x", 200)))
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "zu gross")
}

func TestBodyLimitPassesSmallPayload(t *testing.T) {
	mw := BodyLimit(64)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitRateLimitReturnsRetryAfter(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		SubmitPerHour:     2,
	}, zap.NewNop())
	handler := rl.LimitSubmit(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", nil)
		req.RemoteAddr = "198.51.100.9:4711"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "3600", last.Header().Get("Retry-After"))
	assert.Contains(t, last.Body.String(), "Zu viele Anfragen")
}

func TestRateLimitWhitelistsHealthPath(t *testing.T) {
	rl := NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		SubmitPerHour:     1,
		WhitelistPaths:    []string{"/health"},
	}, zap.NewNop())
	handler := rl.Limit(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "198.51.100.9:4711"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	mw := SecurityHeaders(&config.SecurityConfig{
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		XSSProtection:         "1; mode=block",
		ContentSecurityPolicy: "default-src 'self'",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil)
	rec := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", rec.Header().Get("Content-Security-Policy"))
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", ClientIP(req))
}
