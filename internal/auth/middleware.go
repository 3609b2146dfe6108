package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/config"
)

// Middleware handles authentication for the admin API
type Middleware struct {
	jwtValidator *JWTValidator
	apiKey       string
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.AdminConfig, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(cfg.JWTSecret),
		apiKey:       cfg.APIKey,
		logger:       logger,
	}
}

// Authenticate guards the admin routes. An x-api-key header grants full
// admin access for service-to-service callers; everything else needs a
// Bearer token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if apiKey := r.Header.Get("x-api-key"); apiKey != "" {
			if m.validateAPIKey(apiKey) {
				admin := &AdminContext{
					Subject: "api-key",
					Email:   "system@emmotion.ch",
					Roles:   []Role{RoleAdmin},
				}
				m.logger.Info("request authenticated",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("auth_type", "api_key"),
					zap.Duration("auth_duration", time.Since(start)),
				)
				next.ServeHTTP(w, r.WithContext(WithAdminContext(r.Context(), admin)))
				return
			}
			m.logger.Warn("invalid API key attempt",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		admin, err := m.jwtValidator.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		m.logger.Info("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("auth_type", "jwt"),
			zap.String("subject", admin.Subject),
			zap.Duration("auth_duration", time.Since(start)),
		)
		next.ServeHTTP(w, r.WithContext(WithAdminContext(r.Context(), admin)))
	})
}

// RequireRole ensures the authenticated admin carries one of the roles.
func (m *Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, ok := FromContext(r.Context())
			if !ok {
				http.Error(w, "Forbidden: no admin context", http.StatusForbidden)
				return
			}
			for _, role := range roles {
				if admin.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		})
	}
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	// Constant-time comparison to prevent timing attacks
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}
