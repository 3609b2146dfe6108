package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/config"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func adminClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "patrick",
		"email": "patrick@emmotion.ch",
		"roles": []string{"admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestValidateTokenHappyPath(t *testing.T) {
	v := NewJWTValidator(testSecret)

	admin, err := v.ValidateToken(signToken(t, adminClaims()))

	require.NoError(t, err)
	assert.Equal(t, "patrick", admin.Subject)
	assert.Equal(t, "patrick@emmotion.ch", admin.Email)
	assert.True(t, admin.CanCorrect())
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	v := NewJWTValidator(testSecret)
	claims := adminClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()

	_, err := v.ValidateToken(signToken(t, claims))

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	v := NewJWTValidator("a-different-secret")

	_, err := v.ValidateToken(signToken(t, adminClaims()))

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsMissingRoles(t *testing.T) {
	v := NewJWTValidator(testSecret)
	claims := adminClaims()
	delete(claims, "roles")

	_, err := v.ValidateToken(signToken(t, claims))

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestViewerCannotCorrect(t *testing.T) {
	v := NewJWTValidator(testSecret)
	claims := adminClaims()
	claims["roles"] = "viewer"

	admin, err := v.ValidateToken(signToken(t, claims))

	require.NoError(t, err)
	assert.True(t, admin.HasRole(RoleViewer))
	assert.False(t, admin.CanCorrect())
}

func newTestMiddleware() *Middleware {
	return NewMiddleware(&config.AdminConfig{
		JWTSecret: testSecret,
		APIKey:    "test-api-key",
	}, zap.NewNop())
}

func authedHandler(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		admin, ok := FromContext(r.Context())
		require.True(t, ok)
		assert.NotEmpty(t, admin.Subject)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateWithAPIKey(t *testing.T) {
	m := newTestMiddleware()
	called := false

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req.Header.Set("x-api-key", "test-api-key")
	rec := httptest.NewRecorder()
	m.Authenticate(authedHandler(t, &called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAuthenticateRejectsWrongAPIKey(t *testing.T) {
	m := newTestMiddleware()
	called := false

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req.Header.Set("x-api-key", "nope")
	rec := httptest.NewRecorder()
	m.Authenticate(authedHandler(t, &called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthenticateWithBearerToken(t *testing.T) {
	m := newTestMiddleware()
	called := false

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, adminClaims()))
	rec := httptest.NewRecorder()
	m.Authenticate(authedHandler(t, &called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	m := newTestMiddleware()
	called := false

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	rec := httptest.NewRecorder()
	m.Authenticate(authedHandler(t, &called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireRoleBlocksViewer(t *testing.T) {
	m := newTestMiddleware()
	claims := adminClaims()
	claims["roles"] = "viewer"
	called := false

	handler := m.Authenticate(m.RequireRole(RoleAdmin)(authedHandler(t, &called)))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/x/corrections", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
