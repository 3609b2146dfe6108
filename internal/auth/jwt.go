package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// JWTValidator validates HS256 admin tokens issued for the admin API.
type JWTValidator struct {
	secret []byte
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret)}
}

// ValidateToken validates a JWT token and returns the admin context
func (v *JWTValidator) ValidateToken(tokenString string) (*AdminContext, error) {
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsedToken.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	admin := &AdminContext{
		Subject: sub,
		Email:   extractString(claims, "email", "preferred_username"),
		Roles:   extractRoles(claims),
	}
	if len(admin.Roles) == 0 {
		return nil, fmt.Errorf("%w: no roles", ErrInvalidToken)
	}
	return admin, nil
}

func extractString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if val, ok := claims[key]; ok {
			if str, ok := val.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}

func extractRoles(claims jwt.MapClaims) []Role {
	roles := []Role{}
	for _, key := range []string{"roles", "role"} {
		val, ok := claims[key]
		if !ok {
			continue
		}
		switch v := val.(type) {
		case []interface{}:
			for _, r := range v {
				if str, ok := r.(string); ok {
					roles = append(roles, Role(str))
				}
			}
		case []string:
			for _, str := range v {
				roles = append(roles, Role(str))
			}
		case string:
			roles = append(roles, Role(v))
		}
	}
	return roles
}
