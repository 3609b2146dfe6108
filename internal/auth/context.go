package auth

import "context"

// Role is an admin API role carried in the JWT.
type Role string

const (
	// RoleAdmin may read submissions and append corrections.
	RoleAdmin Role = "admin"
	// RoleViewer may read submissions but not change them.
	RoleViewer Role = "viewer"
)

// AdminContext holds the authenticated admin identity for a request.
type AdminContext struct {
	Subject string
	Email   string
	Roles   []Role
}

type contextKey string

const adminContextKey contextKey = "adminContext"

// WithAdminContext adds the admin identity to the context.
func WithAdminContext(ctx context.Context, admin *AdminContext) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

// FromContext extracts the admin identity from the context.
func FromContext(ctx context.Context) (*AdminContext, bool) {
	admin, ok := ctx.Value(adminContextKey).(*AdminContext)
	return admin, ok
}

// HasRole checks if the admin carries a specific role.
func (a *AdminContext) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanCorrect reports whether the admin may append corrections.
func (a *AdminContext) CanCorrect() bool {
	return a.HasRole(RoleAdmin)
}
