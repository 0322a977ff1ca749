// Package tenantcontext carries the authenticated principal through the
// request context. A principal is derived fresh from a verified token on
// every request and never cached across requests.
package tenantcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// RoleAdmin is the coarse role allowed to mutate tenant-level settings
// and global resources.
const RoleAdmin = "admin"

// Principal is the authenticated {user, tenant, role} identity attached
// to a single request.
type Principal struct {
	UserID   snowflake.ID
	TenantID snowflake.ID
	Subject  string
	Role     string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type principalKey struct{}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the request's principal, if one was
// attached by the authentication middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.TenantID == 0 {
		return Principal{}, false
	}
	return p, true
}
