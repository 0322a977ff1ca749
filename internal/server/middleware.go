package server

import (
	"strings"

	"github.com/geliahq/gelia/internal/observability/obscontext"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/gin-gonic/gin"
)

// AuthRequired verifies the bearer token and attaches the derived
// principal to the request context. The principal is rebuilt from the
// token on every request; nothing is cached between requests.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.identitySvc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := tenantcontext.WithPrincipal(c.Request.Context(), principal)
		ctx = obscontext.WithTenantID(ctx, principal.TenantID.String())
		ctx = obscontext.WithSubject(ctx, principal.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin gates a route to principals carrying the admin role. It
// must run after AuthRequired.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := tenantcontext.PrincipalFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !principal.IsAdmin() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
