package server

import (
	"net/http"

	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	tenantdomain "github.com/geliahq/gelia/internal/tenant/domain"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/gin-gonic/gin"
)

type createTenantRequest struct {
	Name      string `json:"name" binding:"required"`
	Domain    string `json:"domain"`
	Subdomain string `json:"subdomain" binding:"required"`
	Plan      string `json:"plan"`
	MaxUsers  int    `json:"max_users"`
}

// CreateTenant is the unauthenticated signup entry point; the first
// user is registered against the new tenant afterwards.
func (s *Server) CreateTenant(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.tenantSvc.Create(c.Request.Context(), tenantdomain.CreateTenantRequest{
		Name:      req.Name,
		Domain:    req.Domain,
		Subdomain: req.Subdomain,
		Plan:      req.Plan,
		MaxUsers:  req.MaxUsers,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	_ = s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		TenantID:   created.ID,
		ActorType:  "system",
		Action:     "tenant.create",
		TargetType: "tenant",
		TargetID:   created.ID.String(),
		Metadata:   map[string]any{"subdomain": created.Subdomain, "plan": created.Plan},
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// GetOwnTenant returns the caller's tenant. There is deliberately no
// route that fetches a tenant by arbitrary id.
func (s *Server) GetOwnTenant(c *gin.Context) {
	principal, ok := tenantcontext.PrincipalFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	tenant, err := s.tenantSvc.FindByID(c.Request.Context(), principal.TenantID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tenant})
}
