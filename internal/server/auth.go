package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	identitydomain "github.com/geliahq/gelia/internal/identity/domain"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	TenantID   string `json:"tenant_id" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Username   string `json:"username"`
	Password   string `json:"password" binding:"required"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenantID, err := snowflake.ParseString(strings.TrimSpace(req.TenantID))
	if err != nil || tenantID == 0 {
		AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "invalid tenant id"))
		return
	}

	user, err := s.identitySvc.Register(c.Request.Context(), identitydomain.RegisterRequest{
		TenantID:   tenantID,
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	_ = s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		TenantID:   user.TenantID,
		ActorID:    &user.ID,
		Action:     "user.register",
		TargetType: "user",
		TargetID:   user.ID.String(),
		Metadata:   map[string]any{"email": user.Email},
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	// Registration signs the caller in right away; the response carries
	// the same token payload as a login.
	result, err := s.identitySvc.Login(c.Request.Context(), identitydomain.LoginRequest{
		TenantID: user.TenantID,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": result.Token,
		"token_type":   "bearer",
		"expires_at":   result.ExpiresAt,
		"tenant_info":  result.TenantInfo,
	})
}

// loginLimiterKey buckets attempts per (tenant, email). The tenant part
// is the tenant id when the client sent one, otherwise the normalized
// subdomain, so id-based logins for different tenants never share a
// bucket.
func loginLimiterKey(subdomain string, tenantID snowflake.ID, email string) string {
	tenantKey := strings.ToLower(strings.TrimSpace(subdomain))
	if tenantID != 0 {
		tenantKey = tenantID.String()
	}
	return tenantKey + ":" + strings.ToLower(strings.TrimSpace(email))
}

type loginRequest struct {
	Subdomain string `json:"subdomain"`
	TenantID  string `json:"tenant_id"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var tenantID snowflake.ID
	if raw := strings.TrimSpace(req.TenantID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil || parsed == 0 {
			AbortWithError(c, newValidationError("tenant_id", "invalid_tenant_id", "invalid tenant id"))
			return
		}
		tenantID = parsed
	}
	if tenantID == 0 && strings.TrimSpace(req.Subdomain) == "" {
		AbortWithError(c, newValidationError("tenant_id", "missing_tenant", "subdomain or tenant_id is required"))
		return
	}

	if err := s.loginLimiter.Allow(c.Request.Context(), loginLimiterKey(req.Subdomain, tenantID, req.Email)); err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.identitySvc.Login(c.Request.Context(), identitydomain.LoginRequest{
		Subdomain: req.Subdomain,
		TenantID:  tenantID,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	_ = s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		TenantID:   result.User.TenantID,
		ActorID:    &result.User.ID,
		Action:     "user.login",
		TargetType: "user",
		TargetID:   result.User.ID.String(),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, gin.H{
		"access_token": result.Token,
		"token_type":   "bearer",
		"expires_at":   result.ExpiresAt,
		"tenant_info":  result.TenantInfo,
	})
}
