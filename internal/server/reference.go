package server

import (
	"net/http"
	"strings"

	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/internal/reference"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListGlobalResources(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ResourceType string `form:"resource_type"`
		Region       string `form:"region"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	if resourceType := strings.TrimSpace(query.ResourceType); resourceType != "" {
		filters["resource_type"] = resourceType
	}
	if region := strings.TrimSpace(query.Region); region != "" {
		filters["region"] = region
	}

	resources, err := s.referenceSvc.List(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resources})
}

func (s *Server) GetGlobalResource(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resource, err := s.referenceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resource})
}

func (s *Server) CreateGlobalResource(c *gin.Context) {
	var req reference.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resource, err := s.referenceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	_ = s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		Action:     "reference.create",
		TargetType: "global_resource",
		TargetID:   resource.ID.String(),
		Metadata:   map[string]any{"resource_type": resource.ResourceType, "resource_name": resource.ResourceName},
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	c.JSON(http.StatusCreated, gin.H{"data": resource})
}

type updateGlobalResourceRequest struct {
	CurrentPrice       *int64  `json:"current_price"`
	AvailabilityStatus *string `json:"availability_status"`
	Region             *string `json:"region"`
}

func (s *Server) UpdateGlobalResource(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateGlobalResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fields := map[string]any{}
	if req.CurrentPrice != nil {
		fields["current_price"] = *req.CurrentPrice
	}
	if req.AvailabilityStatus != nil {
		fields["availability_status"] = strings.TrimSpace(*req.AvailabilityStatus)
	}
	if req.Region != nil {
		fields["region"] = strings.TrimSpace(*req.Region)
	}
	if len(fields) == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	resource, err := s.referenceSvc.Update(c.Request.Context(), id, fields)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resource})
}

func (s *Server) DeleteGlobalResource(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.referenceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
