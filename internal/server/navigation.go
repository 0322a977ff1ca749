package server

import (
	"net/http"
	"strings"

	"github.com/geliahq/gelia/internal/erp/navigation"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

func (s *Server) ListNavigation(c *gin.Context) {
	var query struct {
		pagination.Pagination
		VisibleOnly bool `form:"visible_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	if query.VisibleOnly {
		filters["visible"] = true
	}

	items, err := s.navigationSvc.List(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateNavigationItem(c *gin.Context) {
	var req navigation.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.navigationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) GetNavigationItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.navigationSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

type updateNavigationRequest struct {
	Name         *string            `json:"name"`
	Href         *string            `json:"href"`
	Icon         *string            `json:"icon"`
	Description  *string            `json:"description"`
	Visible      *bool              `json:"visible"`
	DisplayOrder *int               `json:"order"`
	Badge        *datatypes.JSONMap `json:"badge"`
	Meta         *datatypes.JSONMap `json:"metadata"`
}

func (s *Server) UpdateNavigationItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateNavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Href != nil {
		fields["href"] = strings.TrimSpace(*req.Href)
	}
	if req.Icon != nil {
		fields["icon"] = strings.TrimSpace(*req.Icon)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Visible != nil {
		fields["visible"] = *req.Visible
	}
	if req.DisplayOrder != nil {
		fields["display_order"] = *req.DisplayOrder
	}
	if req.Badge != nil {
		fields["badge"] = *req.Badge
	}
	if req.Meta != nil {
		fields["meta"] = *req.Meta
	}
	if len(fields) == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.navigationSvc.Update(c.Request.Context(), id, fields)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) DeleteNavigationItem(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.navigationSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
