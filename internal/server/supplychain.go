package server

import (
	"net/http"
	"strings"

	"github.com/geliahq/gelia/internal/erp/supplychain"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Category   string `form:"category"`
		SupplierID string `form:"supplier_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	if category := strings.TrimSpace(query.Category); category != "" {
		filters["category"] = category
	}
	supplierID, err := parseOptionalSnowflakeID(query.SupplierID)
	if err != nil {
		AbortWithError(c, newValidationError("supplier_id", "invalid_supplier_id", "invalid supplier_id"))
		return
	}
	if supplierID != nil {
		filters["supplier_id"] = *supplierID
	}

	products, err := s.supplychainSvc.ListProducts(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req supplychain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	product, err := s.supplychainSvc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": product})
}

func (s *Server) GetProduct(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	product, err := s.supplychainSvc.GetProduct(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) ListSuppliers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Country string `form:"country"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	if country := strings.TrimSpace(query.Country); country != "" {
		filters["country"] = country
	}

	suppliers, err := s.supplychainSvc.ListSuppliers(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suppliers})
}

func (s *Server) CreateSupplier(c *gin.Context) {
	var req supplychain.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	supplier, err := s.supplychainSvc.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": supplier})
}

func (s *Server) GetSupplier(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	supplier, err := s.supplychainSvc.GetSupplier(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": supplier})
}
