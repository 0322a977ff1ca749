package server

import (
	"net/http"
	"strings"

	"github.com/geliahq/gelia/internal/erp/sales"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Industry string `form:"industry"`
		Tier     string `form:"tier"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	if industry := strings.TrimSpace(query.Industry); industry != "" {
		filters["industry"] = industry
	}
	if tier := strings.TrimSpace(query.Tier); tier != "" {
		filters["customer_tier"] = tier
	}

	customers, err := s.salesSvc.ListCustomers(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customers})
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req sales.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customer, err := s.salesSvc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": customer})
}

func (s *Server) GetCustomer(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	customer, err := s.salesSvc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (s *Server) ListOpportunities(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Stage      string `form:"stage"`
		CustomerID string `form:"customer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	if stage := strings.TrimSpace(query.Stage); stage != "" {
		filters["stage"] = stage
	}
	customerID, err := parseOptionalSnowflakeID(query.CustomerID)
	if err != nil {
		AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "invalid customer_id"))
		return
	}
	if customerID != nil {
		filters["customer_id"] = *customerID
	}

	opportunities, err := s.salesSvc.ListOpportunities(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": opportunities})
}

func (s *Server) CreateOpportunity(c *gin.Context) {
	var req sales.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	opportunity, err := s.salesSvc.CreateOpportunity(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": opportunity})
}

func (s *Server) GetOpportunity(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	opportunity, err := s.salesSvc.GetOpportunity(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": opportunity})
}
