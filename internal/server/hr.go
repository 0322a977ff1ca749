package server

import (
	"net/http"
	"strings"

	"github.com/geliahq/gelia/internal/erp/hr"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListEmployees(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Department string `form:"department"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	if department := strings.TrimSpace(query.Department); department != "" {
		filters["department"] = department
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		filters["employment_status"] = status
	}

	employees, err := s.hrSvc.List(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": employees})
}

func (s *Server) CreateEmployee(c *gin.Context) {
	var req hr.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	employee, err := s.hrSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": employee})
}

func (s *Server) GetEmployee(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	employee, err := s.hrSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": employee})
}

type updateEmployeeRequest struct {
	Department       *string `json:"department"`
	Position         *string `json:"position"`
	Salary           *int64  `json:"salary"`
	EmploymentStatus *string `json:"employment_status"`
}

func (s *Server) UpdateEmployee(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fields := map[string]any{}
	if req.Department != nil {
		fields["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		fields["position"] = strings.TrimSpace(*req.Position)
	}
	if req.Salary != nil {
		fields["salary"] = *req.Salary
	}
	if req.EmploymentStatus != nil {
		fields["employment_status"] = strings.TrimSpace(*req.EmploymentStatus)
	}
	if len(fields) == 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	employee, err := s.hrSvc.Update(c.Request.Context(), id, fields)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": employee})
}

func (s *Server) DeleteEmployee(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.hrSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
