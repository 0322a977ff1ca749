package server

import (
	"net/http"
	"strings"

	"github.com/geliahq/gelia/internal/erp/finance"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListAccounts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		AccountType string `form:"account_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	if accountType := strings.TrimSpace(query.AccountType); accountType != "" {
		filters["account_type"] = accountType
	}

	accounts, err := s.financeSvc.ListAccounts(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req finance.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	account, err := s.financeSvc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": account})
}

func (s *Server) GetAccount(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	account, err := s.financeSvc.GetAccount(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

func (s *Server) ListTransactions(c *gin.Context) {
	var query struct {
		pagination.Pagination
		AccountID string `form:"account_id"`
		Category  string `form:"category"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	filters := map[string]any{}
	accountID, err := parseOptionalSnowflakeID(query.AccountID)
	if err != nil {
		AbortWithError(c, newValidationError("account_id", "invalid_account_id", "invalid account_id"))
		return
	}
	if accountID != nil {
		filters["account_id"] = *accountID
	}
	if category := strings.TrimSpace(query.Category); category != "" {
		filters["category"] = category
	}

	transactions, err := s.financeSvc.ListTransactions(c.Request.Context(), gateway.Query{
		Pagination: query.Pagination,
		Filters:    filters,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": transactions})
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var req finance.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.financeSvc.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": entry})
}
