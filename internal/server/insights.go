package server

import (
	"net/http"

	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListInsights(c *gin.Context) {
	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	insights, err := s.insightSvc.ListActive(c.Request.Context(), query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": insights})
}

type analyzeRequest struct {
	Prompt      string         `json:"prompt" binding:"required"`
	Context     map[string]any `json:"context"`
	ServiceType string         `json:"service_type"`
}

func (s *Server) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.insightSvc.Analyze(c.Request.Context(), req.ServiceType, req.Prompt, req.Context)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type generateInsightRequest struct {
	Module string `json:"module" binding:"required"`
}

func (s *Server) GenerateInsight(c *gin.Context) {
	var req generateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	record, err := s.insightSvc.Generate(c.Request.Context(), req.Module)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	_ = s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		Action:     "insight.generate",
		TargetType: "ai_insight",
		TargetID:   record.ID.String(),
		Metadata:   map[string]any{"module": record.ModuleAffected},
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":    "insight generated",
		"insight_id": record.ID.String(),
		"data":       record,
	})
}
