package server

import (
	"errors"
	"net/http"

	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	"github.com/geliahq/gelia/internal/erp/finance"
	"github.com/geliahq/gelia/internal/erp/hr"
	"github.com/geliahq/gelia/internal/erp/navigation"
	"github.com/geliahq/gelia/internal/erp/sales"
	"github.com/geliahq/gelia/internal/erp/supplychain"
	"github.com/geliahq/gelia/internal/gateway"
	identitydomain "github.com/geliahq/gelia/internal/identity/domain"
	"github.com/geliahq/gelia/internal/insight"
	"github.com/geliahq/gelia/internal/providers/ai"
	"github.com/geliahq/gelia/internal/ratelimit"
	"github.com/geliahq/gelia/internal/reference"
	tenantdomain "github.com/geliahq/gelia/internal/tenant/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")
)

// ErrorHandlingMiddleware maps the last recorded error to an HTTP
// response after the handler chain finishes. Handlers record errors via
// AbortWithError and never write failure bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErrs *ValidationErrors
	if errors.As(err, &vErrs) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErrs.Errors,
		}
	}

	switch {
	case errors.Is(err, identitydomain.ErrUnauthorized),
		errors.Is(err, gateway.ErrUnauthorized),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "authentication required",
		}

	case errors.Is(err, identitydomain.ErrInvalidCredentials):
		// Unknown email and wrong password share this response by
		// design of the error itself.
		return http.StatusUnauthorized, errorPayload{
			Type:    "invalid_credentials",
			Message: "invalid credentials",
		}

	case errors.Is(err, identitydomain.ErrAccountInactive),
		errors.Is(err, identitydomain.ErrTenantInactive),
		errors.Is(err, gateway.ErrForbidden),
		errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "access denied",
		}

	case errors.Is(err, ratelimit.ErrLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many attempts",
		}

	case errors.Is(err, identitydomain.ErrDuplicateEmail),
		errors.Is(err, tenantdomain.ErrDuplicateSubdomain):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}

	case errors.Is(err, identitydomain.ErrWeakPassword),
		errors.Is(err, tenantdomain.ErrInvalidName),
		errors.Is(err, tenantdomain.ErrInvalidSubdomain),
		errors.Is(err, finance.ErrInvalidAccount),
		errors.Is(err, finance.ErrInvalidAmount),
		errors.Is(err, hr.ErrInvalidEmployee),
		errors.Is(err, sales.ErrInvalidOpportunity),
		errors.Is(err, supplychain.ErrInvalidProduct),
		errors.Is(err, supplychain.ErrInvalidSupplier),
		errors.Is(err, navigation.ErrInvalidItem),
		errors.Is(err, reference.ErrInvalidResource),
		errors.Is(err, insight.ErrEmptyPrompt),
		errors.Is(err, insight.ErrEmptyModule),
		errors.Is(err, auditdomain.ErrInvalidTimeRange),
		errors.Is(err, ai.ErrUnknownProvider):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}

	case errors.Is(err, identitydomain.ErrTenantNotFound),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, gateway.ErrNotFound),
		errors.Is(err, finance.ErrAccountNotFound),
		errors.Is(err, hr.ErrEmployeeNotFound),
		errors.Is(err, sales.ErrCustomerNotFound),
		errors.Is(err, sales.ErrOpportunityNotFound),
		errors.Is(err, supplychain.ErrProductNotFound),
		errors.Is(err, supplychain.ErrSupplierNotFound),
		errors.Is(err, navigation.ErrItemNotFound),
		errors.Is(err, reference.ErrResourceNotFound),
		errors.Is(err, insight.ErrInsightNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "resource not found",
		}
	}

	var upstream *ai.UpstreamError
	if errors.As(err, &upstream) || errors.Is(err, ai.ErrNotConfigured) {
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: "ai provider unavailable",
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

// classifyErrorForLog labels errors for the request log without leaking
// message details.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", payload.Type
	case status >= http.StatusBadRequest:
		return "client_error", payload.Type
	default:
		return "none", ""
	}
}
