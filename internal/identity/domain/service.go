package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	tenantdomain "github.com/geliahq/gelia/internal/tenant/domain"
	"github.com/geliahq/gelia/internal/tenantcontext"
)

// Service produces authenticated principals from credentials or tokens.
type Service interface {
	// Register creates a user under an existing tenant. Registration and
	// login are decoupled; no token is issued here.
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	// Login verifies credentials and issues a session token. Unknown
	// email and wrong password are indistinguishable in the returned
	// error.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// Authenticate verifies a bearer token and derives the request
	// principal. Every token failure surfaces as ErrUnauthorized.
	Authenticate(ctx context.Context, rawToken string) (tenantcontext.Principal, error)
}

type RegisterRequest struct {
	TenantID   snowflake.ID
	Email      string
	Username   string
	Password   string
	FirstName  string
	LastName   string
	Role       string
	Department string
}

// LoginRequest resolves the tenant by subdomain when set, otherwise by id.
type LoginRequest struct {
	Subdomain string
	TenantID  snowflake.ID
	Email     string
	Password  string
}

type LoginResult struct {
	Token      string
	ExpiresAt  time.Time
	User       *User
	TenantInfo tenantdomain.Info
}
