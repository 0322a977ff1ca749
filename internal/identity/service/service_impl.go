package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/auth/password"
	"github.com/geliahq/gelia/internal/auth/token"
	"github.com/geliahq/gelia/internal/identity/domain"
	"github.com/geliahq/gelia/internal/observability/metrics"
	tenantdomain "github.com/geliahq/gelia/internal/tenant/domain"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/geliahq/gelia/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Tenants tenantdomain.Service
	Tokens  *token.Service
	Metrics *metrics.AuthMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	tenants tenantdomain.Service
	tokens  *token.Service
	metrics *metrics.AuthMetrics

	// dummyHash is verified against when no user matches, so unknown
	// email and wrong password take comparable time.
	dummyHash string
}

func New(p Params) (domain.Service, error) {
	dummy, err := password.Hash("gelia-dummy-credential")
	if err != nil {
		return nil, err
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("identity.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		tenants:   p.Tenants,
		tokens:    p.Tokens,
		metrics:   p.Metrics,
		dummyHash: dummy,
	}, nil
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	tenant, err := s.tenants.FindByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantdomain.ErrNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	if existing, err := s.repo.FindByEmail(ctx, s.db, tenant.ID, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = defaultUsername(email)
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = "user"
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.genID.Generate(),
		TenantID:     tenant.ID,
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
		IsActive:     true,
		Preferences:  datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		// The composite unique index on (tenant_id, email) closes the
		// race between the existence pre-check and this insert.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("user_id", user.ID.String()),
	)

	return user, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	tenant, err := s.resolveTenant(ctx, req)
	if err != nil {
		s.recordLogin("tenant_not_found")
		return nil, err
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		s.recordLogin("invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, s.db, tenant.ID, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a hash verification so this path is not observably
		// faster than a wrong password.
		password.Verify(req.Password, s.dummyHash)
		s.recordLogin("invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		s.recordLogin("invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.recordLogin("account_inactive")
		return nil, domain.ErrAccountInactive
	}
	if !tenant.IsActive {
		s.recordLogin("tenant_inactive")
		return nil, domain.ErrTenantInactive
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateFields(ctx, s.db, user.ID, map[string]any{
		"last_login": now,
		"updated_at": now,
	}); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	issuedAt := time.Now().UTC()
	signed, err := s.tokens.Issue(token.Claims{
		Subject:  user.Username,
		TenantID: user.TenantID,
		UserID:   user.ID,
		Role:     user.Role,
	})
	if err != nil {
		return nil, err
	}

	s.recordLogin("success")
	s.log.Info("login succeeded",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("user_id", user.ID.String()),
	)

	return &domain.LoginResult{
		Token:      signed,
		ExpiresAt:  issuedAt.Add(s.tokens.TTL()),
		User:       user,
		TenantInfo: tenantdomain.InfoOf(tenant),
	}, nil
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (tenantcontext.Principal, error) {
	_ = ctx

	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		// Failure kinds feed observability only; the caller sees one
		// generic authentication failure.
		s.recordTokenFailure(err)
		return tenantcontext.Principal{}, domain.ErrUnauthorized
	}

	return tenantcontext.Principal{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Subject:  claims.Subject,
		Role:     claims.Role,
	}, nil
}

func (s *Service) resolveTenant(ctx context.Context, req domain.LoginRequest) (tenantdomain.Tenant, error) {
	var (
		tenant tenantdomain.Tenant
		err    error
	)
	if strings.TrimSpace(req.Subdomain) != "" {
		tenant, err = s.tenants.FindBySubdomain(ctx, req.Subdomain)
	} else {
		tenant, err = s.tenants.FindByID(ctx, req.TenantID)
	}
	if err != nil {
		if errors.Is(err, tenantdomain.ErrNotFound) {
			return tenantdomain.Tenant{}, domain.ErrTenantNotFound
		}
		return tenantdomain.Tenant{}, err
	}
	return tenant, nil
}

func (s *Service) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(outcome)
	}
}

func (s *Service) recordTokenFailure(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, token.ErrExpired):
		s.metrics.RecordTokenFailure("expired")
	case errors.Is(err, token.ErrInvalidSignature):
		s.metrics.RecordTokenFailure("invalid_signature")
	default:
		s.metrics.RecordTokenFailure("malformed")
	}
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func defaultUsername(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
