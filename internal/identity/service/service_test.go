package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/auth/token"
	"github.com/geliahq/gelia/internal/config"
	"github.com/geliahq/gelia/internal/identity/domain"
	"github.com/geliahq/gelia/internal/identity/repository"
	tenantdomain "github.com/geliahq/gelia/internal/tenant/domain"
	tenantrepo "github.com/geliahq/gelia/internal/tenant/repository"
	tenantservice "github.com/geliahq/gelia/internal/tenant/service"
	"github.com/geliahq/gelia/pkg/db"
	"go.uber.org/zap"
)

type fixture struct {
	identity domain.Service
	tenants  tenantdomain.Service
	tenant   tenantdomain.Tenant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&tenantdomain.Tenant{}, &domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	plans, err := config.NewPlansHolder()
	if err != nil {
		t.Fatalf("plans holder: %v", err)
	}
	tokens, err := token.New("identity-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	tenants := tenantservice.New(tenantservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  tenantrepo.Provide(),
		Plans: plans,
	})
	identity, err := New(Params{
		DB:      conn,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    repository.Provide(),
		Tenants: tenants,
		Tokens:  tokens,
	})
	if err != nil {
		t.Fatalf("identity service: %v", err)
	}

	tenant, err := tenants.Create(context.Background(), tenantdomain.CreateTenantRequest{
		Name:      "Acme",
		Subdomain: "acme",
	})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	return &fixture{identity: identity, tenants: tenants, tenant: tenant}
}

func (f *fixture) register(t *testing.T, email, pass string) *domain.User {
	t.Helper()
	user, err := f.identity.Register(context.Background(), domain.RegisterRequest{
		TenantID: f.tenant.ID,
		Email:    email,
		Password: pass,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestRegisterDefaults(t *testing.T) {
	f := newFixture(t)

	user := f.register(t, "Alice@Example.COM", "a long password")
	if user.Email != "alice@example.com" {
		t.Fatalf("email = %q", user.Email)
	}
	if user.Username != "alice" {
		t.Fatalf("username = %q", user.Username)
	}
	if user.Role != "user" {
		t.Fatalf("role = %q", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("expected new user active")
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.identity.Register(ctx, domain.RegisterRequest{
		TenantID: snowflake.ID(424242),
		Email:    "alice@example.com",
		Password: "a long password",
	})
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}

	_, err = f.identity.Register(ctx, domain.RegisterRequest{
		TenantID: f.tenant.ID,
		Email:    "not-an-email",
		Password: "a long password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad email, got %v", err)
	}

	_, err = f.identity.Register(ctx, domain.RegisterRequest{
		TenantID: f.tenant.ID,
		Email:    "alice@example.com",
		Password: "short",
	})
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "a long password")

	_, err := f.identity.Register(context.Background(), domain.RegisterRequest{
		TenantID: f.tenant.ID,
		Email:    "ALICE@example.com",
		Password: "another password",
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegisterSameEmailDifferentTenants(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "a long password")

	other, err := f.tenants.Create(context.Background(), tenantdomain.CreateTenantRequest{
		Name:      "Globex",
		Subdomain: "globex",
	})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	// Email uniqueness is per tenant, not global.
	_, err = f.identity.Register(context.Background(), domain.RegisterRequest{
		TenantID: other.ID,
		Email:    "alice@example.com",
		Password: "a long password",
	})
	if err != nil {
		t.Fatalf("register under second tenant: %v", err)
	}
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	f := newFixture(t)

	const attempts = 4
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.identity.Register(context.Background(), domain.RegisterRequest{
				TenantID: f.tenant.ID,
				Email:    "race@example.com",
				Password: "a long password",
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrDuplicateEmail):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one registration to win, got %d", succeeded)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "alice@example.com", "a long password")

	result, err := f.identity.Login(context.Background(), domain.LoginRequest{
		Subdomain: "acme",
		Email:     "alice@example.com",
		Password:  "a long password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.ExpiresAt.Before(time.Now()) {
		t.Fatalf("token already expired at %v", result.ExpiresAt)
	}
	if result.TenantInfo.ID != f.tenant.ID.String() {
		t.Fatalf("tenant info id = %q", result.TenantInfo.ID)
	}
	if result.User.LastLogin == nil {
		t.Fatalf("expected last_login set")
	}

	principal, err := f.identity.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.TenantID != f.tenant.ID || principal.UserID != user.ID {
		t.Fatalf("principal = %+v", principal)
	}
}

func TestLoginByTenantID(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "a long password")

	if _, err := f.identity.Login(context.Background(), domain.LoginRequest{
		TenantID: f.tenant.ID,
		Email:    "alice@example.com",
		Password: "a long password",
	}); err != nil {
		t.Fatalf("login by tenant id: %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "a long password")
	ctx := context.Background()

	_, unknownErr := f.identity.Login(ctx, domain.LoginRequest{
		Subdomain: "acme",
		Email:     "nobody@example.com",
		Password:  "a long password",
	})
	_, wrongErr := f.identity.Login(ctx, domain.LoginRequest{
		Subdomain: "acme",
		Email:     "alice@example.com",
		Password:  "not the password",
	})

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("errors differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginWrongTenantScope(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice@example.com", "a long password")

	other, err := f.tenants.Create(context.Background(), tenantdomain.CreateTenantRequest{
		Name:      "Globex",
		Subdomain: "globex",
	})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	_ = other

	// Valid credentials against the wrong tenant must not resolve.
	_, err = f.identity.Login(context.Background(), domain.LoginRequest{
		Subdomain: "globex",
		Email:     "alice@example.com",
		Password:  "a long password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginInactiveAccountAndTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice@example.com", "a long password")

	// Password is checked before the active flags, so a wrong password
	// against an inactive account still reads as invalid credentials.
	if err := f.tenants.SetActive(ctx, f.tenant.ID, false); err != nil {
		t.Fatalf("deactivate tenant: %v", err)
	}
	_, err := f.identity.Login(ctx, domain.LoginRequest{
		Subdomain: "acme",
		Email:     "alice@example.com",
		Password:  "a long password",
	})
	if !errors.Is(err, domain.ErrTenantInactive) {
		t.Fatalf("expected ErrTenantInactive, got %v", err)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := f.identity.Authenticate(ctx, raw); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("Authenticate(%q): expected ErrUnauthorized, got %v", raw, err)
		}
	}

	otherTokens, err := token.New("a different secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	forged, err := otherTokens.Issue(token.Claims{Subject: "mallory", TenantID: f.tenant.ID})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := f.identity.Authenticate(ctx, forged); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for forged token, got %v", err)
	}
}
