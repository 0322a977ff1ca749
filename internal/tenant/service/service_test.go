package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/config"
	"github.com/geliahq/gelia/internal/tenant/domain"
	"github.com/geliahq/gelia/internal/tenant/repository"
	"github.com/geliahq/gelia/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Tenant{}); err != nil {
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
	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Plans: plans,
	})
}

func TestCreateDefaultsFromPlanCatalog(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{
		Name:      "Acme",
		Subdomain: "acme",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tenant.Plan != "starter" {
		t.Fatalf("plan = %q, want starter", tenant.Plan)
	}
	if tenant.MaxUsers != 10 || tenant.MaxStorageMB != 1024 {
		t.Fatalf("quota = %d users / %d MB", tenant.MaxUsers, tenant.MaxStorageMB)
	}
	if !tenant.IsActive {
		t.Fatalf("expected new tenant active")
	}
}

func TestCreateSluggedSubdomain(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tenant, err := svc.Create(ctx, domain.CreateTenantRequest{
		Name:      "Globex Corporation",
		Subdomain: "Globex Corp!",
		Plan:      "Professional",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tenant.Subdomain != "globex-corp" {
		t.Fatalf("subdomain = %q", tenant.Subdomain)
	}
	if tenant.Plan != "professional" {
		t.Fatalf("plan = %q", tenant.Plan)
	}
	if tenant.MaxUsers != 50 {
		t.Fatalf("max users = %d, want 50", tenant.MaxUsers)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.CreateTenantRequest{Subdomain: "acme"}); !errors.Is(err, domain.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestDuplicateSubdomain(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Other Acme", Subdomain: "acme"})
	if !errors.Is(err, domain.ErrDuplicateSubdomain) {
		t.Fatalf("expected ErrDuplicateSubdomain, got %v", err)
	}
}

func TestFindBySubdomainNormalizes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.FindBySubdomain(ctx, "  ACME  ")
	if err != nil {
		t.Fatalf("find by subdomain: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("found wrong tenant %v", found.ID)
	}

	if _, err := svc.FindBySubdomain(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetActive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateTenantRequest{Name: "Acme", Subdomain: "acme"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	// Inactive tenants still resolve; only authentication refuses them.
	found, err := svc.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if found.IsActive {
		t.Fatalf("expected tenant inactive")
	}

	if err := svc.SetActive(ctx, snowflake.ID(12345), true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
