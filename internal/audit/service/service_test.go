package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	"github.com/geliahq/gelia/internal/audit/repository"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/geliahq/gelia/pkg/db"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (auditdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&auditdomain.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	svc := NewService(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, conn, node
}

func principalCtx(tenantID, userID snowflake.ID) context.Context {
	return tenantcontext.WithPrincipal(context.Background(), tenantcontext.Principal{
		UserID:   userID,
		TenantID: tenantID,
		Subject:  "auditor",
		Role:     "user",
	})
}

func TestRecordDefaultsFromPrincipal(t *testing.T) {
	svc, conn, node := newTestService(t)
	tenant := node.Generate()
	user := node.Generate()
	ctx := principalCtx(tenant, user)

	if err := svc.Record(ctx, auditdomain.Entry{Action: "user.login"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	var row auditdomain.AuditLog
	if err := conn.First(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if row.TenantID != tenant {
		t.Fatalf("tenant = %v, want %v", row.TenantID, tenant)
	}
	if row.ActorID == nil || *row.ActorID != user {
		t.Fatalf("actor = %v, want %v", row.ActorID, user)
	}
	if row.ActorType != "user" || row.TargetType != "unknown" {
		t.Fatalf("defaults not applied: %+v", row)
	}
}

func TestRecordValidation(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := principalCtx(node.Generate(), node.Generate())

	if err := svc.Record(ctx, auditdomain.Entry{Action: "  "}); !errors.Is(err, auditdomain.ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	// No principal and no explicit tenant on the entry.
	if err := svc.Record(context.Background(), auditdomain.Entry{Action: "user.login"}); !errors.Is(err, auditdomain.ErrInvalidTenant) {
		t.Fatalf("expected ErrInvalidTenant, got %v", err)
	}
}

func TestRecordExplicitTenantWithoutPrincipal(t *testing.T) {
	svc, conn, node := newTestService(t)
	tenant := node.Generate()

	err := svc.Record(context.Background(), auditdomain.Entry{
		TenantID:  tenant,
		ActorType: "system",
		Action:    "tenant.created",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	var row auditdomain.AuditLog
	if err := conn.First(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if row.TenantID != tenant || row.ActorID != nil || row.ActorType != "system" {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestRecordMasksMetadata(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := principalCtx(node.Generate(), node.Generate())

	err := svc.Record(ctx, auditdomain.Entry{
		Action: "user.registered",
		Metadata: map[string]any{
			"email":    "alice@example.com",
			"password": "hunter2hunter2",
		},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	var row auditdomain.AuditLog
	if err := conn.First(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if row.Metadata["password"] != "****ter2" {
		t.Fatalf("password not masked: %v", row.Metadata["password"])
	}
	if row.Metadata["email"] != "alice@example.com" {
		t.Fatalf("email rewritten: %v", row.Metadata["email"])
	}
}

func TestListIsTenantScopedNewestFirst(t *testing.T) {
	svc, _, node := newTestService(t)
	tenant := node.Generate()
	other := node.Generate()
	ctx := principalCtx(tenant, node.Generate())

	actions := []string{"user.login", "account.created", "user.login"}
	for _, action := range actions {
		if err := svc.Record(ctx, auditdomain.Entry{Action: action}); err != nil {
			t.Fatalf("record %s: %v", action, err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := svc.Record(principalCtx(other, node.Generate()), auditdomain.Entry{Action: "user.login"}); err != nil {
		t.Fatalf("record other tenant: %v", err)
	}

	logs, err := svc.List(ctx, auditdomain.ListRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].CreatedAt.After(logs[i-1].CreatedAt) {
			t.Fatalf("entries not newest first")
		}
	}
	for _, row := range logs {
		if row.TenantID != tenant {
			t.Fatalf("foreign tenant entry leaked: %+v", row)
		}
	}

	logins, err := svc.List(ctx, auditdomain.ListRequest{Action: "user.login"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(logins) != 2 {
		t.Fatalf("expected 2 login entries, got %d", len(logins))
	}
}

func TestListTimeRange(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := principalCtx(node.Generate(), node.Generate())

	if err := svc.Record(ctx, auditdomain.Entry{Action: "user.login"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	logs, err := svc.List(ctx, auditdomain.ListRequest{StartAt: &past, EndAt: &future})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 entry in range, got %d", len(logs))
	}

	logs, err = svc.List(ctx, auditdomain.ListRequest{EndAt: &past})
	if err != nil {
		t.Fatalf("list before range: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected no entries before range, got %d", len(logs))
	}

	if _, err := svc.List(ctx, auditdomain.ListRequest{StartAt: &future, EndAt: &past}); !errors.Is(err, auditdomain.ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestListRequiresPrincipal(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.List(context.Background(), auditdomain.ListRequest{}); !errors.Is(err, auditdomain.ErrInvalidTenant) {
		t.Fatalf("expected ErrInvalidTenant, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := principalCtx(node.Generate(), node.Generate())

	for i := 0; i < 5; i++ {
		if err := svc.Record(ctx, auditdomain.Entry{Action: "ping"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	logs, err := svc.List(ctx, auditdomain.ListRequest{
		Pagination: pagination.Pagination{Skip: 2, Limit: 2},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logs))
	}
}
