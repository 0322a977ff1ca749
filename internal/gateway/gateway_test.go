package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/geliahq/gelia/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type widget struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TenantID snowflake.ID `gorm:"column:tenant_id;not null;index"`
	Name     string       `gorm:"type:text"`
	Status   string       `gorm:"type:text"`
	Qty      int64        `gorm:"not null;default:0"`
}

func (widget) TableName() string { return "widgets" }

func (w *widget) TenantRef() snowflake.ID      { return w.TenantID }
func (w *widget) SetTenantRef(id snowflake.ID) { w.TenantID = id }

type catalogRow struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text"`
}

func (catalogRow) TableName() string { return "catalog_rows" }

func newTestStore(t *testing.T) (*Store[widget, *widget], *gorm.DB, *snowflake.Node) {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&widget{}, &catalogRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewStore[widget](conn, zap.NewNop()), conn, node
}

func principalCtx(tenantID snowflake.ID, role string) context.Context {
	return tenantcontext.WithPrincipal(context.Background(), tenantcontext.Principal{
		UserID:   snowflake.ID(1),
		TenantID: tenantID,
		Subject:  "tester",
		Role:     role,
	})
}

func TestStoreRequiresPrincipal(t *testing.T) {
	store, _, node := newTestStore(t)
	ctx := context.Background()

	if _, err := store.List(ctx, Query{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("List: expected ErrUnauthorized, got %v", err)
	}
	if _, err := store.Get(ctx, node.Generate()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Get: expected ErrUnauthorized, got %v", err)
	}
	if err := store.Create(ctx, &widget{ID: node.Generate()}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Create: expected ErrUnauthorized, got %v", err)
	}
	if _, err := store.Updates(ctx, node.Generate(), map[string]any{"name": "x"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Updates: expected ErrUnauthorized, got %v", err)
	}
	if err := store.Delete(ctx, node.Generate()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Delete: expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateOverridesClientTenant(t *testing.T) {
	store, _, node := newTestStore(t)
	tenantA := node.Generate()
	tenantB := node.Generate()

	// The row claims to belong to tenant B; the principal is tenant A.
	row := &widget{ID: node.Generate(), TenantID: tenantB, Name: "smuggled"}
	if err := store.Create(principalCtx(tenantA, "user"), row); err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.TenantID != tenantA {
		t.Fatalf("tenant id = %v, want %v", row.TenantID, tenantA)
	}

	rows, err := store.List(principalCtx(tenantB, "user"), Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows for tenant B, got %d", len(rows))
	}
}

func TestListIsTenantScoped(t *testing.T) {
	store, _, node := newTestStore(t)
	tenantA := node.Generate()
	tenantB := node.Generate()

	for i := 0; i < 3; i++ {
		if err := store.Create(principalCtx(tenantA, "user"), &widget{ID: node.Generate(), Name: "a"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := store.Create(principalCtx(tenantB, "user"), &widget{ID: node.Generate(), Name: "b"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := store.List(principalCtx(tenantA, "user"), Query{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows for tenant A, got %d", len(rows))
	}
	for _, row := range rows {
		if row.TenantID != tenantA {
			t.Fatalf("leaked row for tenant %v", row.TenantID)
		}
	}
}

func TestListIgnoresTenantFilterOverride(t *testing.T) {
	store, _, node := newTestStore(t)
	tenantA := node.Generate()
	tenantB := node.Generate()

	if err := store.Create(principalCtx(tenantB, "user"), &widget{ID: node.Generate(), Name: "b"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A client-supplied tenant_id filter must not widen the scope.
	rows, err := store.List(principalCtx(tenantA, "user"), Query{
		Filters: map[string]any{"tenant_id": tenantB},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected tenant filter override to be ignored, got %d rows", len(rows))
	}
}

func TestListFiltersWithSliceValue(t *testing.T) {
	store, _, node := newTestStore(t)
	tenant := node.Generate()
	ctx := principalCtx(tenant, "user")

	for _, status := range []string{"new", "reviewed", "dismissed"} {
		if err := store.Create(ctx, &widget{ID: node.Generate(), Status: status}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rows, err := store.List(ctx, Query{
		Filters: map[string]any{"status": []string{"new", "reviewed"}},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestGetCrossTenantIsNotFound(t *testing.T) {
	store, _, node := newTestStore(t)
	tenantA := node.Generate()
	tenantB := node.Generate()

	row := &widget{ID: node.Generate(), Name: "secret"}
	if err := store.Create(principalCtx(tenantA, "user"), row); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.Get(principalCtx(tenantB, "user"), row.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign row, got %v", err)
	}

	got, err := store.Get(principalCtx(tenantA, "user"), row.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "secret" {
		t.Fatalf("name = %q", got.Name)
	}
}

func TestUpdatesCannotMoveTenants(t *testing.T) {
	store, _, node := newTestStore(t)
	tenantA := node.Generate()
	tenantB := node.Generate()
	ctx := principalCtx(tenantA, "user")

	row := &widget{ID: node.Generate(), Name: "before"}
	if err := store.Create(ctx, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := store.Updates(ctx, row.ID, map[string]any{
		"name":      "after",
		"tenant_id": tenantB,
	})
	if err != nil {
		t.Fatalf("updates: %v", err)
	}
	if updated.Name != "after" {
		t.Fatalf("name = %q", updated.Name)
	}
	if updated.TenantID != tenantA {
		t.Fatalf("tenant id changed to %v", updated.TenantID)
	}

	// Updating a foreign row reports not found.
	if _, err := store.Updates(principalCtx(tenantB, "user"), row.ID, map[string]any{"name": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatesLeavesCallerFieldsIntact(t *testing.T) {
	store, _, node := newTestStore(t)
	tenant := node.Generate()
	ctx := principalCtx(tenant, "user")

	row := &widget{ID: node.Generate(), Name: "before"}
	if err := store.Create(ctx, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	fields := map[string]any{
		"name":      "after",
		"tenant_id": node.Generate(),
	}
	if _, err := store.Updates(ctx, row.ID, fields); err != nil {
		t.Fatalf("updates: %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("caller map mutated: %v", fields)
	}
	if _, ok := fields["tenant_id"]; !ok {
		t.Fatalf("tenant_id removed from caller map")
	}
}

func TestGetForUpdateIsTenantScoped(t *testing.T) {
	store, _, node := newTestStore(t)
	tenantA := node.Generate()
	tenantB := node.Generate()
	ctx := principalCtx(tenantA, "user")

	row := &widget{ID: node.Generate(), Name: "locked"}
	if err := store.Create(ctx, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetForUpdate(ctx, row.ID)
	if err != nil {
		t.Fatalf("get for update: %v", err)
	}
	if got.Name != "locked" {
		t.Fatalf("name = %q", got.Name)
	}

	if _, err := store.GetForUpdate(principalCtx(tenantB, "user"), row.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign row, got %v", err)
	}
	if _, err := store.GetForUpdate(context.Background(), row.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDeleteIsTenantScoped(t *testing.T) {
	store, _, node := newTestStore(t)
	tenantA := node.Generate()
	tenantB := node.Generate()
	ctx := principalCtx(tenantA, "user")

	row := &widget{ID: node.Generate()}
	if err := store.Create(ctx, row); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Delete(principalCtx(tenantB, "user"), row.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := store.Delete(ctx, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, row.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated delete, got %v", err)
	}
}

func TestCountAndSumInt(t *testing.T) {
	store, _, node := newTestStore(t)
	tenant := node.Generate()
	other := node.Generate()
	ctx := principalCtx(tenant, "user")

	for _, qty := range []int64{10, 20, 30} {
		if err := store.Create(ctx, &widget{ID: node.Generate(), Qty: qty}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := store.Create(principalCtx(other, "user"), &widget{ID: node.Generate(), Qty: 1000}); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := store.Count(ctx, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d", count)
	}

	sum, err := store.SumInt(ctx, "qty", nil)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 60 {
		t.Fatalf("sum = %d, want 60", sum)
	}

	// No matching rows sums to zero, not an error.
	sum, err = store.SumInt(ctx, "qty", map[string]any{"status": "missing"})
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 0 {
		t.Fatalf("sum = %d, want 0", sum)
	}
}

func TestGlobalStoreSharedReadsAdminWrites(t *testing.T) {
	_, conn, node := newTestStore(t)
	store := NewGlobalStore[catalogRow](conn, zap.NewNop())
	tenantA := node.Generate()
	tenantB := node.Generate()

	admin := principalCtx(tenantA, tenantcontext.RoleAdmin)
	member := principalCtx(tenantB, "user")

	if err := store.Create(member, &catalogRow{ID: node.Generate(), Name: "denied"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin create, got %v", err)
	}

	row := &catalogRow{ID: node.Generate(), Name: "copper"}
	if err := store.Create(admin, row); err != nil {
		t.Fatalf("admin create: %v", err)
	}

	// Reads are identical regardless of the caller's tenant.
	for _, ctx := range []context.Context{admin, member} {
		rows, err := store.List(ctx, Query{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(rows) != 1 || rows[0].Name != "copper" {
			t.Fatalf("unexpected rows: %+v", rows)
		}
	}

	if _, err := store.List(context.Background(), Query{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without principal, got %v", err)
	}

	if _, err := store.Updates(member, row.ID, map[string]any{"name": "x"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin update, got %v", err)
	}
	if err := store.Delete(member, row.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin delete, got %v", err)
	}
	if err := store.Delete(admin, row.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}
