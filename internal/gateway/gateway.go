// Package gateway is the single data-access chokepoint for tenant-owned
// rows. Every read predicate and every written row gets the tenant id of
// the request principal injected here, so no caller can reach another
// tenant's data regardless of what identifiers or payload fields the
// client supplied.
package gateway

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUnauthorized is returned when no principal is attached to the
	// context. The gateway refuses to run unscoped queries.
	ErrUnauthorized = errors.New("gateway: no authenticated principal")
	// ErrNotFound covers both genuinely missing rows and rows owned by
	// another tenant; the two cases are indistinguishable to callers.
	ErrNotFound = errors.New("gateway: record not found")
	// ErrForbidden is returned for writes that require the admin role.
	ErrForbidden = errors.New("gateway: operation requires admin role")
)

// TenantScoped is implemented by every model the gateway manages.
type TenantScoped interface {
	TenantRef() snowflake.ID
	SetTenantRef(id snowflake.ID)
}

// scoped constrains PT to be a pointer to T that carries tenant ownership.
type scoped[T any] interface {
	*T
	TenantScoped
}

// Query narrows a List call. Filters are ANDed equality conditions on
// column names; the tenant predicate is always added on top of them.
type Query struct {
	Pagination pagination.Pagination
	Filters    map[string]any
	OrderBy    string
}

// Store mediates all access to one tenant-owned table.
type Store[T any, PT scoped[T]] struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStore builds a store for one model type.
func NewStore[T any, PT scoped[T]](gdb *gorm.DB, log *zap.Logger) *Store[T, PT] {
	var zero T
	return &Store[T, PT]{
		db:  gdb,
		log: log.Named("gateway").With(zap.String("model", modelName(zero))),
	}
}

func requirePrincipal(ctx context.Context) (tenantcontext.Principal, error) {
	p, ok := tenantcontext.PrincipalFromContext(ctx)
	if !ok {
		return tenantcontext.Principal{}, ErrUnauthorized
	}
	return p, nil
}

func (s *Store[T, PT]) principal(ctx context.Context) (tenantcontext.Principal, error) {
	return requirePrincipal(ctx)
}

// WithDB returns a copy of the store bound to the given handle, so
// multi-row writes can run inside one database transaction without
// leaving the gateway's scoping.
func (s *Store[T, PT]) WithDB(gdb *gorm.DB) *Store[T, PT] {
	return &Store[T, PT]{db: gdb, log: s.log}
}

// List returns the principal's rows, never another tenant's, regardless
// of the filters supplied.
func (s *Store[T, PT]) List(ctx context.Context, q Query) ([]T, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}

	page := q.Pagination.Normalize()
	tx := s.db.WithContext(ctx).
		Model(new(T)).
		Where("tenant_id = ?", p.TenantID)

	for column, value := range q.Filters {
		if column == "tenant_id" {
			continue
		}
		tx = tx.Where(map[string]any{column: value})
	}
	if q.OrderBy != "" {
		tx = tx.Order(q.OrderBy)
	}

	var rows []T
	if err := tx.Offset(page.Skip).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Count returns the principal's row count for the given filters.
func (s *Store[T, PT]) Count(ctx context.Context, filters map[string]any) (int64, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return 0, err
	}

	tx := s.db.WithContext(ctx).
		Model(new(T)).
		Where("tenant_id = ?", p.TenantID)
	for column, value := range filters {
		if column == "tenant_id" {
			continue
		}
		tx = tx.Where(map[string]any{column: value})
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumInt returns the tenant-scoped sum of a column expression, zero
// when no rows match.
func (s *Store[T, PT]) SumInt(ctx context.Context, expr string, filters map[string]any) (int64, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return 0, err
	}

	tx := s.db.WithContext(ctx).
		Model(new(T)).
		Select("COALESCE(SUM("+expr+"), 0)").
		Where("tenant_id = ?", p.TenantID)
	for column, value := range filters {
		if column == "tenant_id" {
			continue
		}
		tx = tx.Where(map[string]any{column: value})
	}

	var sum int64
	if err := tx.Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// Get fetches one row by id. The row's ownership is re-checked after the
// read; a row belonging to another tenant is reported as not found.
func (s *Store[T, PT]) Get(ctx context.Context, id snowflake.ID) (*T, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate fetches one row by id holding a row lock until the
// surrounding transaction ends, so a read-modify-write on the row cannot
// lose a concurrent update. Only meaningful on a transaction-bound
// store; sqlite serializes writers on its own and rejects FOR UPDATE,
// so the lock clause is skipped there.
func (s *Store[T, PT]) GetForUpdate(ctx context.Context, id snowflake.ID) (*T, error) {
	return s.get(ctx, id, true)
}

func (s *Store[T, PT]) get(ctx context.Context, id snowflake.ID, forUpdate bool) (*T, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx)
	if forUpdate && s.db.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row T
	err = tx.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if PT(&row).TenantRef() != p.TenantID {
		s.log.Warn("cross-tenant access rejected",
			zap.String("tenant_id", p.TenantID.String()),
			zap.String("record_id", id.String()),
		)
		return nil, ErrNotFound
	}
	return &row, nil
}

// Create inserts a row owned by the principal's tenant. Any tenant id
// already present on the row is overwritten.
func (s *Store[T, PT]) Create(ctx context.Context, row PT) error {
	p, err := s.principal(ctx)
	if err != nil {
		return err
	}

	row.SetTenantRef(p.TenantID)
	return s.db.WithContext(ctx).Create(row).Error
}

// Updates applies the given fields to the principal's row and returns
// the updated row. The tenant id cannot be changed through this path.
func (s *Store[T, PT]) Updates(ctx context.Context, id snowflake.ID, fields map[string]any) (*T, error) {
	p, err := s.principal(ctx)
	if err != nil {
		return nil, err
	}

	// Strip the tenant column on a copy; the caller's map stays intact.
	updates := make(map[string]any, len(fields))
	for column, value := range fields {
		if column == "tenant_id" {
			continue
		}
		updates[column] = value
	}

	res := s.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND tenant_id = ?", id, p.TenantID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the principal's row. Deleting a missing or foreign row
// reports not found.
func (s *Store[T, PT]) Delete(ctx context.Context, id snowflake.ID) error {
	p, err := s.principal(ctx)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, p.TenantID).
		Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func modelName(v any) string {
	type named interface{ TableName() string }
	if n, ok := v.(named); ok {
		return n.TableName()
	}
	return "unknown"
}
