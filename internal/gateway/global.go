package gateway

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GlobalStore mediates access to shared reference tables. Reads are
// identical for every tenant and carry no tenant predicate; writes are
// restricted to the admin role.
type GlobalStore[T any] struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGlobalStore builds a store for one shared table.
func NewGlobalStore[T any](gdb *gorm.DB, log *zap.Logger) *GlobalStore[T] {
	var zero T
	return &GlobalStore[T]{
		db:  gdb,
		log: log.Named("gateway.global").With(zap.String("model", modelName(zero))),
	}
}

// List returns shared rows. Authentication is still required; the rows
// returned do not depend on which tenant asks.
func (s *GlobalStore[T]) List(ctx context.Context, q Query) ([]T, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	page := q.Pagination.Normalize()
	tx := s.db.WithContext(ctx).Model(new(T))
	for column, value := range q.Filters {
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

// Get fetches one shared row by id.
func (s *GlobalStore[T]) Get(ctx context.Context, id snowflake.ID) (*T, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	var row T
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Create inserts a shared row. Admin only.
func (s *GlobalStore[T]) Create(ctx context.Context, row *T) error {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Create(row).Error
}

// Updates applies fields to a shared row. Admin only.
func (s *GlobalStore[T]) Updates(ctx context.Context, id snowflake.ID, fields map[string]any) (*T, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}

	res := s.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes a shared row. Admin only.
func (s *GlobalStore[T]) Delete(ctx context.Context, id snowflake.ID) error {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	if !p.IsAdmin() {
		return ErrForbidden
	}

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
