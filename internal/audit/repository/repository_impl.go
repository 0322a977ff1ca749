package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req domain.ListRequest) ([]domain.AuditLog, error) {
	page := req.Pagination.Normalize()
	stmt := db.WithContext(ctx).Model(&domain.AuditLog{}).
		Where("tenant_id = ?", tenantID)

	if action := strings.TrimSpace(req.Action); action != "" {
		stmt = stmt.Where("action = ?", action)
	}
	if targetType := strings.TrimSpace(req.TargetType); targetType != "" {
		stmt = stmt.Where("target_type = ?", targetType)
	}
	if req.StartAt != nil {
		stmt = stmt.Where("created_at >= ?", req.StartAt.UTC())
	}
	if req.EndAt != nil {
		stmt = stmt.Where("created_at <= ?", req.EndAt.UTC())
	}

	var logs []domain.AuditLog
	err := stmt.Order("created_at DESC, id DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
