// Package domain contains core types for the audit trail.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/pkg/db/pagination"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is one recorded action. Entries are tenant-scoped and
// append-only.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	ActorID    *snowflake.ID     `gorm:"column:actor_id" json:"actor_id,omitempty"`
	ActorType  string            `gorm:"type:text;not null;default:user" json:"actor_type"`
	Action     string            `gorm:"type:text;not null;index" json:"action"`
	TargetType string            `gorm:"type:text;not null" json:"target_type"`
	TargetID   string            `gorm:"type:text" json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"not null;default:'{}'" json:"metadata,omitempty"`
	IPAddress  string            `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent  string            `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// Entry is a request to record one action.
type Entry struct {
	TenantID   snowflake.ID
	ActorID    *snowflake.ID
	ActorType  string
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
	IPAddress  string
	UserAgent  string
}

// ListRequest narrows an audit listing.
type ListRequest struct {
	pagination.Pagination
	Action     string
	TargetType string
	StartAt    *time.Time
	EndAt      *time.Time
}

// Service records and lists audit entries.
type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListRequest) ([]AuditLog, error)
}

// Repository persists audit rows.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req ListRequest) ([]AuditLog, error)
}
