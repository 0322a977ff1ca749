// Package domain contains core types for the identity resolver.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// User is a tenant-scoped account. TenantID is immutable after creation
// and email is unique within a tenant, enforced by a composite unique
// index so concurrent registrations cannot both succeed.
type User struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID     snowflake.ID      `gorm:"column:tenant_id;not null;uniqueIndex:idx_users_tenant_email;index" json:"tenant_id"`
	Email        string            `gorm:"type:text;not null;uniqueIndex:idx_users_tenant_email" json:"email"`
	Username     string            `gorm:"type:text;not null" json:"username"`
	PasswordHash string            `gorm:"type:text;not null" json:"-"`
	FirstName    string            `gorm:"type:text" json:"first_name,omitempty"`
	LastName     string            `gorm:"type:text" json:"last_name,omitempty"`
	Role         string            `gorm:"type:text;not null;default:user" json:"role"`
	Department   string            `gorm:"type:text" json:"department,omitempty"`
	IsActive     bool              `gorm:"not null;default:true" json:"is_active"`
	LastLogin    *time.Time        `gorm:"column:last_login" json:"last_login,omitempty"`
	Preferences  datatypes.JSONMap `gorm:"not null;default:'{}'" json:"preferences,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
