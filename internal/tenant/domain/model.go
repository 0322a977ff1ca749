// Package domain contains core types for the tenant directory.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Tenant is an isolated customer organization, the unit of data
// partitioning. Tenants are never hard-deleted; deactivation is a soft
// disable via IsActive.
type Tenant struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	Domain       string            `gorm:"type:text" json:"domain,omitempty"`
	Subdomain    string            `gorm:"type:text;not null;uniqueIndex" json:"subdomain"`
	Plan         string            `gorm:"type:text;not null;default:starter" json:"plan"`
	MaxUsers     int               `gorm:"not null;default:10" json:"max_users"`
	MaxStorageMB int               `gorm:"column:max_storage_mb;not null;default:1024" json:"max_storage_mb"`
	IsActive     bool              `gorm:"not null;default:true" json:"is_active"`
	Settings     datatypes.JSONMap `gorm:"not null;default:'{}'" json:"settings,omitempty"`
	BillingInfo  datatypes.JSONMap `gorm:"not null;default:'{}'" json:"billing_info,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Tenant) TableName() string { return "tenants" }

// Info is the subset of tenant fields returned alongside auth responses.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Plan string `json:"plan"`
}

// InfoOf projects a tenant into its auth-response shape.
func InfoOf(t Tenant) Info {
	return Info{
		ID:   t.ID.String(),
		Name: t.Name,
		Plan: t.Plan,
	}
}
