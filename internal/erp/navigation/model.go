// Package navigation holds the tenant-configurable sidebar items.
package navigation

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Item is one navigation entry. DisplayOrder controls position in the
// UI; lower values sort first.
type Item struct {
	ID           snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID     snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name         string            `gorm:"type:text;not null" json:"name"`
	Href         string            `gorm:"type:text;not null" json:"href"`
	Icon         string            `gorm:"type:text" json:"icon,omitempty"`
	Description  string            `gorm:"type:text" json:"description,omitempty"`
	Visible      bool              `gorm:"not null;default:true" json:"visible"`
	DisplayOrder int               `gorm:"column:display_order;not null;default:0" json:"order"`
	Badge        datatypes.JSONMap `gorm:"not null;default:'{}'" json:"badge,omitempty"`
	Meta         datatypes.JSONMap `gorm:"column:meta;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Item) TableName() string { return "navigation_items" }

func (i *Item) TenantRef() snowflake.ID      { return i.TenantID }
func (i *Item) SetTenantRef(id snowflake.ID) { i.TenantID = id }
