// Package reference holds shared market reference data. Rows are global:
// every tenant reads the same set, and only admins may write.
package reference

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// GlobalResource is one shared commodity or market reference row.
// CurrentPrice is in cents.
type GlobalResource struct {
	ID                 snowflake.ID      `gorm:"primaryKey" json:"id"`
	ResourceType       string            `gorm:"type:text;not null;index" json:"resource_type"`
	ResourceName       string            `gorm:"type:text;not null" json:"resource_name"`
	Region             string            `gorm:"type:text" json:"region,omitempty"`
	Country            string            `gorm:"type:text" json:"country,omitempty"`
	CurrentPrice       int64             `json:"current_price,omitempty"`
	Currency           string            `gorm:"type:text;not null;default:USD" json:"currency"`
	UnitOfMeasure      string            `gorm:"type:text" json:"unit_of_measure,omitempty"`
	AvailabilityStatus string            `gorm:"type:text" json:"availability_status,omitempty"`
	SupplierInfo       datatypes.JSONMap `gorm:"not null;default:'{}'" json:"supplier_info,omitempty"`
	MarketTrends       datatypes.JSONMap `gorm:"not null;default:'{}'" json:"market_trends,omitempty"`
	LastUpdated        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"last_updated"`
	CreatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (GlobalResource) TableName() string { return "global_resources" }
