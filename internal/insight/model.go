// Package insight stores and generates per-tenant business insights.
package insight

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Insight is one generated recommendation. ConfidenceScore is a
// fraction in [0, 1].
type Insight struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID        snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	InsightType     string            `gorm:"type:text;not null" json:"insight_type"`
	Title           string            `gorm:"type:text;not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description,omitempty"`
	ConfidenceScore float64           `json:"confidence_score"`
	ImpactLevel     string            `gorm:"type:text" json:"impact_level,omitempty"`
	ModuleAffected  string            `gorm:"type:text" json:"module_affected,omitempty"`
	Recommendations datatypes.JSON    `json:"recommendations,omitempty"`
	DataSource      datatypes.JSONMap `gorm:"column:data_source" json:"data_source,omitempty"`
	Status          string            `gorm:"type:text;not null;default:new;index" json:"status"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	ExpiresAt       *time.Time        `json:"expires_at,omitempty"`
}

// TableName sets the database table name.
func (Insight) TableName() string { return "ai_insights" }

func (i *Insight) TenantRef() snowflake.ID      { return i.TenantID }
func (i *Insight) SetTenantRef(id snowflake.ID) { i.TenantID = id }
