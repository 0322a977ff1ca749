// Package supplychain holds products and suppliers.
package supplychain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Product is a tenant-scoped catalog item. Prices are in cents; stock
// levels are whole units.
type Product struct {
	ID                    snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID              snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	ProductCode           string            `gorm:"type:text;not null;uniqueIndex" json:"product_code"`
	ProductName           string            `gorm:"type:text;not null" json:"product_name"`
	Category              string            `gorm:"type:text" json:"category,omitempty"`
	Description           string            `gorm:"type:text" json:"description,omitempty"`
	UnitCost              int64             `json:"unit_cost,omitempty"`
	SellingPrice          int64             `json:"selling_price,omitempty"`
	Currency              string            `gorm:"type:text;not null;default:USD" json:"currency"`
	CurrentStock          int64             `gorm:"not null;default:0" json:"current_stock"`
	MinStockLevel         int64             `json:"min_stock_level,omitempty"`
	MaxStockLevel         int64             `json:"max_stock_level,omitempty"`
	ReorderPoint          int64             `json:"reorder_point,omitempty"`
	SupplierID            *snowflake.ID     `gorm:"column:supplier_id" json:"supplier_id,omitempty"`
	AIDemandForecast      datatypes.JSONMap `gorm:"column:ai_demand_forecast" json:"ai_demand_forecast,omitempty"`
	AIOptimalReorderPoint int64             `gorm:"column:ai_optimal_reorder_point" json:"ai_optimal_reorder_point,omitempty"`
	CreatedAt             time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

func (p *Product) TenantRef() snowflake.ID      { return p.TenantID }
func (p *Product) SetTenantRef(id snowflake.ID) { p.TenantID = id }

// Supplier is a tenant-scoped vendor record.
type Supplier struct {
	ID                  snowflake.ID   `gorm:"primaryKey" json:"id"`
	TenantID            snowflake.ID   `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	SupplierCode        string         `gorm:"type:text;not null;uniqueIndex" json:"supplier_code"`
	CompanyName         string         `gorm:"type:text;not null" json:"company_name"`
	ContactPerson       string         `gorm:"type:text" json:"contact_person,omitempty"`
	Email               string         `gorm:"type:text" json:"email,omitempty"`
	Phone               string         `gorm:"type:text" json:"phone,omitempty"`
	Address             string         `gorm:"type:text" json:"address,omitempty"`
	Country             string         `gorm:"type:text" json:"country,omitempty"`
	PaymentTerms        string         `gorm:"type:text" json:"payment_terms,omitempty"`
	ReliabilityScore    float64        `gorm:"not null;default:5" json:"reliability_score"`
	AIPerformanceRating float64        `gorm:"column:ai_performance_rating" json:"ai_performance_rating,omitempty"`
	CertificationTypes  datatypes.JSON `json:"certification_types,omitempty"`
	CreatedAt           time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Supplier) TableName() string { return "suppliers" }

func (s *Supplier) TenantRef() snowflake.ID      { return s.TenantID }
func (s *Supplier) SetTenantRef(id snowflake.ID) { s.TenantID = id }
