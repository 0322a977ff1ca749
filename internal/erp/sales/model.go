// Package sales holds customers and the opportunity pipeline.
package sales

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Customer is a tenant-scoped account record. Monetary fields are in
// cents.
type Customer struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID           snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	CustomerCode       string       `gorm:"type:text;not null;uniqueIndex" json:"customer_code"`
	CompanyName        string       `gorm:"type:text" json:"company_name,omitempty"`
	Industry           string       `gorm:"type:text" json:"industry,omitempty"`
	ContactPerson      string       `gorm:"type:text" json:"contact_person,omitempty"`
	Email              string       `gorm:"type:text" json:"email,omitempty"`
	Phone              string       `gorm:"type:text" json:"phone,omitempty"`
	Address            string       `gorm:"type:text" json:"address,omitempty"`
	City               string       `gorm:"type:text" json:"city,omitempty"`
	Country            string       `gorm:"type:text" json:"country,omitempty"`
	TaxNumber          string       `gorm:"type:text" json:"tax_number,omitempty"`
	CreditLimit        int64        `gorm:"not null;default:0" json:"credit_limit"`
	PaymentTerms       string       `gorm:"type:text" json:"payment_terms,omitempty"`
	CustomerTier       string       `gorm:"type:text;not null;default:standard" json:"customer_tier"`
	AIRiskScore        float64      `gorm:"column:ai_risk_score" json:"ai_risk_score,omitempty"`
	AIChurnProbability float64      `gorm:"column:ai_churn_probability" json:"ai_churn_probability,omitempty"`
	TotalRevenue       int64        `gorm:"not null;default:0" json:"total_revenue"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

func (c *Customer) TenantRef() snowflake.ID      { return c.TenantID }
func (c *Customer) SetTenantRef(id snowflake.ID) { c.TenantID = id }

// Opportunity is one deal in the sales pipeline. ExpectedValue is in
// cents; probabilities are fractions in [0, 1].
type Opportunity struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID          snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	OpportunityName   string            `gorm:"type:text;not null" json:"opportunity_name"`
	CustomerID        *snowflake.ID     `gorm:"column:customer_id" json:"customer_id,omitempty"`
	AccountManagerID  *snowflake.ID     `gorm:"column:account_manager_id" json:"account_manager_id,omitempty"`
	Stage             string            `gorm:"type:text;not null" json:"stage"`
	Probability       float64           `gorm:"not null;default:0" json:"probability"`
	ExpectedValue     int64             `json:"expected_value,omitempty"`
	Currency          string            `gorm:"type:text;not null;default:USD" json:"currency"`
	ExpectedCloseDate *time.Time        `json:"expected_close_date,omitempty"`
	Description       string            `gorm:"type:text" json:"description,omitempty"`
	Competitors       datatypes.JSON    `json:"competitors,omitempty"`
	AIWinProbability  float64           `gorm:"column:ai_win_probability" json:"ai_win_probability,omitempty"`
	AINextSteps       datatypes.JSONMap `gorm:"column:ai_next_steps" json:"ai_next_steps,omitempty"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Opportunity) TableName() string { return "sales_opportunities" }

func (o *Opportunity) TenantRef() snowflake.ID      { return o.TenantID }
func (o *Opportunity) SetTenantRef(id snowflake.ID) { o.TenantID = id }
