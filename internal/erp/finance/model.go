// Package finance holds the chart of accounts and the transaction ledger.
package finance

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Account is one entry in a tenant's chart of accounts. Amounts are in
// cents.
type Account struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID        snowflake.ID  `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	AccountCode     string        `gorm:"type:text;not null" json:"account_code"`
	AccountName     string        `gorm:"type:text;not null" json:"account_name"`
	AccountType     string        `gorm:"type:text;not null" json:"account_type"`
	ParentAccountID *snowflake.ID `gorm:"column:parent_account_id" json:"parent_account_id,omitempty"`
	Balance         int64         `gorm:"not null;default:0" json:"balance"`
	IsActive        bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "chart_of_accounts" }

func (a *Account) TenantRef() snowflake.ID      { return a.TenantID }
func (a *Account) SetTenantRef(id snowflake.ID) { a.TenantID = id }

// Transaction is one ledger entry against an account. Exactly one of
// DebitAmount and CreditAmount is non-zero; amounts are in cents.
type Transaction struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID          snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	TransactionNumber string            `gorm:"type:text;not null;uniqueIndex" json:"transaction_number"`
	Date              time.Time         `gorm:"not null" json:"date"`
	AccountID         snowflake.ID      `gorm:"column:account_id;not null;index" json:"account_id"`
	Description       string            `gorm:"type:text" json:"description,omitempty"`
	DebitAmount       int64             `gorm:"not null;default:0" json:"debit_amount"`
	CreditAmount      int64             `gorm:"not null;default:0" json:"credit_amount"`
	BalanceAfter      int64             `json:"balance_after"`
	Category          string            `gorm:"type:text" json:"category,omitempty"`
	ReferenceNumber   string            `gorm:"type:text" json:"reference_number,omitempty"`
	Attachments       datatypes.JSON    `json:"attachments,omitempty"`
	CreatedBy         snowflake.ID      `gorm:"column:created_by" json:"created_by"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	AICategorization  datatypes.JSONMap `gorm:"column:ai_categorization" json:"ai_categorization,omitempty"`
	AIAnomalyScore    float64           `gorm:"column:ai_anomaly_score" json:"ai_anomaly_score,omitempty"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) TenantRef() snowflake.ID      { return t.TenantID }
func (t *Transaction) SetTenantRef(id snowflake.ID) { t.TenantID = id }
