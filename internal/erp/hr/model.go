// Package hr holds the employee registry.
package hr

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Employee is a tenant-scoped personnel record. Salary is in cents.
type Employee struct {
	ID                  snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID            snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	EmployeeNumber      string            `gorm:"type:text;not null;uniqueIndex" json:"employee_number"`
	UserID              *snowflake.ID     `gorm:"column:user_id" json:"user_id,omitempty"`
	FirstName           string            `gorm:"type:text;not null" json:"first_name"`
	LastName            string            `gorm:"type:text;not null" json:"last_name"`
	Email               string            `gorm:"type:text" json:"email,omitempty"`
	Phone               string            `gorm:"type:text" json:"phone,omitempty"`
	Department          string            `gorm:"type:text" json:"department,omitempty"`
	Position            string            `gorm:"type:text" json:"position,omitempty"`
	ManagerID           *snowflake.ID     `gorm:"column:manager_id" json:"manager_id,omitempty"`
	HireDate            time.Time         `gorm:"not null" json:"hire_date"`
	TerminationDate     *time.Time        `json:"termination_date,omitempty"`
	Salary              int64             `json:"salary,omitempty"`
	Currency            string            `gorm:"type:text;not null;default:USD" json:"currency"`
	EmploymentStatus    string            `gorm:"type:text;not null;default:active" json:"employment_status"`
	Skills              datatypes.JSON    `json:"skills,omitempty"`
	PerformanceMetrics  datatypes.JSONMap `json:"performance_metrics,omitempty"`
	AIProductivityScore float64           `gorm:"column:ai_productivity_score" json:"ai_productivity_score,omitempty"`
	CreatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Employee) TableName() string { return "employees" }

func (e *Employee) TenantRef() snowflake.ID      { return e.TenantID }
func (e *Employee) SetTenantRef(id snowflake.ID) { e.TenantID = id }
