package hr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/gateway"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmployeeNotFound = errors.New("hr: employee not found")
	ErrInvalidEmployee  = errors.New("hr: first and last name are required")
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service manages a tenant's employee records.
type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	employees *gateway.Store[Employee, *Employee]
}

func New(p Params) *Service {
	return &Service{
		log:       p.Log.Named("hr.service"),
		genID:     p.GenID,
		employees: gateway.NewStore[Employee](p.DB, p.Log),
	}
}

// CreateEmployeeRequest carries the client-settable employee fields.
type CreateEmployeeRequest struct {
	FirstName  string        `json:"first_name" binding:"required"`
	LastName   string        `json:"last_name" binding:"required"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	Department string        `json:"department"`
	Position   string        `json:"position"`
	ManagerID  *snowflake.ID `json:"manager_id"`
	HireDate   time.Time     `json:"hire_date"`
	Salary     int64         `json:"salary"`
	Currency   string        `json:"currency"`
}

func (s *Service) Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, ErrInvalidEmployee
	}

	hireDate := req.HireDate
	if hireDate.IsZero() {
		hireDate = time.Now().UTC()
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	id := s.genID.Generate()
	now := time.Now().UTC()
	employee := &Employee{
		ID:               id,
		EmployeeNumber:   fmt.Sprintf("EMP-%s", id),
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            strings.TrimSpace(req.Phone),
		Department:       strings.TrimSpace(req.Department),
		Position:         strings.TrimSpace(req.Position),
		ManagerID:        req.ManagerID,
		HireDate:         hireDate,
		Salary:           req.Salary,
		Currency:         currency,
		EmploymentStatus: "active",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *Service) List(ctx context.Context, q gateway.Query) ([]Employee, error) {
	if q.OrderBy == "" {
		q.OrderBy = "employee_number"
	}
	return s.employees.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*Employee, error) {
	employee, err := s.employees.Get(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	return employee, err
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, fields map[string]any) (*Employee, error) {
	fields["updated_at"] = time.Now().UTC()
	employee, err := s.employees.Updates(ctx, id, fields)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	return employee, err
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	err := s.employees.Delete(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	return err
}
