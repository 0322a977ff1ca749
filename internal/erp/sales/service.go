package sales

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
	ErrCustomerNotFound    = errors.New("sales: customer not found")
	ErrOpportunityNotFound = errors.New("sales: opportunity not found")
	ErrInvalidOpportunity  = errors.New("sales: opportunity name and stage are required")
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service manages a tenant's customers and sales pipeline.
type Service struct {
	log           *zap.Logger
	genID         *snowflake.Node
	customers     *gateway.Store[Customer, *Customer]
	opportunities *gateway.Store[Opportunity, *Opportunity]
}

func New(p Params) *Service {
	return &Service{
		log:           p.Log.Named("sales.service"),
		genID:         p.GenID,
		customers:     gateway.NewStore[Customer](p.DB, p.Log),
		opportunities: gateway.NewStore[Opportunity](p.DB, p.Log),
	}
}

// CreateCustomerRequest carries the client-settable customer fields.
type CreateCustomerRequest struct {
	CompanyName   string `json:"company_name" binding:"required"`
	Industry      string `json:"industry"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Country       string `json:"country"`
	TaxNumber     string `json:"tax_number"`
	CreditLimit   int64  `json:"credit_limit"`
	PaymentTerms  string `json:"payment_terms"`
	CustomerTier  string `json:"customer_tier"`
}

func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	tier := strings.TrimSpace(req.CustomerTier)
	if tier == "" {
		tier = "standard"
	}

	id := s.genID.Generate()
	now := time.Now().UTC()
	customer := &Customer{
		ID:            id,
		CustomerCode:  fmt.Sprintf("CUST-%s", id),
		CompanyName:   strings.TrimSpace(req.CompanyName),
		Industry:      strings.TrimSpace(req.Industry),
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		City:          strings.TrimSpace(req.City),
		Country:       strings.TrimSpace(req.Country),
		TaxNumber:     strings.TrimSpace(req.TaxNumber),
		CreditLimit:   req.CreditLimit,
		PaymentTerms:  strings.TrimSpace(req.PaymentTerms),
		CustomerTier:  tier,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) ListCustomers(ctx context.Context, q gateway.Query) ([]Customer, error) {
	if q.OrderBy == "" {
		q.OrderBy = "company_name"
	}
	return s.customers.List(ctx, q)
}

func (s *Service) GetCustomer(ctx context.Context, id snowflake.ID) (*Customer, error) {
	customer, err := s.customers.Get(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	return customer, err
}

// CreateOpportunityRequest carries the client-settable pipeline fields.
type CreateOpportunityRequest struct {
	OpportunityName   string        `json:"opportunity_name" binding:"required"`
	CustomerID        *snowflake.ID `json:"customer_id"`
	Stage             string        `json:"stage" binding:"required"`
	Probability       float64       `json:"probability"`
	ExpectedValue     int64         `json:"expected_value"`
	Currency          string        `json:"currency"`
	ExpectedCloseDate *time.Time    `json:"expected_close_date"`
	Description       string        `json:"description"`
}

func (s *Service) CreateOpportunity(ctx context.Context, req CreateOpportunityRequest) (*Opportunity, error) {
	if strings.TrimSpace(req.OpportunityName) == "" || strings.TrimSpace(req.Stage) == "" {
		return nil, ErrInvalidOpportunity
	}

	// An opportunity may only reference a customer the same tenant owns.
	if req.CustomerID != nil {
		if _, err := s.GetCustomer(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	opportunity := &Opportunity{
		ID:                s.genID.Generate(),
		OpportunityName:   strings.TrimSpace(req.OpportunityName),
		CustomerID:        req.CustomerID,
		Stage:             strings.TrimSpace(req.Stage),
		Probability:       req.Probability,
		ExpectedValue:     req.ExpectedValue,
		Currency:          currency,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Description:       strings.TrimSpace(req.Description),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.opportunities.Create(ctx, opportunity); err != nil {
		return nil, err
	}
	return opportunity, nil
}

func (s *Service) ListOpportunities(ctx context.Context, q gateway.Query) ([]Opportunity, error) {
	if q.OrderBy == "" {
		q.OrderBy = "updated_at DESC"
	}
	return s.opportunities.List(ctx, q)
}

func (s *Service) GetOpportunity(ctx context.Context, id snowflake.ID) (*Opportunity, error) {
	opportunity, err := s.opportunities.Get(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrOpportunityNotFound
	}
	return opportunity, err
}
