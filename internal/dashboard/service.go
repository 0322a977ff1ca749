// Package dashboard aggregates per-tenant headline numbers.
package dashboard

import (
	"context"

	"github.com/geliahq/gelia/internal/erp/finance"
	"github.com/geliahq/gelia/internal/erp/sales"
	"github.com/geliahq/gelia/internal/erp/supplychain"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/internal/insight"
	identitydomain "github.com/geliahq/gelia/internal/identity/domain"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stats is the dashboard headline payload. Monetary figures are in
// cents; ProfitMargin is a percentage.
type Stats struct {
	TotalRevenue    int64   `json:"total_revenue"`
	TotalExpenses   int64   `json:"total_expenses"`
	TotalCustomers  int64   `json:"total_customers"`
	TotalOrders     int64   `json:"total_orders"`
	ActiveUsers     int64   `json:"active_users"`
	AIInsightsCount int64   `json:"ai_insights_count"`
	InventoryValue  int64   `json:"inventory_value"`
	ProfitMargin    float64 `json:"profit_margin"`
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Users    identitydomain.Repository
	Insights *insight.Service
}

// Service computes stats live from the tenant's rows; nothing is cached
// or precomputed.
type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	users        identitydomain.Repository
	insights     *insight.Service
	transactions *gateway.Store[finance.Transaction, *finance.Transaction]
	customers    *gateway.Store[sales.Customer, *sales.Customer]
	products     *gateway.Store[supplychain.Product, *supplychain.Product]
}

func New(p Params) *Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("dashboard.service"),
		users:        p.Users,
		insights:     p.Insights,
		transactions: gateway.NewStore[finance.Transaction](p.DB, p.Log),
		customers:    gateway.NewStore[sales.Customer](p.DB, p.Log),
		products:     gateway.NewStore[supplychain.Product](p.DB, p.Log),
	}
}

// Stats aggregates the tenant's dashboard numbers.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	principal, ok := tenantcontext.PrincipalFromContext(ctx)
	if !ok {
		return nil, gateway.ErrUnauthorized
	}

	revenue, err := s.transactions.SumInt(ctx, "credit_amount", nil)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactions.SumInt(ctx, "debit_amount", nil)
	if err != nil {
		return nil, err
	}
	orders, err := s.transactions.Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.Count(ctx, nil)
	if err != nil {
		return nil, err
	}
	inventory, err := s.products.SumInt(ctx, "current_stock * unit_cost", nil)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.users.CountByTenant(ctx, s.db, principal.TenantID)
	if err != nil {
		return nil, err
	}
	insightCount, err := s.insights.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	var margin float64
	if revenue > 0 {
		margin = float64(revenue-expenses) / float64(revenue) * 100
	}

	return &Stats{
		TotalRevenue:    revenue,
		TotalExpenses:   expenses,
		TotalCustomers:  customers,
		TotalOrders:     orders,
		ActiveUsers:     activeUsers,
		AIInsightsCount: insightCount,
		InventoryValue:  inventory,
		ProfitMargin:    margin,
	}, nil
}
