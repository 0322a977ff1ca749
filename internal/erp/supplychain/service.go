package supplychain

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
	ErrProductNotFound  = errors.New("supplychain: product not found")
	ErrSupplierNotFound = errors.New("supplychain: supplier not found")
	ErrInvalidProduct   = errors.New("supplychain: product name is required")
	ErrInvalidSupplier  = errors.New("supplychain: company name is required")
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service manages a tenant's catalog and vendors.
type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	products  *gateway.Store[Product, *Product]
	suppliers *gateway.Store[Supplier, *Supplier]
}

func New(p Params) *Service {
	return &Service{
		log:       p.Log.Named("supplychain.service"),
		genID:     p.GenID,
		products:  gateway.NewStore[Product](p.DB, p.Log),
		suppliers: gateway.NewStore[Supplier](p.DB, p.Log),
	}
}

// CreateProductRequest carries the client-settable catalog fields.
type CreateProductRequest struct {
	ProductName   string        `json:"product_name" binding:"required"`
	Category      string        `json:"category"`
	Description   string        `json:"description"`
	UnitCost      int64         `json:"unit_cost"`
	SellingPrice  int64         `json:"selling_price"`
	Currency      string        `json:"currency"`
	CurrentStock  int64         `json:"current_stock"`
	MinStockLevel int64         `json:"min_stock_level"`
	MaxStockLevel int64         `json:"max_stock_level"`
	ReorderPoint  int64         `json:"reorder_point"`
	SupplierID    *snowflake.ID `json:"supplier_id"`
}

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if strings.TrimSpace(req.ProductName) == "" {
		return nil, ErrInvalidProduct
	}

	// A product may only reference a supplier the same tenant owns.
	if req.SupplierID != nil {
		if _, err := s.GetSupplier(ctx, *req.SupplierID); err != nil {
			return nil, err
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	id := s.genID.Generate()
	now := time.Now().UTC()
	product := &Product{
		ID:            id,
		ProductCode:   fmt.Sprintf("PROD-%s", id),
		ProductName:   strings.TrimSpace(req.ProductName),
		Category:      strings.TrimSpace(req.Category),
		Description:   strings.TrimSpace(req.Description),
		UnitCost:      req.UnitCost,
		SellingPrice:  req.SellingPrice,
		Currency:      currency,
		CurrentStock:  req.CurrentStock,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		ReorderPoint:  req.ReorderPoint,
		SupplierID:    req.SupplierID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, q gateway.Query) ([]Product, error) {
	if q.OrderBy == "" {
		q.OrderBy = "product_code"
	}
	return s.products.List(ctx, q)
}

func (s *Service) GetProduct(ctx context.Context, id snowflake.ID) (*Product, error) {
	product, err := s.products.Get(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

// CreateSupplierRequest carries the client-settable vendor fields.
type CreateSupplierRequest struct {
	CompanyName   string `json:"company_name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Country       string `json:"country"`
	PaymentTerms  string `json:"payment_terms"`
}

func (s *Service) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*Supplier, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, ErrInvalidSupplier
	}

	id := s.genID.Generate()
	now := time.Now().UTC()
	supplier := &Supplier{
		ID:               id,
		SupplierCode:     fmt.Sprintf("SUP-%s", id),
		CompanyName:      strings.TrimSpace(req.CompanyName),
		ContactPerson:    strings.TrimSpace(req.ContactPerson),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            strings.TrimSpace(req.Phone),
		Address:          strings.TrimSpace(req.Address),
		Country:          strings.TrimSpace(req.Country),
		PaymentTerms:     strings.TrimSpace(req.PaymentTerms),
		ReliabilityScore: 5,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *Service) ListSuppliers(ctx context.Context, q gateway.Query) ([]Supplier, error) {
	if q.OrderBy == "" {
		q.OrderBy = "company_name"
	}
	return s.suppliers.List(ctx, q)
}

func (s *Service) GetSupplier(ctx context.Context, id snowflake.ID) (*Supplier, error) {
	supplier, err := s.suppliers.Get(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrSupplierNotFound
	}
	return supplier, err
}
