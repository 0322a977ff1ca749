package reference

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/gateway"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrResourceNotFound = errors.New("reference: resource not found")
	ErrInvalidResource  = errors.New("reference: resource type and name are required")
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service manages the shared reference catalog.
type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	resources *gateway.GlobalStore[GlobalResource]
}

func New(p Params) *Service {
	return &Service{
		log:       p.Log.Named("reference.service"),
		genID:     p.GenID,
		resources: gateway.NewGlobalStore[GlobalResource](p.DB, p.Log),
	}
}

// CreateResourceRequest carries the admin-settable resource fields.
type CreateResourceRequest struct {
	ResourceType       string            `json:"resource_type" binding:"required"`
	ResourceName       string            `json:"resource_name" binding:"required"`
	Region             string            `json:"region"`
	Country            string            `json:"country"`
	CurrentPrice       int64             `json:"current_price"`
	Currency           string            `json:"currency"`
	UnitOfMeasure      string            `json:"unit_of_measure"`
	AvailabilityStatus string            `json:"availability_status"`
	SupplierInfo       datatypes.JSONMap `json:"supplier_info"`
	MarketTrends       datatypes.JSONMap `json:"market_trends"`
}

func (s *Service) Create(ctx context.Context, req CreateResourceRequest) (*GlobalResource, error) {
	if strings.TrimSpace(req.ResourceType) == "" || strings.TrimSpace(req.ResourceName) == "" {
		return nil, ErrInvalidResource
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	supplierInfo := req.SupplierInfo
	if supplierInfo == nil {
		supplierInfo = datatypes.JSONMap{}
	}
	marketTrends := req.MarketTrends
	if marketTrends == nil {
		marketTrends = datatypes.JSONMap{}
	}

	now := time.Now().UTC()
	resource := &GlobalResource{
		ID:                 s.genID.Generate(),
		ResourceType:       strings.TrimSpace(req.ResourceType),
		ResourceName:       strings.TrimSpace(req.ResourceName),
		Region:             strings.TrimSpace(req.Region),
		Country:            strings.TrimSpace(req.Country),
		CurrentPrice:       req.CurrentPrice,
		Currency:           currency,
		UnitOfMeasure:      strings.TrimSpace(req.UnitOfMeasure),
		AvailabilityStatus: strings.TrimSpace(req.AvailabilityStatus),
		SupplierInfo:       supplierInfo,
		MarketTrends:       marketTrends,
		LastUpdated:        now,
		CreatedAt:          now,
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// List returns shared resources, optionally narrowed by resource type.
// The result does not depend on the caller's tenant.
func (s *Service) List(ctx context.Context, q gateway.Query) ([]GlobalResource, error) {
	if q.OrderBy == "" {
		q.OrderBy = "resource_type, resource_name"
	}
	return s.resources.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*GlobalResource, error) {
	resource, err := s.resources.Get(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrResourceNotFound
	}
	return resource, err
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, fields map[string]any) (*GlobalResource, error) {
	fields["last_updated"] = time.Now().UTC()
	resource, err := s.resources.Updates(ctx, id, fields)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrResourceNotFound
	}
	return resource, err
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	err := s.resources.Delete(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return ErrResourceNotFound
	}
	return err
}
