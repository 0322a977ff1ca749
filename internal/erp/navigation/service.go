package navigation

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
	ErrItemNotFound = errors.New("navigation: item not found")
	ErrInvalidItem  = errors.New("navigation: name and href are required")
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// Service manages a tenant's navigation items.
type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	items *gateway.Store[Item, *Item]
}

func New(p Params) *Service {
	return &Service{
		log:   p.Log.Named("navigation.service"),
		genID: p.GenID,
		items: gateway.NewStore[Item](p.DB, p.Log),
	}
}

// CreateItemRequest carries the client-settable item fields.
type CreateItemRequest struct {
	Name         string            `json:"name" binding:"required"`
	Href         string            `json:"href" binding:"required"`
	Icon         string            `json:"icon"`
	Description  string            `json:"description"`
	Visible      *bool             `json:"visible"`
	DisplayOrder int               `json:"order"`
	Badge        datatypes.JSONMap `json:"badge"`
	Meta         datatypes.JSONMap `json:"metadata"`
}

func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Href) == "" {
		return nil, ErrInvalidItem
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}
	badge := req.Badge
	if badge == nil {
		badge = datatypes.JSONMap{}
	}
	meta := req.Meta
	if meta == nil {
		meta = datatypes.JSONMap{}
	}

	now := time.Now().UTC()
	item := &Item{
		ID:           s.genID.Generate(),
		Name:         strings.TrimSpace(req.Name),
		Href:         strings.TrimSpace(req.Href),
		Icon:         strings.TrimSpace(req.Icon),
		Description:  strings.TrimSpace(req.Description),
		Visible:      visible,
		DisplayOrder: req.DisplayOrder,
		Badge:        badge,
		Meta:         meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns the tenant's items ordered for display.
func (s *Service) List(ctx context.Context, q gateway.Query) ([]Item, error) {
	if q.OrderBy == "" {
		q.OrderBy = "display_order, name"
	}
	return s.items.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*Item, error) {
	item, err := s.items.Get(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	return item, err
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, fields map[string]any) (*Item, error) {
	fields["updated_at"] = time.Now().UTC()
	item, err := s.items.Updates(ctx, id, fields)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	return item, err
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	err := s.items.Delete(ctx, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}
