package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/config"
	"github.com/geliahq/gelia/internal/tenant/domain"
	"github.com/geliahq/gelia/pkg/db"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Plans *config.PlansHolder
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	plans *config.PlansHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		repo:  p.Repo,
		plans: p.Plans,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTenantRequest) (domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Tenant{}, domain.ErrInvalidName
	}

	subdomain := slug.Make(req.Subdomain)
	if subdomain == "" {
		subdomain = slug.Make(name)
	}
	if subdomain == "" {
		return domain.Tenant{}, domain.ErrInvalidSubdomain
	}

	plan := strings.ToLower(strings.TrimSpace(req.Plan))
	if plan == "" {
		plan = "starter"
	}
	quota := s.plans.Quota(plan)

	maxUsers := req.MaxUsers
	if maxUsers <= 0 {
		maxUsers = quota.MaxUsers
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:           s.genID.Generate(),
		Name:         name,
		Domain:       strings.TrimSpace(req.Domain),
		Subdomain:    subdomain,
		Plan:         plan,
		MaxUsers:     maxUsers,
		MaxStorageMB: quota.MaxStorageMB,
		IsActive:     true,
		Settings:     datatypes.JSONMap{},
		BillingInfo:  datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &tenant); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Tenant{}, domain.ErrDuplicateSubdomain
		}
		return domain.Tenant{}, err
	}

	s.log.Info("tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("subdomain", tenant.Subdomain),
		zap.String("plan", tenant.Plan),
	)

	return tenant, nil
}

func (s *Service) FindByID(ctx context.Context, id snowflake.ID) (domain.Tenant, error) {
	if id == 0 {
		return domain.Tenant{}, domain.ErrNotFound
	}
	tenant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrNotFound
	}
	return *tenant, nil
}

func (s *Service) FindBySubdomain(ctx context.Context, subdomain string) (domain.Tenant, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if subdomain == "" {
		return domain.Tenant{}, domain.ErrNotFound
	}
	tenant, err := s.repo.FindBySubdomain(ctx, s.db, subdomain)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrNotFound
	}
	return *tenant, nil
}

func (s *Service) UpdateSettings(ctx context.Context, id snowflake.ID, settings datatypes.JSONMap) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, s.db, id, map[string]any{
		"settings":   settings,
		"updated_at": time.Now().UTC(),
	})
}

func (s *Service) SetActive(ctx context.Context, id snowflake.ID, active bool) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, s.db, id, map[string]any{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
}
