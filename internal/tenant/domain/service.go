package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Service resolves and manages tenants. Inactive tenants still resolve
// through the finders so operators can inspect them; refusing to
// authenticate against an inactive tenant is the identity resolver's job.
type Service interface {
	Create(ctx context.Context, req CreateTenantRequest) (Tenant, error)
	FindByID(ctx context.Context, id snowflake.ID) (Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (Tenant, error)
	UpdateSettings(ctx context.Context, id snowflake.ID, settings datatypes.JSONMap) error
	SetActive(ctx context.Context, id snowflake.ID, active bool) error
}

// CreateTenantRequest carries tenant signup parameters. Quotas default
// from the plan catalog when left zero.
type CreateTenantRequest struct {
	Name      string
	Domain    string
	Subdomain string
	Plan      string
	MaxUsers  int
}
