package tenant

import (
	"github.com/geliahq/gelia/internal/tenant/repository"
	"github.com/geliahq/gelia/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
