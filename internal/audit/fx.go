package audit

import (
	"github.com/geliahq/gelia/internal/audit/repository"
	"github.com/geliahq/gelia/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
