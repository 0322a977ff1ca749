package identity

import (
	"github.com/geliahq/gelia/internal/identity/repository"
	"github.com/geliahq/gelia/internal/identity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
