package sales

import "go.uber.org/fx"

var Module = fx.Module("sales.service",
	fx.Provide(New),
)
