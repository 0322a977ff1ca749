package supplychain

import "go.uber.org/fx"

var Module = fx.Module("supplychain.service",
	fx.Provide(New),
)
