package hr

import "go.uber.org/fx"

var Module = fx.Module("hr.service",
	fx.Provide(New),
)
