package insight

import "go.uber.org/fx"

var Module = fx.Module("insight.service",
	fx.Provide(New),
)
