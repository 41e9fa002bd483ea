package queryproxy

import "go.uber.org/fx"

// Module exposes the query proxy via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
