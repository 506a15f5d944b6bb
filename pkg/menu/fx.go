package menu

import (
	"go.uber.org/fx"
)

// Module is the fx module for menu construction.
var Module = fx.Module("menu",
	fx.Provide(NewCatalog),
)
