package gateway

import (
	"go.uber.org/fx"

	"storebot/pkg/config"
	"storebot/pkg/logger"
)

// Module provides the commerce gateway.
var Module = fx.Module("gateway",
	fx.Provide(ProvideGateway),
)

// ProvideGateway builds the HTTP gateway client from configuration.
func ProvideGateway(log *logger.Logger, cfg *config.Config) Gateway {
	return NewClient(log, &cfg.Commerce)
}
