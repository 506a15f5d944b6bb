package logger

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the logger for fx dependency injection.
var Module = fx.Module("logger",
	fx.Provide(ProvideLogger),
)

// ProvideLogger builds the logger from its configuration and hooks flushing
// into the fx lifecycle.
func ProvideLogger(lc fx.Lifecycle, cfg *Config) (*Logger, error) {
	log, err := New(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync may fail on stdout; nothing actionable.
			_ = log.Sync()
			return nil
		},
	})

	return log, nil
}
