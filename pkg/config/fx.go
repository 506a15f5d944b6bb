package config

import (
	"go.uber.org/fx"

	"storebot/pkg/logger"
)

// Module provides configuration for fx dependency injection. The config
// file path is supplied by the CLI layer as an fx value.
var Module = fx.Module("config",
	fx.Provide(ProvideConfig),
	fx.Provide(ProvideLoggerConfig),
)

// Path wraps the CLI-supplied config file path so fx can inject it.
type Path string

// ProvideConfig loads and validates the configuration.
func ProvideConfig(path Path) (*Config, error) {
	cfg, err := NewLoader().Load(string(path))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ProvideLoggerConfig maps the logging section onto the logger package's
// config type.
func ProvideLoggerConfig(cfg *Config) *logger.Config {
	lcfg := logger.DefaultConfig()
	if cfg.Logging.Level != "" {
		lcfg.Level = logger.Level(cfg.Logging.Level)
	}
	if cfg.Logging.File != "" {
		lcfg.OutputPath = cfg.Logging.File
	}
	lcfg.Development = cfg.Logging.Development
	return lcfg
}
