// Package config provides configuration management for storebot.
// It uses Viper for flexible configuration loading with support for
// multiple formats, environment variables and default values.
package config

// Config represents the complete storebot configuration.
type Config struct {
	Commerce CommerceConfig `mapstructure:"commerce" json:"commerce"`
	Channels ChannelsConfig `mapstructure:"channels" json:"channels"`
	Session  SessionConfig  `mapstructure:"session" json:"session"`
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`
}

// CommerceConfig holds credentials and endpoint settings for the remote
// commerce API.
type CommerceConfig struct {
	// AccessToken authenticates every remote call. Required.
	AccessToken string `mapstructure:"access_token" json:"access_token"`
	// BaseURL is the API root. Defaults to the public v2 endpoint.
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	// TimeoutSeconds bounds each remote call. 0 means the client default.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

// ChannelsConfig contains all channel configurations.
type ChannelsConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram" json:"telegram"`
	Webchat  WebchatConfig  `mapstructure:"webchat" json:"webchat"`
}

// TelegramConfig for the Telegram channel.
type TelegramConfig struct {
	Enabled   bool     `mapstructure:"enabled" json:"enabled"`
	Token     string   `mapstructure:"token" json:"token"`
	AllowFrom []string `mapstructure:"allow_from" json:"allow_from"`
}

// WebchatConfig for the HTTP webchat channel.
type WebchatConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Listen  string `mapstructure:"listen" json:"listen"`
}

// SessionConfig configures the session store.
type SessionConfig struct {
	// Backend selects the store implementation: "memory" or "redis".
	Backend string `mapstructure:"backend" json:"backend"`
	// TTLMinutes is how long an idle session survives before pruning.
	TTLMinutes int `mapstructure:"ttl_minutes" json:"ttl_minutes"`
	// PruneSpec is a cron expression for the idle-session sweep
	// (memory backend only; redis expires keys itself).
	PruneSpec string `mapstructure:"prune_spec" json:"prune_spec"`

	Redis RedisConfig `mapstructure:"redis" json:"redis"`
}

// RedisConfig for the redis-backed session store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr"`
	Password string `mapstructure:"password" json:"password"`
	DB       int    `mapstructure:"db" json:"db"`
	Prefix   string `mapstructure:"prefix" json:"prefix"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level       string `mapstructure:"level" json:"level"`
	File        string `mapstructure:"file" json:"file"`
	Development bool   `mapstructure:"development" json:"development"`
}

// DefaultConfig returns a configuration with sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Commerce: CommerceConfig{
			BaseURL:        "https://api.gumroad.com/v2",
			TimeoutSeconds: 30,
		},
		Channels: ChannelsConfig{
			Webchat: WebchatConfig{Listen: "127.0.0.1:8090"},
		},
		Session: SessionConfig{
			Backend:    "memory",
			TTLMinutes: 240,
			PruneSpec:  "@every 10m",
			Redis:      RedisConfig{Prefix: "storebot:session:"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
