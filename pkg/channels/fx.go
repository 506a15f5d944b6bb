package channels

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"storebot/pkg/channels/telegram"
	"storebot/pkg/channels/webchat"
	"storebot/pkg/config"
	"storebot/pkg/logger"
	"storebot/pkg/router"
	"storebot/pkg/session"
)

// Module is the fx module for channels.
var Module = fx.Module("channels",
	fx.Provide(NewChannelManager),
	fx.Invoke(RegisterChannels),
)

// NewChannelManager creates a new channel manager for fx.
func NewChannelManager(
	lc fx.Lifecycle,
	log *logger.Logger,
) *Manager {
	manager := NewManager(log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return manager.Start()
		},
		OnStop: func(ctx context.Context) error {
			return manager.Stop()
		},
	})

	return manager
}

// RegisterChannels registers all available channels with the manager.
func RegisterChannels(
	manager *Manager,
	log *logger.Logger,
	rt *router.Router,
	sessions *session.Manager,
	cfg *config.Config,
) error {
	// Register Telegram channel
	if cfg.Channels.Telegram.Enabled {
		tgChannel, err := telegram.New(log, rt, sessions, &cfg.Channels.Telegram)
		if err != nil {
			log.Warn("Failed to create Telegram channel, skipping", zap.Error(err))
		} else {
			if err := manager.Register(tgChannel); err != nil {
				return err
			}
		}
	}

	// Register webchat channel
	if cfg.Channels.Webchat.Enabled {
		if err := manager.Register(webchat.New(log, rt, sessions, &cfg.Channels.Webchat)); err != nil {
			return err
		}
	}

	return nil
}
