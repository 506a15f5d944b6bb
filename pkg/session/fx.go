package session

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"storebot/pkg/config"
	"storebot/pkg/logger"
)

// Module is the fx module for session state management.
var Module = fx.Module("session",
	fx.Provide(ProvideStore),
	fx.Provide(NewManager),
)

// ProvideStore creates the configured session store and, for the memory
// backend, schedules the idle-session sweep.
func ProvideStore(lc fx.Lifecycle, log *logger.Logger, cfg *config.Config) (Store, error) {
	store, err := NewStore(log, &cfg.Session)
	if err != nil {
		return nil, err
	}

	var sweeper *cron.Cron
	if mem, ok := store.(*MemoryStore); ok {
		spec := cfg.Session.PruneSpec
		if spec == "" {
			spec = "@every 10m"
		}
		sweeper = cron.New()
		if _, err := sweeper.AddFunc(spec, func() {
			mem.Prune(time.Now())
		}); err != nil {
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if sweeper != nil {
				sweeper.Start()
				log.Info("Session store initialized",
					zap.String("backend", "memory"),
					zap.String("prune", cfg.Session.PruneSpec))
			} else {
				log.Info("Session store initialized", zap.String("backend", cfg.Session.Backend))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if sweeper != nil {
				sweeper.Stop()
			}
			return store.Close()
		},
	})

	return store, nil
}
