package fx

import (
	"context"

	"codestats-proxy/internal/api"
	"codestats-proxy/internal/cache"
	"codestats-proxy/internal/config"
	"codestats-proxy/internal/database"
	"codestats-proxy/internal/logger"
	"codestats-proxy/internal/repository"
	"codestats-proxy/internal/server"
	"codestats-proxy/internal/service"
	"codestats-proxy/internal/synthetic"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// ProvideCache builds the configured cache and ties a Redis client to the
// app lifecycle. An unreachable Redis at startup is logged, not fatal.
func ProvideCache(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (cache.Cache, error) {
	c, err := cache.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	if r, ok := c.(*cache.Redis); ok {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := r.Ping(ctx); err != nil {
					logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, lookups will miss until it recovers")
				}
				return nil
			},
			OnStop: func(context.Context) error {
				return r.Close()
			},
		})
	}
	return c, nil
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// storage
	fx.Provide(ProvideCache),
	fx.Provide(fx.Annotate(repository.NewAcquisitionRepository, fx.As(new(service.AcquisitionStore)))),
	// acquisition
	fx.Provide(api.NewClient),
	fx.Provide(api.NewFetchers),
	fx.Provide(fx.Annotate(synthetic.NewDefault, fx.As(new(service.SyntheticGenerator)))),
	// svc
	fx.Provide(service.NewStatsService),
	fx.Provide(service.NewSummaryService),
	fx.Provide(service.NewHistoryService),
	// server
	fx.Provide(server.NewStatsServer),
)
