package cache

import (
	"context"
	"fmt"

	"github.com/orgball2608/insta-downloader/internal/migrations"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	pgpool "github.com/orgball2608/insta-downloader/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Module("cache",
	fx.Provide(New),
)

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
}

// New builds the Store selected by CACHE_DRIVER and ties its resources to
// the application lifecycle.
func New(opts Opts) (Store, error) {
	cfg := opts.Config.Cache
	log := opts.Logger.WithComponent("Cache")

	switch cfg.Driver {
	case "", DriverMemory:
		store := NewMemory(cfg.MaxEntries)
		if err := scheduleCleanup(opts, store); err != nil {
			return nil, err
		}
		log.Info("Using in-memory cache", "max_entries", cfg.MaxEntries, "ttl", cfg.TTL)
		return store, nil

	case DriverRedis:
		client, err := NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store := NewRedis(client)
		opts.LC.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := store.Ping(ctx); err != nil {
					return fmt.Errorf("failed to connect to redis: %w", err)
				}
				log.Info("Using redis cache", "addr", client.Options().Addr, "ttl", cfg.TTL)
				return nil
			},
			OnStop: func(context.Context) error {
				return store.Close()
			},
		})
		return store, nil

	case DriverPostgres:
		pool, err := pgpool.New(pgpool.Opts{LC: opts.LC, Logger: opts.Logger, Config: opts.Config})
		if err != nil {
			return nil, err
		}
		opts.LC.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := migrations.Up(ctx, opts.Config.GetDSN()); err != nil {
					return err
				}
				log.Info("Using postgres cache", "ttl", cfg.TTL)
				return nil
			},
		})
		store := NewPostgres(pool)
		if err := scheduleCleanup(opts, store); err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func scheduleCleanup(opts Opts, janitor Janitor) error {
	sweeper, err := NewSweeper(janitor, opts.Config.Cache.CleanupInterval, opts.Logger)
	if err != nil {
		return err
	}
	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			return sweeper.Stop()
		},
	})
	return nil
}
