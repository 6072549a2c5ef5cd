package cli

import (
	"context"
	stderrors "errors"

	app "github.com/turtacn/ReactionLab/internal/application/reaction"
	"github.com/turtacn/ReactionLab/internal/config"
	domain "github.com/turtacn/ReactionLab/internal/domain/reaction"
	"github.com/turtacn/ReactionLab/internal/infrastructure/cache"
	"github.com/turtacn/ReactionLab/internal/infrastructure/database"
	"github.com/turtacn/ReactionLab/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ReactionLab/internal/infrastructure/render"
)

// runtime holds the wired infrastructure behind a command.
type runtime struct {
	cfg       *config.Config
	logger    logging.Logger
	store     *database.Store
	cache     cache.Cache
	producer  *kafka.Producer
	collector prometheus.Collector
	metrics   *prometheus.AppMetrics
	service   app.Service

	closers []func() error
}

type runtimeOptions struct {
	metrics bool
}

// newRuntime opens the store, render cache and event producer described by
// cfg and wires the reaction service over them.  On error everything
// already opened is closed.
func newRuntime(ctx context.Context, cfg *config.Config, log logging.Logger, opts runtimeOptions) (rt *runtime, err error) {
	rt = &runtime{cfg: cfg, logger: log}
	defer func() {
		if err != nil {
			_ = rt.Close()
			rt = nil
		}
	}()

	if opts.metrics && cfg.Metrics.Enabled {
		if rt.collector, err = prometheus.NewCollector(cfg.Metrics, log); err != nil {
			return rt, err
		}
		rt.metrics = prometheus.NewAppMetrics(rt.collector)
		rt.metrics.SetBuildInfo(Version, GitCommit)
	}

	if rt.store, err = database.Open(ctx, cfg.Store, log); err != nil {
		return rt, err
	}
	rt.closers = append(rt.closers, rt.store.Close)

	if err = rt.openCache(); err != nil {
		return rt, err
	}

	if cfg.Kafka.Enabled {
		if rt.producer, err = kafka.NewProducer(cfg.Kafka, log); err != nil {
			return rt, err
		}
		rt.closers = append(rt.closers, rt.producer.Close)
	}

	var renderOpts []render.CachedOption
	if rt.metrics != nil {
		renderOpts = append(renderOpts, render.WithCacheObserver(rt.metrics))
	}
	renderer := render.NewCachedRenderer(
		render.NewRenderer(cfg.Render.Width, cfg.Render.Height),
		rt.cache, cfg.Render.CacheTTL, log, renderOpts...)

	svcOpts := []app.Option{
		app.WithStoreName(rt.store.Driver),
		app.WithHistoryLimit(cfg.History.Limit),
	}
	if rt.producer != nil {
		svcOpts = append(svcOpts, app.WithPublisher(rt.producer))
	}
	if rt.metrics != nil {
		svcOpts = append(svcOpts, app.WithMetrics(rt.metrics))
	}
	rt.service = app.NewService(domain.NewPredictor(log), renderer, rt.store, log, svcOpts...)
	return rt, nil
}

func (rt *runtime) openCache() error {
	if !rt.cfg.Redis.Enabled {
		rt.cache = cache.NewMemoryCache(
			cache.WithDefaultTTL(rt.cfg.Render.CacheTTL),
			cache.WithMaxEntries(rt.cfg.Render.CacheMaxEntries))
		return nil
	}
	client, err := cache.NewClient(rt.cfg.Redis, rt.logger)
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, client.Close)
	rt.cache = cache.NewRedisCache(client, rt.logger,
		cache.WithPrefix(rt.cfg.Redis.KeyPrefix),
		cache.WithDefaultTTL(rt.cfg.Redis.DefaultTTL))
	return nil
}

// Close releases resources in reverse opening order.
func (rt *runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return stderrors.Join(errs...)
}

// withRuntime builds a runtime for the command, runs fn and closes it.
func withRuntime(ctx context.Context, cliCtx *CLIContext, opts runtimeOptions, fn func(*runtime) error) error {
	rt, err := newRuntime(ctx, cliCtx.Config, cliCtx.Logger, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil {
			cliCtx.Logger.Warn("failed to release resources", logging.Err(cerr))
		}
	}()
	return fn(rt)
}

//Personal.AI order the ending
