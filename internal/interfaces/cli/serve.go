package cli

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/turtacn/ReactionLab/internal/config"
	"github.com/turtacn/ReactionLab/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/ReactionLab/internal/interfaces/http"
	"github.com/turtacn/ReactionLab/internal/interfaces/http/handlers"
	"github.com/turtacn/ReactionLab/internal/interfaces/http/middleware"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction page and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if port > 0 {
				cliCtx.Config.Server.Port = port
			}
			return runServe(cmd.Context(), cliCtx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, cliCtx *CLIContext) error {
	cfg, log := cliCtx.Config, cliCtx.Logger
	gin.SetMode(cfg.Server.Mode)

	if cfg.Kafka.Enabled {
		spec := kafka.TopicSpec{Name: cfg.Kafka.Topic, Partitions: 1, ReplicationFactor: 1}
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers[0], spec, log); err != nil {
			log.Warn("could not ensure event topic", logging.String("topic", spec.Name), logging.Err(err))
		}
	}

	return withRuntime(ctx, cliCtx, runtimeOptions{metrics: true}, func(rt *runtime) error {
		watchLogLevel(cliCtx)

		checkers := []handlers.HealthChecker{
			handlers.CheckerFunc("store", rt.store.HealthCheck),
			handlers.CheckerFunc("cache", rt.cache.Ping),
		}

		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.AllowedOrigins

		routerCfg := httpapi.RouterConfig{
			ReactionHandler: handlers.NewReactionHandler(rt.service, log),
			PageHandler:     handlers.NewPageHandler(rt.service, Version, log),
			HealthHandler:   handlers.NewHealthHandler(Version, checkers...),
			Logger:          log,
			Metrics:         rt.metrics,
			CORS:            cors,
			Logging:         middleware.DefaultLoggingConfig(),
			MaxBodySize:     cfg.Server.MaxBodySize,
		}
		if rt.collector != nil {
			routerCfg.MetricsHandler = rt.collector.Handler()
			routerCfg.MetricsPath = cfg.Metrics.Path
		}

		router, err := httpapi.NewRouter(routerCfg)
		if err != nil {
			return err
		}

		log.Info("starting ReactionLab",
			logging.String("version", Version),
			logging.String("store", rt.store.Driver),
			logging.Bool("redis", cfg.Redis.Enabled),
			logging.Bool("kafka", cfg.Kafka.Enabled))
		return httpapi.NewServer(cfg.Server, router, log).Run(ctx)
	})
}

// watchLogLevel applies log level changes from the config file while
// serving.  Other settings need a restart.
func watchLogLevel(cliCtx *CLIContext) {
	if cliCtx.ConfigPath == "" {
		return
	}
	setter, ok := cliCtx.Logger.(logging.LevelSetter)
	if !ok {
		return
	}
	log := cliCtx.Logger
	config.Watch(cliCtx.ConfigPath, func(cfg *config.Config) {
		setter.SetLevel(cfg.Log.Level)
		log.Info("log level reloaded", logging.String("level", cfg.Log.Level))
	}, func(err error) {
		log.Warn("ignoring invalid config change", logging.Err(err))
	})
}

//Personal.AI order the ending
