// Package http assembles the gin engine and the HTTP server around the
// reaction handlers.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ReactionLab/internal/config"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ReactionLab/internal/interfaces/http/handlers"
	"github.com/turtacn/ReactionLab/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	ReactionHandler *handlers.ReactionHandler
	PageHandler     *handlers.PageHandler
	HealthHandler   *handlers.HealthHandler

	Logger         logging.Logger
	Metrics        *prometheus.AppMetrics
	MetricsHandler http.Handler
	MetricsPath    string
	CORS           middleware.CORSConfig
	Logging        middleware.LoggingConfig
	MaxBodySize    int64
}

// NewRouter builds the engine.  Request id runs first so every later layer
// logs with it, and recovery sits inside logging and metrics so a recovered
// panic is still counted and logged as a completed request.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.RequestID(log))
	r.Use(middleware.RequestLogging(log, cfg.Logging))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}
	if cfg.ReactionHandler != nil {
		cfg.ReactionHandler.RegisterRoutes(r)
	}
	if cfg.PageHandler != nil {
		tmpl, err := handlers.Templates()
		if err != nil {
			return nil, err
		}
		r.SetHTMLTemplate(tmpl)
		cfg.PageHandler.RegisterRoutes(r)
	}
	return r, nil
}

//Personal.AI order the ending
