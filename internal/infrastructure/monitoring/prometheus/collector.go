// Package prometheus exposes ReactionLab metrics on a private registry.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/ReactionLab/internal/config"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/pkg/errors"
)

// CounterVec is satisfied by *prometheus.CounterVec.
type CounterVec interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

// GaugeVec is satisfied by *prometheus.GaugeVec.
type GaugeVec interface {
	WithLabelValues(lvs ...string) prometheus.Gauge
}

// HistogramVec is satisfied by *prometheus.HistogramVec.
type HistogramVec interface {
	WithLabelValues(lvs ...string) prometheus.Observer
}

// Collector registers metrics under one namespace and serves them.
type Collector interface {
	Counter(name, help string, labels ...string) CounterVec
	Gauge(name, help string, labels ...string) GaugeVec
	Histogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
	Gatherer() prometheus.Gatherer
}

type collector struct {
	registry  *prometheus.Registry
	namespace string
	logger    logging.Logger
}

// NewCollector builds a registry carrying the Go runtime and process
// collectors.
func NewCollector(cfg config.MetricsConfig, log logging.Logger) (Collector, error) {
	if cfg.Namespace == "" {
		return nil, errors.New(errors.ErrCodeValidation, "metrics namespace is required")
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}),
	)
	return &collector{registry: reg, namespace: cfg.Namespace, logger: log.Named("metrics")}, nil
}

func (c *collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *collector) Gatherer() prometheus.Gatherer { return c.registry }

// register returns the already-registered collector when an identical one
// exists.  Any other failure leaves col unregistered but usable.
func (c *collector) register(name string, col prometheus.Collector) prometheus.Collector {
	if err := c.registry.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		c.logger.Error("failed to register metric", logging.String("name", name), logging.Err(err))
	}
	return col
}

func (c *collector) Counter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: c.namespace, Name: name, Help: help}, labels)
	if v, ok := c.register(name, vec).(*prometheus.CounterVec); ok {
		return v
	}
	return vec
}

func (c *collector) Gauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: c.namespace, Name: name, Help: help}, labels)
	if v, ok := c.register(name, vec).(*prometheus.GaugeVec); ok {
		return v
	}
	return vec
}

func (c *collector) Histogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace, Name: name, Help: help, Buckets: buckets,
	}, labels)
	if v, ok := c.register(name, vec).(*prometheus.HistogramVec); ok {
		return v
	}
	return vec
}

// Timer observes elapsed seconds into a histogram.
type Timer struct {
	obs   prometheus.Observer
	start time.Time
}

func NewTimer(obs prometheus.Observer) *Timer {
	return &Timer{obs: obs, start: time.Now()}
}

func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	if t.obs != nil {
		t.obs.Observe(d.Seconds())
	}
	return d
}

//Personal.AI order the ending
