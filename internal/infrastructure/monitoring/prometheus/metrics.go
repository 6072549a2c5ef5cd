package prometheus

import (
	"strconv"
	"time"
)

// Prediction outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
)

var (
	HTTPDurationBuckets    = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	PredictDurationBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25}
)

// AppMetrics holds every ReactionLab metric.
type AppMetrics struct {
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	PredictionsTotal   CounterVec
	PredictionDuration HistogramVec

	RecordsStoredTotal CounterVec
	StoreErrorsTotal   CounterVec
	EventsPublished    CounterVec

	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	BuildInfo GaugeVec
}

// NewAppMetrics registers the application metrics on c.
func NewAppMetrics(c Collector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal:   c.Counter("http_requests_total", "HTTP requests served.", "method", "path", "status_code"),
		HTTPRequestDuration: c.Histogram("http_request_duration_seconds", "HTTP request latency.", HTTPDurationBuckets, "method", "path"),
		HTTPActiveRequests:  c.Gauge("http_active_requests", "In-flight HTTP requests."),

		PredictionsTotal:   c.Counter("predictions_total", "Product predictions by reaction type and outcome.", "reaction_type", "outcome"),
		PredictionDuration: c.Histogram("prediction_duration_seconds", "Time to predict and draw a product.", PredictDurationBuckets, "reaction_type"),

		RecordsStoredTotal: c.Counter("records_stored_total", "Reaction records persisted.", "driver"),
		StoreErrorsTotal:   c.Counter("store_errors_total", "Record store failures.", "operation"),
		EventsPublished:    c.Counter("events_published_total", "Reaction events sent to Kafka.", "status"),

		CacheHitsTotal:   c.Counter("cache_hits_total", "Cache hits.", "cache"),
		CacheMissesTotal: c.Counter("cache_misses_total", "Cache misses.", "cache"),

		BuildInfo: c.Gauge("build_info", "Build metadata; always 1.", "version", "commit"),
	}
}

func (m *AppMetrics) RecordHTTPRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *AppMetrics) ObservePrediction(reactionType, outcome string, d time.Duration) {
	m.PredictionsTotal.WithLabelValues(reactionType, outcome).Inc()
	m.PredictionDuration.WithLabelValues(reactionType).Observe(d.Seconds())
}

func (m *AppMetrics) ObserveStored(driver string) {
	m.RecordsStoredTotal.WithLabelValues(driver).Inc()
}

func (m *AppMetrics) ObserveStoreError(operation string) {
	m.StoreErrorsTotal.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) ObservePublish(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventsPublished.WithLabelValues(status).Inc()
}

// ObserveCacheHit and ObserveCacheMiss let AppMetrics observe the render
// cache.
func (m *AppMetrics) ObserveCacheHit(name string)  { m.CacheHitsTotal.WithLabelValues(name).Inc() }
func (m *AppMetrics) ObserveCacheMiss(name string) { m.CacheMissesTotal.WithLabelValues(name).Inc() }

func (m *AppMetrics) SetBuildInfo(version, commit string) {
	m.BuildInfo.WithLabelValues(version, commit).Set(1)
}

//Personal.AI order the ending
