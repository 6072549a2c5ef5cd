package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/ReactionLab/internal/config"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ReactionLab/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ReactionLab/pkg/types/common"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	e := gin.New()
	e.Use(RequestID(nil))
	var seen string
	e.GET("/", func(c *gin.Context) { seen = GetRequestID(c) })

	w := serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Header().Get(HeaderRequestID))
	require.NoError(t, err)
	assert.Equal(t, w.Header().Get(HeaderRequestID), seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = serve(e, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 100))
	w = serve(e, req)
	assert.NotEqual(t, strings.Repeat("x", 100), w.Header().Get(HeaderRequestID))
}

func TestRequestID_AttachesLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := gin.New()
	e.Use(RequestID(logging.NewLoggerFromCore(core)))
	e.GET("/", func(c *gin.Context) {
		logging.FromContext(c.Request.Context(), nil).Info("inside")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	serve(e, req)

	entries := logs.FilterMessage("inside").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
}

func TestRecovery_ReturnsErrorEnvelope(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	e := gin.New()
	e.Use(Recovery(logging.NewLoggerFromCore(core)))
	e.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "An error occurred: kaboom", body.Error)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRequestLogging_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := gin.New()
	e.Use(RequestLogging(logging.NewLoggerFromCore(core), DefaultLoggingConfig()))
	e.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	e.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	e.GET("/err", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	e.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/ok", "/bad", "/err", "/healthz"} {
		serve(e, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 1, logs.FilterMessage("request completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("request completed with client error").Len())
	assert.Equal(t, 1, logs.FilterMessage("request completed with server error").Len())
	assert.Equal(t, 3, logs.Len())
}

func TestCORS(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"https://lab.example.org", "*.chem.test"}
	e := gin.New()
	e.Use(CORS(cfg))
	e.POST("/predict", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("preflight allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
		req.Header.Set("Origin", "https://lab.example.org")
		w := serve(e, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://lab.example.org", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("subdomain wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/predict", nil)
		req.Header.Set("Origin", "https://a.chem.test")
		w := serve(e, req)
		assert.Equal(t, "https://a.chem.test", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, HeaderRequestID, w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/predict", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := serve(e, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestBodyLimit(t *testing.T) {
	e := gin.New()
	e.Use(BodyLimit(8))
	e.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var mbe *http.MaxBytesError
		if assert.ErrorAs(t, err, &mbe) {
			c.Status(http.StatusRequestEntityTooLarge)
		}
	})

	w := serve(e, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	col, err := prometheus.NewCollector(config.MetricsConfig{Namespace: "mw"}, nil)
	require.NoError(t, err)
	m := prometheus.NewAppMetrics(col)

	e := gin.New()
	e.Use(Metrics(m))
	e.GET("/history", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(e, httptest.NewRequest(http.MethodGet, "/history?limit=3", nil))
	serve(e, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/history", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPActiveRequests.WithLabelValues()))
}

//Personal.AI order the ending
