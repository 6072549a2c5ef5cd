package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 5000
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 15 * time.Second
	DefaultServerMaxBodySize     = 1 << 20
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultStoreDriver       = StoreDriverSQLite
	DefaultSQLitePath        = "reactions.db"
	DefaultSQLiteBusyTimeout = 5 * time.Second

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "reactlab"
	DefaultDBSSLMode  = "disable"
	DefaultDBMaxConns = 10
	DefaultDBMaxIdle  = 5

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisTTL       = 24 * time.Hour
	DefaultRedisKeyPrefix = "reactlab:"

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "reaction.recorded"
	DefaultKafkaGroup  = "reactlab-events"

	DefaultRenderWidth    = 300
	DefaultRenderHeight   = 200
	DefaultRenderCacheTTL = time.Hour

	DefaultRenderCacheMaxEntries = 1024

	DefaultHistoryLimit = MaxHistoryLimit

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "reactlab"
	DefaultMetricsPath      = "/metrics"
)

// NewDefaultConfig returns a Config populated entirely from defaults.  It is
// what `reactlab serve` runs with when neither a file nor env vars exist.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Metrics.Enabled = true
	cfg.Store.AutoMigrate = true
	cfg.Server.AllowedOrigins = []string{"*"}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly set (non-zero) values always win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	// ── Store ─────────────────────────────────────────────────────────────────
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DefaultStoreDriver
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Store.SQLite.BusyTimeout == 0 {
		cfg.Store.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	pg := &cfg.Store.Postgres
	if pg.Host == "" {
		pg.Host = DefaultDBHost
	}
	if pg.Port == 0 {
		pg.Port = DefaultDBPort
	}
	if pg.DBName == "" {
		pg.DBName = DefaultDBName
	}
	if pg.SSLMode == "" {
		pg.SSLMode = DefaultDBSSLMode
	}
	if pg.MaxConns == 0 {
		pg.MaxConns = DefaultDBMaxConns
	}
	if pg.MaxIdleConns == 0 {
		pg.MaxIdleConns = DefaultDBMaxIdle
	}
	if pg.ConnMaxLifetime == 0 {
		pg.ConnMaxLifetime = 30 * time.Minute
	}
	if pg.ConnMaxIdleTime == 0 {
		pg.ConnMaxIdleTime = 5 * time.Minute
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroup
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 50 * time.Millisecond
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}
	if cfg.Kafka.RequiredAcks == 0 {
		cfg.Kafka.RequiredAcks = 1
	}

	// ── Render ────────────────────────────────────────────────────────────────
	if cfg.Render.Width == 0 {
		cfg.Render.Width = DefaultRenderWidth
	}
	if cfg.Render.Height == 0 {
		cfg.Render.Height = DefaultRenderHeight
	}
	if cfg.Render.CacheTTL == 0 {
		cfg.Render.CacheTTL = DefaultRenderCacheTTL
	}
	if cfg.Render.CacheMaxEntries == 0 {
		cfg.Render.CacheMaxEntries = DefaultRenderCacheMaxEntries
	}

	// ── History ───────────────────────────────────────────────────────────────
	if cfg.History.Limit == 0 {
		cfg.History.Limit = DefaultHistoryLimit
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// registerDefaults teaches v every key so that AutomaticEnv can override keys
// that appear in no config file.  Values match ApplyDefaults.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.max_body_size", DefaultServerMaxBodySize)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("store.driver", DefaultStoreDriver)
	v.SetDefault("store.auto_migrate", true)
	v.SetDefault("store.sqlite.path", DefaultSQLitePath)
	v.SetDefault("store.sqlite.busy_timeout", DefaultSQLiteBusyTimeout)
	v.SetDefault("store.postgres.host", DefaultDBHost)
	v.SetDefault("store.postgres.port", DefaultDBPort)
	v.SetDefault("store.postgres.user", "")
	v.SetDefault("store.postgres.password", "")
	v.SetDefault("store.postgres.db_name", DefaultDBName)
	v.SetDefault("store.postgres.ssl_mode", DefaultDBSSLMode)
	v.SetDefault("store.postgres.max_conns", DefaultDBMaxConns)
	v.SetDefault("store.postgres.max_idle_conns", DefaultDBMaxIdle)
	v.SetDefault("store.postgres.statement_timeout", 0)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", DefaultRedisAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.default_ttl", DefaultRedisTTL)
	v.SetDefault("redis.key_prefix", DefaultRedisKeyPrefix)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("kafka.topic", DefaultKafkaTopic)
	v.SetDefault("kafka.group_id", DefaultKafkaGroup)

	v.SetDefault("render.width", DefaultRenderWidth)
	v.SetDefault("render.height", DefaultRenderHeight)
	v.SetDefault("render.cache_ttl", DefaultRenderCacheTTL)
	v.SetDefault("render.cache_max_entries", DefaultRenderCacheMaxEntries)

	v.SetDefault("history.limit", DefaultHistoryLimit)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.path", DefaultMetricsPath)
}

//Personal.AI order the ending
