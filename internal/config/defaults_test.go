package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, DefaultSQLitePath, cfg.Store.SQLite.Path)
	assert.Equal(t, DefaultDBPort, cfg.Store.Postgres.Port)
	assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
	assert.Equal(t, 300, cfg.Render.Width)
	assert.Equal(t, 200, cfg.Render.Height)
	assert.Equal(t, 1024, cfg.Render.CacheMaxEntries)
	assert.Equal(t, MaxHistoryLimit, cfg.History.Limit)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Store.Driver = StoreDriverMemory
	cfg.Redis.DefaultTTL = time.Minute
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, time.Minute, cfg.Redis.DefaultTTL)
}

func TestApplyDefaults_NilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestNewDefaultConfig_SetsBooleans(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Store.AutoMigrate)
	assert.False(t, cfg.Redis.Enabled)
	assert.NoError(t, cfg.Validate())
}

//Personal.AI order the ending
