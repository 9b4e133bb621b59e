package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/contactimport/internal/db"
)

var envKeys = []string{
	"APP_ENV", "PORT", "DB_DRIVER", "PG_HOST", "PG_PORT", "PG_USER", "PG_DB", "PG_PASSWORD",
	"SQLITE_PATH", "CACHE_BACKEND", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
	"OLLAMA_API_URL", "OLLAMA_MODEL", "HINT_TIMEOUT", "HINT_RATE_PER_SEC", "HINT_CACHE_TTL",
	"BATCH_SIZE", "CATALOG_FILE", "JWT_SECRET", "RATE_LIMIT_PER_SEC", "RATE_LIMIT_BURST", "RUN_RETENTION",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, db.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.OllamaURL)
	assert.Equal(t, "qwen2.5:1.5b", cfg.OllamaModel)
	assert.Equal(t, 30*time.Second, cfg.HintTimeout)
	assert.Equal(t, time.Hour, cfg.HintCacheTTL)
	assert.Equal(t, 1.0, cfg.HintRatePerSec)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, 720*time.Hour, cfg.RunRetention)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.False(t, cfg.IsProduction())

	// postgres without credentials
	assert.Error(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/import.db")
	t.Setenv("BATCH_SIZE", "250")
	t.Setenv("HINT_TIMEOUT", "5s")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 250, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.HintTimeout)
	assert.Equal(t, "/tmp/import.db", cfg.DSN())
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
}

func TestLoad_BadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("BATCH_SIZE", "lots")
	t.Setenv("HINT_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
	assert.Contains(t, err.Error(), "HINT_TIMEOUT")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DBDriver:       db.DriverPostgres,
			PGUser:         "importer",
			PGDB:           "contacts",
			CacheBackend:   CacheMemory,
			BatchSize:      100,
			RateLimitRPS:   5,
			RateLimitBurst: 10,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"unknown cache", func(c *Config) { c.CacheBackend = "memcached" }, true},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }, true},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }, true},
		{"retention disabled", func(c *Config) { c.RunRetention = 0 }, false},
		{"negative retention", func(c *Config) { c.RunRetention = -time.Hour }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}

	c := base()
	assert.Equal(t, "postgres://importer:@localhost:5432/contacts?sslmode=disable", db.PostgresDSN("localhost", "5432", "importer", "", "contacts"))
	assert.Contains(t, c.DSN(), "importer")
}
