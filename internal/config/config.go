package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"infinite-experiment/contactimport/internal/db"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is read once at startup from the environment
type Config struct {
	AppEnv string
	Port   string

	DBDriver   string
	PGHost     string
	PGPort     string
	PGUser     string
	PGDB       string
	PGPassword string
	SQLitePath string

	CacheBackend  string
	RedisHost     string
	RedisPort     string
	RedisPassword string

	OllamaURL      string
	OllamaModel    string
	HintTimeout    time.Duration
	HintRatePerSec float64
	HintCacheTTL   time.Duration

	BatchSize    int
	CatalogFile  string
	RunRetention time.Duration

	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the environment, falling back to local development defaults
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", db.DriverPostgres),
		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGUser:     os.Getenv("PG_USER"),
		PGDB:       os.Getenv("PG_DB"),
		PGPassword: os.Getenv("PG_PASSWORD"),
		SQLitePath: getEnv("SQLITE_PATH", "contactimport.db"),

		CacheBackend:  getEnv("CACHE_BACKEND", CacheMemory),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		OllamaURL:   getEnv("OLLAMA_API_URL", "http://127.0.0.1:11434"),
		OllamaModel: getEnv("OLLAMA_MODEL", "qwen2.5:1.5b"),

		CatalogFile: os.Getenv("CATALOG_FILE"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}

	cfg.HintTimeout = getDuration("HINT_TIMEOUT", 30*time.Second, &errs)
	cfg.HintCacheTTL = getDuration("HINT_CACHE_TTL", time.Hour, &errs)
	cfg.HintRatePerSec = getFloat("HINT_RATE_PER_SEC", 1, &errs)
	cfg.BatchSize = getInt("BATCH_SIZE", 100, &errs)
	cfg.RunRetention = getDuration("RUN_RETENTION", 30*24*time.Hour, &errs)
	cfg.RateLimitRPS = getFloat("RATE_LIMIT_PER_SEC", 5, &errs)
	cfg.RateLimitBurst = getInt("RATE_LIMIT_BURST", 10, &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks combinations Load cannot catch on its own
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case db.DriverPostgres:
		if c.PGUser == "" || c.PGDB == "" {
			errs = append(errs, errors.New("PG_USER and PG_DB are required for the postgres driver"))
		}
	case db.DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}

	if c.CacheBackend != CacheMemory && c.CacheBackend != CacheRedis {
		errs = append(errs, fmt.Errorf("CACHE_BACKEND %q is not supported", c.CacheBackend))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, errors.New("BATCH_SIZE must be positive"))
	}
	if c.RunRetention < 0 {
		errs = append(errs, errors.New("RUN_RETENTION cannot be negative"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_SEC and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns the connection string for the configured driver
func (c *Config) DSN() string {
	if c.DBDriver == db.DriverSQLite {
		return c.SQLitePath
	}
	return db.PostgresDSN(c.PGHost, c.PGPort, c.PGUser, c.PGPassword, c.PGDB)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}
