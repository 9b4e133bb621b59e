package api

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"infinite-experiment/contactimport/internal/auth"
	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/common"
	"infinite-experiment/contactimport/internal/config"
	"infinite-experiment/contactimport/internal/db/repositories"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/providers"
	"infinite-experiment/contactimport/internal/services"
)

type Repositories struct {
	Records *repositories.RecordStore
	Runs    *repositories.ImportRunRepo
}

type Services struct {
	Cache  common.CacheInterface
	Hints  providers.HintProvider
	Import *services.ImportService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	DB       *sqlx.DB
	Metrics  *metrics.MetricsRegistry
	// Signer is nil when JWT_SECRET is unset, which disables auth
	Signer *auth.TokenSigner
}

// InitDependencies wires stores, caches and providers from the configuration
func InitDependencies(cfg *config.Config, gdb *gorm.DB, sx *sqlx.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
		logging.Info("Loaded destination catalog", "file", cfg.CatalogFile, "tables", len(cat.Tables()))
	}

	repos := &Repositories{
		Records: repositories.NewRecordStore(gdb, sx, metricsReg),
		Runs:    repositories.NewImportRunRepo(gdb),
	}

	cache := common.NewInstrumentedCache(newCache(cfg), "hints", metricsReg)
	hints := providers.NewOllamaHintProvider(providers.OllamaConfig{
		BaseURL:    cfg.OllamaURL,
		Model:      cfg.OllamaModel,
		Timeout:    cfg.HintTimeout,
		RatePerSec: cfg.HintRatePerSec,
		CacheTTL:   cfg.HintCacheTTL,
	}, cache, metricsReg)

	importSvc := services.NewImportService(services.ImportServiceDeps{
		Catalog:   cat,
		Store:     repos.Records,
		Runs:      repos.Runs,
		Hints:     hints,
		Metrics:   metricsReg,
		BatchSize: cfg.BatchSize,
	})

	deps := &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:  cache,
			Hints:  hints,
			Import: importSvc,
		},
		DB:      sx,
		Metrics: metricsReg,
	}

	if cfg.JWTSecret != "" {
		signer, err := auth.NewTokenSigner(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		deps.Signer = signer
	} else {
		logging.Warn("JWT_SECRET is not set, API authentication is disabled")
	}

	return deps, nil
}

// newCache falls back to memory when redis is configured but unreachable
func newCache(cfg *config.Config) common.CacheInterface {
	if cfg.CacheBackend == config.CacheRedis {
		redisCache, err := common.NewRedisCacheService(cfg.RedisAddr(), cfg.RedisPassword)
		if err == nil {
			logging.Info("Using Redis hint cache", "addr", cfg.RedisAddr())
			return redisCache
		}
		logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
	}
	return common.NewCacheService(cfg.HintCacheTTL, cfg.HintCacheTTL/2)
}
