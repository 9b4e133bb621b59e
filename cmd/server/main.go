package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"infinite-experiment/contactimport/internal/api"
	"infinite-experiment/contactimport/internal/config"
	"infinite-experiment/contactimport/internal/db"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/routes"
	"infinite-experiment/contactimport/internal/workers"
)

// @title Contact Import API
// @version 1.0
// @description Maps spreadsheet exports onto the contact catalog and loads them in chunks.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Contact import service starting up",
		"environment", cfg.AppEnv,
		"driver", cfg.DBDriver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	gdb, err := db.OpenORM(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logging.Fatal("Failed to open destination store", "error", err.Error())
	}
	if err := db.Migrate(gdb); err != nil {
		logging.Fatal("Failed to migrate destination store", "error", err.Error())
	}

	// Health checks and distinct-value lookups go through sqlx
	var sx *sqlx.DB
	if cfg.DBDriver == db.DriverPostgres {
		sx, err = db.ConnectPostgres(cfg.DSN())
	} else {
		sx, err = db.WrapORM(gdb, cfg.DBDriver)
	}
	if err != nil {
		logging.Fatal("Failed to connect via sqlx", "error", err.Error())
	}
	logging.Info("Connected to destination store (sqlx)")

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	deps, err := api.InitDependencies(cfg, gdb, sx, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}
	defer deps.Services.Cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.InitWorkers(ctx, deps.Repo.Runs, cfg.RunRetention, metricsReg)

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, routes.Options{
		RateLimitPerSec: cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		DebugLogging:    !cfg.IsProduction(),
	}, upSince)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router) // Mount Chi router at root
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()

	logging.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}
