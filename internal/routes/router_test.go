package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"infinite-experiment/contactimport/internal/api"
	"infinite-experiment/contactimport/internal/auth"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/db"
	"infinite-experiment/contactimport/internal/db/repositories"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/services"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	m.Run()
}

func setupRouter(t *testing.T, signer *auth.TokenSigner) http.Handler {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gdb))
	sx, err := db.WrapORM(gdb, db.DriverSQLite)
	require.NoError(t, err)

	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	store := repositories.NewRecordStore(gdb, sx, m)
	runs := repositories.NewImportRunRepo(gdb)

	deps := &api.Dependencies{
		Repo: &api.Repositories{Records: store, Runs: runs},
		Services: &api.Services{
			Import: services.NewImportService(services.ImportServiceDeps{Store: store, Runs: runs, Metrics: m}),
		},
		DB:      sx,
		Metrics: m,
		Signer:  signer,
	}
	return RegisterRoutes(deps, Options{RateLimitPerSec: 100, RateLimitBurst: 100}, time.Now())
}

func TestRoutes_Auth(t *testing.T) {
	signer, err := auth.NewTokenSigner("s3cret")
	require.NoError(t, err)
	viewer, _ := signer.Issue("viewer@example.com", constants.RoleViewer, time.Hour)
	importer, _ := signer.Issue("importer@example.com", constants.RoleImporter, time.Hour)

	router := setupRouter(t, signer)
	transferBody := `{"rows":[],"mappings":[],"targetTable":"контакты"}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/healthCheck", "", "", http.StatusOK},
		{"catalog needs token", http.MethodGet, "/api/v1/catalog/tables", "", "", http.StatusUnauthorized},
		{"viewer reads catalog", http.MethodGet, "/api/v1/catalog/tables", "", viewer, http.StatusOK},
		{"viewer cannot transfer", http.MethodPost, "/api/v1/import/transfer", transferBody, viewer, http.StatusForbidden},
		{"importer transfers", http.MethodPost, "/api/v1/import/transfer", transferBody, importer, http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", viewer, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestRoutes_NoSecretIsOpen(t *testing.T) {
	router := setupRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/import/runs", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
