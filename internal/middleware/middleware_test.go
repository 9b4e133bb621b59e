package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"infinite-experiment/contactimport/internal/auth"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/models/dtos/responses"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	m.Run()
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims != nil {
		w.Header().Set("X-Subject", claims.Subject())
	}
	w.WriteHeader(http.StatusOK)
})

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) responses.APIResponse[any] {
	var resp responses.APIResponse[any]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	signer, err := auth.NewTokenSigner("s3cret")
	require.NoError(t, err)
	token, err := signer.Issue("ops@example.com", constants.RoleViewer, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		signer     *auth.TokenSigner
		header     string
		wantStatus int
		wantSub    string
	}{
		{"no signer is anonymous", nil, "", http.StatusOK, "anonymous"},
		{"valid token", signer, "Bearer " + token, http.StatusOK, "ops@example.com"},
		{"missing header", signer, "", http.StatusUnauthorized, ""},
		{"wrong scheme", signer, "Basic abc", http.StatusUnauthorized, ""},
		{"bad token", signer, "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/tables", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.signer)(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantSub, rec.Header().Get("X-Subject"))
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, constants.ErrCodeUnauthorized, decodeError(t, rec).Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	signer, _ := auth.NewTokenSigner("s3cret")
	viewer, _ := signer.Issue("v", constants.RoleViewer, time.Hour)
	importer, _ := signer.Issue("i", constants.RoleImporter, time.Hour)

	h := AuthMiddleware(signer)(RequireRole(constants.RoleImporter)(okHandler))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/transfer", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, constants.ErrCodeForbidden, decodeError(t, rec).Code)

	req.Header.Set("Authorization", "Bearer "+importer)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// no auth middleware in front
	rec = httptest.NewRecorder()
	RequireRole(constants.RoleViewer)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	h := limiter.Middleware(okHandler)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5002"))

	// buckets are per IP
	assert.Equal(t, http.StatusOK, send("10.0.0.2:5000"))
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.Use(InFlightMiddleware(m, "api"))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/items/{id}", "GET", "418")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequestsInFlight.WithLabelValues("api")))
}

func TestLogging_PassesBodyThrough(t *testing.T) {
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write(make([]byte, 3000))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 3000, rec.Body.Len())
}
