package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"infinite-experiment/contactimport/internal/auth"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/models/dtos/requests"
	"infinite-experiment/contactimport/internal/models/dtos/responses"
	"infinite-experiment/contactimport/internal/providers"
)

const (
	maxJSONBody   = 10 << 20
	maxUploadBody = 32 << 20
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, constants.ErrCodeInvalidBody, "")
		return false
	}
	return true
}

func requireTable(w http.ResponseWriter, table string) bool {
	if strings.TrimSpace(table) == "" {
		respondWithError(w, http.StatusBadRequest, constants.ErrCodeInvalidBody, constants.MsgMissingTable)
		return false
	}
	return true
}

// GetCatalog handles GET /api/v1/catalog/tables
//
// @Summary List destination tables
// @Tags Catalog
// @Produce json
// @Success 200 {object} responses.APIResponse[[]responses.CatalogTable]
// @Router /api/v1/catalog/tables [get]
func (h *Handlers) GetCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables := h.deps.Services.Import.Catalog()
		respondWithSuccess(w, http.StatusOK, constants.MsgCatalogLoaded, &tables)
	}
}

// AnalyzeMapping handles POST /api/v1/mapping/analyze
//
// @Summary Map a known source schema onto a destination table
// @Tags Mapping
// @Accept json
// @Produce json
// @Param request body requests.AnalyzeMappingRequest true "Source schema and target table"
// @Success 200 {object} responses.APIResponse[dtos.MappingResult]
// @Failure 400 {object} responses.APIResponse[any]
// @Router /api/v1/mapping/analyze [post]
func (h *Handlers) AnalyzeMapping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.AnalyzeMappingRequest
		if !decodeJSON(w, r, &req) || !requireTable(w, req.TargetTable) {
			return
		}

		result, err := h.deps.Services.Import.AnalyzeMapping(&req.Source, req.TargetTable, req.Assignment)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, constants.MsgAnalyzed, result)
	}
}

// AnalyzeImportFile handles POST /api/v1/import/analyze
//
// @Summary Analyse an uploaded CSV file
// @Description Infers the column types of the file and proposes a mapping onto the target table.
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV export"
// @Param targetTable formData string true "Destination table"
// @Success 200 {object} responses.APIResponse[responses.FileAnalysisResponse]
// @Failure 400 {object} responses.APIResponse[any]
// @Router /api/v1/import/analyze [post]
func (h *Handlers) AnalyzeImportFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
		if err := r.ParseMultipartForm(maxUploadBody); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.ErrCodeInvalidFile, "")
			return
		}

		table := r.FormValue("targetTable")
		if !requireTable(w, table) {
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, constants.ErrCodeInvalidFile, constants.MsgMissingFile)
			return
		}
		defer file.Close()

		name := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
		result, _, err := h.deps.Services.Import.AnalyzeFile(file, name, table)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, constants.MsgAnalyzed, result)
	}
}

// ValidateRows handles POST /api/v1/import/validate
//
// @Summary Validate and transform rows without writing them
// @Tags Import
// @Accept json
// @Produce json
// @Param request body requests.ValidateRowsRequest true "Rows and mappings"
// @Success 200 {object} responses.APIResponse[dtos.ValidationResult]
// @Failure 400 {object} responses.APIResponse[any]
// @Router /api/v1/import/validate [post]
func (h *Handlers) ValidateRows() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.ValidateRowsRequest
		if !decodeJSON(w, r, &req) || !requireTable(w, req.TargetTable) {
			return
		}

		result, err := h.deps.Services.Import.Validate(r.Context(), req.Rows, req.Mappings, req.TargetTable)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, constants.MsgValidated, result)
	}
}

// TransferRows handles POST /api/v1/import/transfer
//
// @Summary Validate rows and load them into the destination table in chunks
// @Tags Import
// @Accept json
// @Produce json
// @Param request body requests.TransferRowsRequest true "Rows, mappings and batch options"
// @Success 200 {object} responses.APIResponse[dtos.TransferResult]
// @Failure 400 {object} responses.APIResponse[any]
// @Failure 500 {object} responses.APIResponse[any]
// @Router /api/v1/import/transfer [post]
func (h *Handlers) TransferRows() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.TransferRowsRequest
		if !decodeJSON(w, r, &req) || !requireTable(w, req.TargetTable) {
			return
		}

		subject := string(constants.RequestSourceAPI)
		if claims := auth.GetUserClaims(r.Context()); claims != nil {
			subject += ":" + claims.Subject()
		}

		result, err := h.deps.Services.Import.Transfer(r.Context(), providers.SliceSource(req.Rows), dtos.TransferRequest{
			TargetTable: req.TargetTable,
			Mappings:    req.Mappings,
			BatchSize:   req.BatchSize,
			DryRun:      req.DryRun,
			Filters:     req.Filters,
			Subject:     subject,
		})
		if err != nil {
			respondWithServiceError(w, err)
			return
		}

		message := constants.MsgTransferred
		if req.DryRun {
			message = constants.MsgDryRun
		}
		respondWithSuccess(w, http.StatusOK, message, result)
	}
}

// SuggestHints handles POST /api/v1/mapping/hints
//
// @Summary Ask the mapping assistant which header fills which field
// @Description Hints are advisory and reconciled against the real headers. The automatic mapping is unaffected.
// @Tags Mapping
// @Accept json
// @Produce json
// @Param request body requests.MappingHintRequest true "Headers and an optional sample row"
// @Success 200 {object} responses.APIResponse[dtos.HintResult]
// @Failure 502 {object} responses.APIResponse[any]
// @Failure 503 {object} responses.APIResponse[any]
// @Router /api/v1/mapping/hints [post]
func (h *Handlers) SuggestHints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.MappingHintRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Headers) == 0 {
			respondWithError(w, http.StatusBadRequest, constants.ErrCodeInvalidBody, constants.MsgNoHeaders)
			return
		}

		result, err := h.deps.Services.Import.SuggestHints(r.Context(), req.Headers, req.SampleRow, req.TargetTable)
		if err != nil {
			if errors.Is(err, providers.ErrHintUnavailable) {
				logging.Warn("Mapping assistant unavailable", "request_id", auth.GetRequestID(r.Context()), "error", err)
			}
			respondWithServiceError(w, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, constants.MsgHintsReady, result)
	}
}

// ListImportRuns handles GET /api/v1/import/runs
//
// @Summary Recent import runs
// @Tags Import
// @Produce json
// @Param table query string false "Only runs into this table"
// @Param limit query int false "At most this many runs (default 20, max 100)"
// @Success 200 {object} responses.APIResponse[[]responses.ImportRunSummary]
// @Router /api/v1/import/runs [get]
func (h *Handlers) ListImportRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				respondWithError(w, http.StatusBadRequest, constants.ErrCodeInvalidBody, "limit must be a non-negative integer")
				return
			}
			limit = n
		}

		runs, err := h.deps.Services.Import.RecentRuns(r.Context(), r.URL.Query().Get("table"), limit)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		respondWithSuccess[[]responses.ImportRunSummary](w, http.StatusOK, constants.MsgHistoryLoaded, &runs)
	}
}
