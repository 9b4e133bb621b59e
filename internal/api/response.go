package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/inference"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/mapper"
	"infinite-experiment/contactimport/internal/models/dtos/responses"
	"infinite-experiment/contactimport/internal/providers"
	"infinite-experiment/contactimport/internal/services"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, message string, data *T) {
	resp := responses.APIResponse[T]{
		Status:    string(constants.APIStatusSuccess),
		Timestamp: time.Now().UTC(),
		Message:   message,
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, code, message string) {
	if message == "" {
		message = constants.GetErrorMessage(code)
	}
	resp := responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		Code:      code,
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithServiceError maps the import pipeline's sentinel errors onto statuses
func respondWithServiceError(w http.ResponseWriter, err error) {
	var provErr *providers.ProviderError

	switch {
	case errors.Is(err, catalog.ErrUnknownTable):
		respondWithError(w, http.StatusBadRequest, constants.ErrCodeUnknownTable, err.Error())
	case errors.Is(err, mapper.ErrInvalidSchema):
		respondWithError(w, http.StatusBadRequest, constants.ErrCodeInvalidSchema, err.Error())
	case errors.Is(err, inference.ErrNoData):
		respondWithError(w, http.StatusBadRequest, constants.ErrCodeNoData, "")
	case errors.Is(err, services.ErrUnknownAssignment):
		respondWithError(w, http.StatusBadRequest, constants.ErrCodeInvalidBody, err.Error())
	case errors.As(err, &provErr):
		status := http.StatusServiceUnavailable
		switch provErr.Code {
		case constants.ErrCodeHintInvalidResponse:
			status = http.StatusBadGateway
		case constants.ErrCodeInvalidBody:
			status = http.StatusBadRequest
		}
		respondWithError(w, status, provErr.Code, "")
	case errors.Is(err, providers.ErrHintUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, constants.ErrCodeHintUnavailable, "")
	default:
		logging.Error("Import request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, constants.ErrCodeStoreFailure, "")
	}
}
