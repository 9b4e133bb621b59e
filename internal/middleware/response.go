package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/models/dtos/responses"
)

// respondWithError mirrors the API envelope so clients see one error shape
func respondWithError(w http.ResponseWriter, statusCode int, code string) {
	resp := responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		Code:      code,
		Error:     constants.GetErrorMessage(code),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
