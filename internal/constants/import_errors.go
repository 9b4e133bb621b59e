package constants

// Import error codes
// These constants define specific failure scenarios of the import pipeline

// Schema and catalog errors
const (
	ErrCodeInvalidSchema = "INVALID_SCHEMA"
	ErrCodeUnknownTable  = "UNKNOWN_TABLE"
	ErrCodeNoData        = "NO_DATA"
	ErrCodeInvalidFile   = "INVALID_FILE"
	ErrCodeInvalidBody   = "INVALID_BODY"
)

// Hint provider errors
const (
	ErrCodeHintUnavailable     = "HINT_UNAVAILABLE"
	ErrCodeHintInvalidResponse = "HINT_INVALID_RESPONSE"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeNetworkError        = "NETWORK_ERROR"
)

// Store errors
const (
	ErrCodeStoreFailure = "STORE_FAILURE"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
)

// Error Messages
// Human-readable messages corresponding to error codes

var ImportErrorMessages = map[string]string{
	ErrCodeInvalidSchema: "The source or target schema is empty or has duplicate column names",
	ErrCodeUnknownTable:  "The destination table is not part of the catalog",
	ErrCodeNoData:        "The file has no header row or no data rows",
	ErrCodeInvalidFile:   "The uploaded file could not be read as CSV",
	ErrCodeInvalidBody:   "The request body is not valid JSON for this endpoint",

	ErrCodeHintUnavailable:     "The mapping assistant is not reachable. Use the automatic mapping instead",
	ErrCodeHintInvalidResponse: "The mapping assistant returned a response that is not a JSON object",
	ErrCodeRateLimited:         "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:        "Unable to connect to the mapping assistant",

	ErrCodeStoreFailure: "The destination store rejected the request",
	ErrCodeUnauthorized: "A valid bearer token is required",
	ErrCodeForbidden:    "The token does not allow this operation",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ImportErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
