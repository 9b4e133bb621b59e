package providers

import (
	"context"
	"errors"
	"fmt"

	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/models/dtos"
)

// ErrHintUnavailable matches every ProviderError caused by the assistant being unreachable
var ErrHintUnavailable = errors.New("mapping hints unavailable")

// HintProvider asks an external assistant which header fills which destination field.
// The returned map is raw: keys are field names as the assistant spelled them.
type HintProvider interface {
	SuggestMapping(ctx context.Context, headers []string, sampleRow dtos.Row) (map[string]string, error)
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrHintUnavailable) cover transport level failures
func (e *ProviderError) Is(target error) bool {
	if target != ErrHintUnavailable {
		return false
	}
	switch e.Code {
	case constants.ErrCodeHintUnavailable, constants.ErrCodeNetworkError, constants.ErrCodeRateLimited:
		return true
	}
	return false
}
