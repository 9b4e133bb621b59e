package dtos

import "regexp"

const SeverityError = "error"

// CustomResult is the outcome of a custom rule predicate
type CustomResult struct {
	OK      bool
	Message string
}

// Pass is the passing CustomResult
func Pass() CustomResult { return CustomResult{OK: true} }

// Fail is a failing CustomResult, an empty message means the generic one
func Fail(message string) CustomResult { return CustomResult{Message: message} }

// ValidationRule is a declarative per-field check
type ValidationRule struct {
	Field     string                               `json:"field" yaml:"field"`
	Required  bool                                 `json:"required,omitempty" yaml:"required,omitempty"`
	Type      string                               `json:"type,omitempty" yaml:"type,omitempty"`
	MinLength int                                  `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength int                                  `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   *regexp.Regexp                       `json:"-" yaml:"-"`
	Unique    bool                                 `json:"unique,omitempty" yaml:"unique,omitempty"`
	Custom    func(value interface{}) CustomResult `json:"-" yaml:"-"`
}

type ValidationError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Row      *int   `json:"row,omitempty"`
	Severity string `json:"severity"`
}

type ValidationWarning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResult is produced once per validation pass over a batch
type ValidationResult struct {
	IsValid         bool                `json:"isValid"`
	Errors          []ValidationError   `json:"errors"`
	Warnings        []ValidationWarning `json:"warnings"`
	TransformedData []Row               `json:"transformedData,omitempty"`
}
