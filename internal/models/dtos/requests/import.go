package requests

import "infinite-experiment/contactimport/internal/models/dtos"

// AnalyzeMappingRequest maps an already known source schema onto a catalog table
type AnalyzeMappingRequest struct {
	Source      dtos.TableSchema `json:"source" validate:"required"`
	TargetTable string           `json:"targetTable" validate:"required"`
	// Assignment is "independent" (default) or "exclusive"
	Assignment string `json:"assignment,omitempty"`
}

type ValidateRowsRequest struct {
	Rows        []dtos.Row          `json:"rows"`
	Mappings    []dtos.FieldMapping `json:"mappings" validate:"required"`
	TargetTable string              `json:"targetTable" validate:"required"`
}

type TransferRowsRequest struct {
	Rows        []dtos.Row             `json:"rows"`
	Mappings    []dtos.FieldMapping    `json:"mappings" validate:"required"`
	TargetTable string                 `json:"targetTable" validate:"required"`
	BatchSize   int                    `json:"batchSize,omitempty"`
	DryRun      bool                   `json:"dryRun"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
}

// MappingHintRequest asks the assistant for a header mapping
type MappingHintRequest struct {
	Headers     []string `json:"headers" validate:"required"`
	SampleRow   dtos.Row `json:"sampleRow,omitempty"`
	TargetTable string   `json:"targetTable,omitempty"`
}
