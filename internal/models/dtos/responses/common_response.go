package responses

import (
	"time"

	"infinite-experiment/contactimport/internal/models/dtos"
)

type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}

// FileAnalysisResponse is returned for an uploaded CSV before any import
type FileAnalysisResponse struct {
	Columns      []string            `json:"columns"`
	SampleData   []dtos.Row          `json:"sampleData"`
	TotalRows    int                 `json:"totalRows"`
	SourceSchema *dtos.TableSchema   `json:"sourceSchema"`
	Mapping      *dtos.MappingResult `json:"mapping"`
}

type CatalogTable struct {
	Schema dtos.TableSchema      `json:"schema"`
	Rules  []dtos.ValidationRule `json:"rules"`
}

type ImportRunSummary struct {
	ID             string                 `json:"id"`
	TargetTable    string                 `json:"targetTable"`
	Subject        string                 `json:"subject,omitempty"`
	Status         string                 `json:"status"`
	TotalProcessed int                    `json:"totalProcessed"`
	SuccessCount   int                    `json:"successCount"`
	ErrorCount     int                    `json:"errorCount"`
	ChunkCount     int                    `json:"chunkCount"`
	Errors         map[string]interface{} `json:"errors,omitempty"`
	StartedAt      time.Time              `json:"startedAt"`
	FinishedAt     *time.Time             `json:"finishedAt,omitempty"`
}
