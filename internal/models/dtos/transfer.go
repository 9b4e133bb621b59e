package dtos

// DefaultBatchSize is the chunk size used when a transfer request does not set one
const DefaultBatchSize = 100

// TransferRequest describes one batch transfer run
type TransferRequest struct {
	TargetTable string                 `json:"targetTable" yaml:"targetTable"`
	Mappings    []FieldMapping         `json:"mappings" yaml:"mappings"`
	BatchSize   int                    `json:"batchSize,omitempty" yaml:"batchSize,omitempty"`
	DryRun      bool                   `json:"dryRun" yaml:"dryRun"`
	// Filters keeps only source rows whose columns equal the given values
	Filters map[string]interface{} `json:"filters,omitempty" yaml:"filters,omitempty"`
	// Subject is the authenticated caller, recorded in the run history
	Subject string `json:"-" yaml:"-"`
}

// ChunkResult records the outcome of one chunk
type ChunkResult struct {
	BatchStart         int                 `json:"batchStart"`
	BatchSize          int                 `json:"batchSize"`
	Success            bool                `json:"success"`
	InsertedCount      int                 `json:"insertedCount,omitempty"`
	WouldInsertCount   int                 `json:"wouldInsertCount,omitempty"`
	SkippedCount       int                 `json:"skippedCount,omitempty"`
	Error              string              `json:"error,omitempty"`
	ValidationErrors   []ValidationError   `json:"validationErrors,omitempty"`
	ValidationWarnings []ValidationWarning `json:"validationWarnings,omitempty"`
}

// TransferResult aggregates a whole run
type TransferResult struct {
	RunID            string            `json:"runId,omitempty"`
	TotalProcessed   int               `json:"totalProcessed"`
	SuccessCount     int               `json:"successCount"`
	ErrorCount       int               `json:"errorCount"`
	DryRun           bool              `json:"dryRun"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	Chunks           []ChunkResult     `json:"transferResults"`
}
