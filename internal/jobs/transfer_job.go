package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/models/dtos"
	gormModels "infinite-experiment/contactimport/internal/models/gorm"
	"infinite-experiment/contactimport/internal/validation"
)

// RowSource serves the parsed source rows in pages
type RowSource interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, offset, limit int) ([]dtos.Row, error)
}

// Store is the destination the transfer writes to. ExistingValues returns one
// row per stored value of each field, which is all a uniqueness check needs.
type Store interface {
	Insert(ctx context.Context, table string, rows []dtos.Row) ([]dtos.Row, error)
	ExistingValues(ctx context.Context, table string, fields []string) ([]dtos.Row, error)
}

// RunRecorder keeps the history of non dry-run transfers
type RunRecorder interface {
	RecordRun(ctx context.Context, run *gormModels.ImportRun) error
}

// TransferJob validates and loads source rows chunk by chunk
type TransferJob struct {
	store     Store
	validator *validation.Validator
	recorder  RunRecorder
	metrics   *metrics.MetricsRegistry
}

type Option func(*TransferJob)

// WithRecorder stores a history entry after every non dry-run
func WithRecorder(r RunRecorder) Option {
	return func(j *TransferJob) { j.recorder = r }
}

func WithMetrics(m *metrics.MetricsRegistry) Option {
	return func(j *TransferJob) { j.metrics = m }
}

// NewTransferJob creates a new transfer job instance
func NewTransferJob(store Store, validator *validation.Validator, opts ...Option) *TransferJob {
	j := &TransferJob{store: store, validator: validator}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run moves every source row into req.TargetTable. Only the initial lookups are
// fatal; a failing chunk is recorded and the run goes on. Chunks run one after
// another so each sees the rows the previous ones accepted.
func (j *TransferJob) Run(ctx context.Context, source RowSource, req dtos.TransferRequest) (*dtos.TransferResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := logging.WithJob("transfer", runID)

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = dtos.DefaultBatchSize
	}

	result := &dtos.TransferResult{
		RunID:            runID,
		DryRun:           req.DryRun,
		ValidationErrors: []dtos.ValidationError{},
		Chunks:           []dtos.ChunkResult{},
	}

	// unique rules see every stored value, whatever the filters select
	var accumulated []dtos.Row
	if fields := j.validator.UniqueFields(req.TargetTable); len(fields) > 0 {
		existing, err := j.store.ExistingValues(ctx, req.TargetTable, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing records: %w", err)
		}
		accumulated = existing
	}

	if len(req.Filters) > 0 {
		source = newFilteredSource(source, req.Filters)
	}

	total, err := source.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count source rows: %w", err)
	}
	if total == 0 {
		log.Infow("Nothing to transfer", "table", req.TargetTable)
		return result, nil
	}

	log.Infow("Starting transfer",
		"table", req.TargetTable,
		"total", total,
		"batch_size", batchSize,
		"dry_run", req.DryRun,
	)

	for offset := 0; offset < total; offset += batchSize {
		if err := ctx.Err(); err != nil {
			log.Warnw("Transfer cancelled", "chunk_start", offset, "error", err)
			j.finish(ctx, result, req, start)
			return result, err
		}

		size := batchSize
		if rest := total - offset; rest < size {
			size = rest
		}

		chunk, stored := j.runChunk(ctx, source, req, offset, size, accumulated, result)
		accumulated = append(accumulated, stored...)

		result.Chunks = append(result.Chunks, chunk)
		result.TotalProcessed += size

		status := "success"
		if !chunk.Success {
			status = "failed"
			log.Warnw("Chunk failed", "chunk_start", offset, "size", size, "error", chunk.Error)
		} else {
			log.Debugw("Chunk done",
				"chunk_start", offset,
				"size", size,
				"inserted", chunk.InsertedCount,
				"would_insert", chunk.WouldInsertCount,
				"validation_errors", len(chunk.ValidationErrors),
			)
		}
		if j.metrics != nil {
			j.metrics.TransferChunksTotal.WithLabelValues(req.TargetTable, status).Inc()
		}
	}

	j.finish(ctx, result, req, start)
	log.Infow("Transfer finished",
		"table", req.TargetTable,
		"processed", result.TotalProcessed,
		"success", result.SuccessCount,
		"errors", result.ErrorCount,
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
	)
	return result, nil
}

// runChunk handles one page and returns the rows to add to the accumulator
func (j *TransferJob) runChunk(
	ctx context.Context,
	source RowSource,
	req dtos.TransferRequest,
	offset, size int,
	accumulated []dtos.Row,
	result *dtos.TransferResult,
) (dtos.ChunkResult, []dtos.Row) {
	chunk := dtos.ChunkResult{BatchStart: offset, BatchSize: size}

	rows, err := source.Fetch(ctx, offset, size)
	if err != nil {
		chunk.Error = err.Error()
		result.ErrorCount += size
		return chunk, nil
	}

	vr := j.validator.ValidateAndTransform(rows, req.Mappings, req.TargetTable, accumulated)

	// row indexes are reported relative to the whole source
	for i := range vr.Errors {
		if vr.Errors[i].Row != nil {
			abs := *vr.Errors[i].Row + offset
			vr.Errors[i].Row = &abs
		}
	}
	chunk.ValidationErrors = vr.Errors
	chunk.ValidationWarnings = vr.Warnings
	result.ValidationErrors = append(result.ValidationErrors, vr.Errors...)
	if j.metrics != nil && len(vr.Errors) > 0 {
		j.metrics.ValidationErrorsTotal.WithLabelValues(req.TargetTable).Add(float64(len(vr.Errors)))
	}

	candidates := make([]dtos.Row, 0, len(vr.TransformedData))
	for i, row := range vr.TransformedData {
		if len(row) == 0 {
			continue
		}
		// a required field that failed validation was dropped from the row
		if field, missing := j.validator.MissingRequired(req.TargetTable, row); missing {
			chunk.SkippedCount++
			chunk.ValidationWarnings = append(chunk.ValidationWarnings, dtos.ValidationWarning{
				Field:   field,
				Message: fmt.Sprintf("row %d skipped: required field %q has no valid value", offset+i, field),
			})
			continue
		}
		candidates = append(candidates, row)
	}
	result.ErrorCount += chunk.SkippedCount

	if req.DryRun {
		chunk.Success = true
		chunk.WouldInsertCount = len(candidates)
		result.SuccessCount += len(candidates)
		return chunk, candidates
	}

	if len(candidates) == 0 {
		chunk.Success = true
		return chunk, nil
	}

	inserted, err := j.store.Insert(ctx, req.TargetTable, candidates)
	if err != nil {
		chunk.Error = err.Error()
		result.ErrorCount += len(candidates)
		return chunk, nil
	}

	chunk.Success = true
	chunk.InsertedCount = len(inserted)
	result.SuccessCount += len(inserted)
	return chunk, inserted
}

func (j *TransferJob) finish(ctx context.Context, result *dtos.TransferResult, req dtos.TransferRequest, start time.Time) {
	if j.metrics != nil {
		outcome := "inserted"
		if req.DryRun {
			outcome = "would_insert"
		}
		j.metrics.TransferRowsTotal.WithLabelValues(req.TargetTable, outcome).Add(float64(result.SuccessCount))
		j.metrics.TransferRowsTotal.WithLabelValues(req.TargetTable, "failed").Add(float64(result.ErrorCount))
		j.metrics.TransferJobDuration.
			WithLabelValues(req.TargetTable, strconv.FormatBool(req.DryRun)).
			Observe(time.Since(start).Seconds())
	}

	if req.DryRun || j.recorder == nil {
		return
	}

	now := time.Now().UTC()
	run := &gormModels.ImportRun{
		ID:             result.RunID,
		TargetTable:    req.TargetTable,
		Subject:        req.Subject,
		Status:         gormModels.RunStatus(result.SuccessCount, result.ErrorCount),
		TotalProcessed: result.TotalProcessed,
		SuccessCount:   result.SuccessCount,
		ErrorCount:     result.ErrorCount,
		ChunkCount:     len(result.Chunks),
		StartedAt:      start.UTC(),
		FinishedAt:     &now,
	}
	failures := gormModels.JSONB{}
	for _, c := range result.Chunks {
		if c.Error != "" {
			failures["chunk_"+strconv.Itoa(c.BatchStart)] = c.Error
		}
	}
	if len(failures) > 0 {
		run.Errors = failures
	}

	// history is best effort; the rows are already written
	if err := j.recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		logging.Error("Failed to record import run", "run_id", result.RunID, "error", err)
	}
}
