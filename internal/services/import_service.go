package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"infinite-experiment/contactimport/internal/catalog"
	"infinite-experiment/contactimport/internal/classifier"
	"infinite-experiment/contactimport/internal/inference"
	"infinite-experiment/contactimport/internal/jobs"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/mapper"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/models/dtos/responses"
	gormModels "infinite-experiment/contactimport/internal/models/gorm"
	"infinite-experiment/contactimport/internal/patterns"
	"infinite-experiment/contactimport/internal/providers"
	"infinite-experiment/contactimport/internal/validation"
)

// Assignment names accepted from callers
const (
	AssignmentIndependent = "independent"
	AssignmentExclusive   = "exclusive"
)

var ErrUnknownAssignment = errors.New("unknown assignment policy")

// RecordStore is the destination store as the service needs it
type RecordStore interface {
	jobs.Store
}

// RunHistory records and lists import runs
type RunHistory interface {
	jobs.RunRecorder
	Recent(ctx context.Context, table string, limit int) ([]gormModels.ImportRun, error)
}

// ImportServiceDeps wires the service. Runs, Hints and Metrics may be nil.
type ImportServiceDeps struct {
	Catalog   *catalog.Catalog
	Store     RecordStore
	Runs      RunHistory
	Hints     providers.HintProvider
	Metrics   *metrics.MetricsRegistry
	BatchSize int
}

// ImportService holds the analyze, validate, transfer and hint use cases
// shared by the HTTP API and the CLI
type ImportService struct {
	catalog   *catalog.Catalog
	lib       *patterns.Library
	engines   map[string]*mapper.Engine
	validator *validation.Validator
	store     RecordStore
	runs      RunHistory
	hints     providers.HintProvider
	metrics   *metrics.MetricsRegistry
	batchSize int
}

// NewImportService creates a new import service
func NewImportService(deps ImportServiceDeps) *ImportService {
	cat := deps.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	lib := patterns.Default()
	cls := classifier.New(lib)

	validator := validation.NewValidator()
	cat.RegisterRules(validator)

	batch := deps.BatchSize
	if batch <= 0 {
		batch = dtos.DefaultBatchSize
	}

	return &ImportService{
		catalog: cat,
		lib:     lib,
		engines: map[string]*mapper.Engine{
			AssignmentIndependent: mapper.New(lib, cls),
			AssignmentExclusive:   mapper.New(lib, cls, mapper.WithAssignment(mapper.AssignExclusive)),
		},
		validator: validator,
		store:     deps.Store,
		runs:      deps.Runs,
		hints:     deps.Hints,
		metrics:   deps.Metrics,
		batchSize: batch,
	}
}

// Catalog lists the destination tables with their rules
func (s *ImportService) Catalog() []responses.CatalogTable {
	tables := s.catalog.Tables()
	out := make([]responses.CatalogTable, 0, len(tables))
	for _, t := range tables {
		out = append(out, responses.CatalogTable{Schema: t, Rules: s.catalog.Rules(t.TableName)})
	}
	return out
}

// AnalyzeMapping maps a source schema onto a catalog table
func (s *ImportService) AnalyzeMapping(source *dtos.TableSchema, targetTable, assignment string) (*dtos.MappingResult, error) {
	if assignment == "" {
		assignment = AssignmentIndependent
	}
	engine, ok := s.engines[strings.ToLower(assignment)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAssignment, assignment)
	}

	target, err := s.catalog.Schema(targetTable)
	if err != nil {
		return nil, err
	}

	result, err := engine.AnalyzeAndMap(source, target)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MappingsAnalyzedTotal.WithLabelValues(targetTable).Inc()
		s.metrics.MappingConfidence.WithLabelValues(targetTable).Observe(result.Confidence)
		s.metrics.UnmappedColumnsTotal.WithLabelValues(targetTable).Add(float64(len(result.UnmappedColumns)))
	}
	logging.Debug("Mapping analysed",
		"table", targetTable,
		"mappings", len(result.Mappings),
		"unmapped", len(result.UnmappedColumns),
		"confidence", result.Confidence,
	)
	return result, nil
}

// AnalyzeFile parses a CSV upload, infers its schema and maps it. The parsed
// source is returned so callers can go on to a transfer without reparsing.
func (s *ImportService) AnalyzeFile(r io.Reader, fileName, targetTable string) (*responses.FileAnalysisResponse, *providers.CSVSource, error) {
	if _, err := s.catalog.Schema(targetTable); err != nil {
		return nil, nil, err
	}

	src, err := providers.NewCSVSource(r)
	if err != nil {
		if errors.Is(err, providers.ErrEmptyFile) {
			return nil, nil, fmt.Errorf("%w: %v", inference.ErrNoData, err)
		}
		return nil, nil, err
	}

	rows := src.Rows()
	schema, err := inference.BuildSourceSchema(fileName, src.Headers(), rows)
	if err != nil {
		return nil, nil, err
	}

	mapping, err := s.AnalyzeMapping(schema, targetTable, AssignmentIndependent)
	if err != nil {
		return nil, nil, err
	}

	preview := rows
	if len(preview) > inference.PreviewRows {
		preview = preview[:inference.PreviewRows]
	}
	return &responses.FileAnalysisResponse{
		Columns:      src.Headers(),
		SampleData:   preview,
		TotalRows:    len(rows),
		SourceSchema: schema,
		Mapping:      mapping,
	}, src, nil
}

// Validate runs the pipeline over rows without writing anything. Values already
// stored count against unique rules.
func (s *ImportService) Validate(ctx context.Context, rows []dtos.Row, mappings []dtos.FieldMapping, table string) (*dtos.ValidationResult, error) {
	if _, err := s.catalog.Schema(table); err != nil {
		return nil, err
	}

	var existing []dtos.Row
	if fields := s.validator.UniqueFields(table); len(fields) > 0 && s.store != nil {
		var err error
		existing, err = s.store.ExistingValues(ctx, table, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing values: %w", err)
		}
	}

	result := s.validator.ValidateAndTransform(rows, mappings, table, existing)
	if s.metrics != nil && len(result.Errors) > 0 {
		s.metrics.ValidationErrorsTotal.WithLabelValues(table).Add(float64(len(result.Errors)))
	}
	return result, nil
}

// Transfer validates and loads every row of source into req.TargetTable
func (s *ImportService) Transfer(ctx context.Context, source jobs.RowSource, req dtos.TransferRequest) (*dtos.TransferResult, error) {
	if _, err := s.catalog.Schema(req.TargetTable); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, errors.New("no destination store configured")
	}
	if req.BatchSize <= 0 {
		req.BatchSize = s.batchSize
	}

	opts := []jobs.Option{jobs.WithMetrics(s.metrics)}
	if s.runs != nil {
		opts = append(opts, jobs.WithRecorder(s.runs))
	}
	return jobs.NewTransferJob(s.store, s.validator, opts...).Run(ctx, source, req)
}

// SuggestHints asks the hint provider for a mapping and reconciles it against
// the headers and the table's fields
func (s *ImportService) SuggestHints(ctx context.Context, headers []string, sampleRow dtos.Row, table string) (*dtos.HintResult, error) {
	if table == "" {
		table = catalog.TableContacts
	}
	fields, err := s.catalog.Fields(table)
	if err != nil {
		return nil, err
	}
	if s.hints == nil {
		return nil, providers.ErrHintUnavailable
	}

	raw, err := s.hints.SuggestMapping(ctx, headers, sampleRow)
	if err != nil {
		return nil, err
	}

	result := mapper.ReconcileHints(s.lib, raw, headers, fields)
	return &result, nil
}

// RecentRuns lists import history, newest first
func (s *ImportService) RecentRuns(ctx context.Context, table string, limit int) ([]responses.ImportRunSummary, error) {
	if s.runs == nil {
		return []responses.ImportRunSummary{}, nil
	}

	runs, err := s.runs.Recent(ctx, table, limit)
	if err != nil {
		return nil, err
	}

	out := make([]responses.ImportRunSummary, 0, len(runs))
	for _, r := range runs {
		out = append(out, responses.ImportRunSummary{
			ID:             r.ID,
			TargetTable:    r.TargetTable,
			Subject:        r.Subject,
			Status:         r.Status,
			TotalProcessed: r.TotalProcessed,
			SuccessCount:   r.SuccessCount,
			ErrorCount:     r.ErrorCount,
			ChunkCount:     r.ChunkCount,
			Errors:         r.Errors,
			StartedAt:      r.StartedAt,
			FinishedAt:     r.FinishedAt,
		})
	}
	return out, nil
}
