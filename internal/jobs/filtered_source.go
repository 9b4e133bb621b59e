package jobs

import (
	"context"
	"fmt"
	"strings"

	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/patterns"
)

// filterPageSize is how many source rows are read per call while filtering
const filterPageSize = 500

// filteredSource serves only the source rows matching every filter. The
// matching rows are collected on the first Count, so offsets refer to the
// filtered set.
type filteredSource struct {
	src     RowSource
	filters map[string]interface{}
	rows    []dtos.Row
	loaded  bool
}

func newFilteredSource(src RowSource, filters map[string]interface{}) *filteredSource {
	return &filteredSource{src: src, filters: filters}
}

func (s *filteredSource) Count(ctx context.Context) (int, error) {
	if err := s.load(ctx); err != nil {
		return 0, err
	}
	return len(s.rows), nil
}

func (s *filteredSource) Fetch(ctx context.Context, offset, limit int) ([]dtos.Row, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	if offset >= len(s.rows) {
		return []dtos.Row{}, nil
	}
	end := offset + limit
	if end > len(s.rows) {
		end = len(s.rows)
	}
	return s.rows[offset:end], nil
}

func (s *filteredSource) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	total, err := s.src.Count(ctx)
	if err != nil {
		return err
	}
	for offset := 0; offset < total; offset += filterPageSize {
		page, err := s.src.Fetch(ctx, offset, filterPageSize)
		if err != nil {
			return fmt.Errorf("failed to filter source rows at %d: %w", offset, err)
		}
		for _, row := range page {
			if matchesFilters(row, s.filters) {
				s.rows = append(s.rows, row)
			}
		}
	}
	s.loaded = true
	return nil
}

// matchesFilters compares printed values, so a JSON number 5 selects the CSV
// cell "5". A nil filter value selects blank cells.
func matchesFilters(row dtos.Row, filters map[string]interface{}) bool {
	for key, want := range filters {
		got := row[key]
		if want == nil {
			if !patterns.IsBlank(got) {
				return false
			}
			continue
		}
		if patterns.IsBlank(got) || strings.TrimSpace(fmt.Sprint(got)) != strings.TrimSpace(fmt.Sprint(want)) {
			return false
		}
	}
	return true
}
