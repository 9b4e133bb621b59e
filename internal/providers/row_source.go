package providers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"infinite-experiment/contactimport/internal/models/dtos"
)

// ErrEmptyFile is returned when a CSV has no header row
var ErrEmptyFile = errors.New("csv has no header row")

const utf8BOM = "\ufeff"

// CSVSource holds a parsed CSV export in memory and serves it in pages
type CSVSource struct {
	headers []string
	rows    []dtos.Row
}

// NewCSVSource parses the whole reader. The delimiter is sniffed from the
// header line so semicolon exports from spreadsheet tools also work.
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == utf8BOM {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to skip byte order mark: %w", err)
		}
	}

	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(first)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := UniqueHeaders(records[0])
	src := &CSVSource{headers: headers, rows: make([]dtos.Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(dtos.Row, len(headers))
		for i, h := range headers {
			var val interface{}
			if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
				val = rec[i]
			}
			row[h] = val
		}
		src.rows = append(src.rows, row)
	}
	return src, nil
}

func (s *CSVSource) Headers() []string {
	return append([]string(nil), s.headers...)
}

// Rows returns every parsed row
func (s *CSVSource) Rows() []dtos.Row {
	return s.rows
}

func (s *CSVSource) Count(ctx context.Context) (int, error) {
	return len(s.rows), nil
}

func (s *CSVSource) Fetch(ctx context.Context, offset, limit int) ([]dtos.Row, error) {
	return page(s.rows, offset, limit), nil
}

// SliceSource serves rows that are already in memory
type SliceSource []dtos.Row

func (s SliceSource) Count(ctx context.Context) (int, error) {
	return len(s), nil
}

func (s SliceSource) Fetch(ctx context.Context, offset, limit int) ([]dtos.Row, error) {
	return page(s, offset, limit), nil
}

func page(rows []dtos.Row, offset, limit int) []dtos.Row {
	if offset < 0 || offset >= len(rows) || limit <= 0 {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// UniqueHeaders trims header names, names blank ones column_N and suffixes
// repeats with _2, _3 and so on
func UniqueHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		base := name
		for seen[name] > 0 {
			seen[base]++
			name = base + "_" + strconv.Itoa(seen[base])
		}
		seen[name]++
		out[i] = name
	}
	return out
}

func sniffDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func blankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
