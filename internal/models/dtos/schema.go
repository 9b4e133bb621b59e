package dtos

import (
	"errors"
	"fmt"
	"strings"
)

// ColumnType is the semantic storage type tag of a column
type ColumnType string

const (
	TypeVarchar     ColumnType = "VARCHAR"
	TypeText        ColumnType = "TEXT"
	TypeInteger     ColumnType = "INTEGER"
	TypeBigint      ColumnType = "BIGINT"
	TypeBoolean     ColumnType = "BOOLEAN"
	TypeTimestampTZ ColumnType = "TIMESTAMPTZ"
	TypeDate        ColumnType = "DATE"
	TypeUUID        ColumnType = "UUID"
	TypeJSONB       ColumnType = "JSONB"
)

// Row is one parsed record: column name to raw value, blank cells already nil
type Row map[string]interface{}

// ColumnInfo describes one observed or declared column
type ColumnInfo struct {
	Name         string        `json:"name" yaml:"name"`
	Type         ColumnType    `json:"type" yaml:"type"`
	Nullable     bool          `json:"nullable" yaml:"nullable"`
	SampleValues []interface{} `json:"sampleValues,omitempty" yaml:"sampleValues,omitempty"`
	// Overflow marks the catch-all notes column of a destination table
	Overflow bool `json:"overflow,omitempty" yaml:"overflow,omitempty"`
}

// TableSchema is either an inferred source structure or a destination table
type TableSchema struct {
	TableName string       `json:"tableName" yaml:"tableName"`
	Columns   []ColumnInfo `json:"columns" yaml:"columns"`
}

var ErrEmptySchema = errors.New("schema has no columns")

// Validate checks that the schema has columns with unique, non-empty names
func (s *TableSchema) Validate() error {
	if s == nil || len(s.Columns) == 0 {
		return ErrEmptySchema
	}

	seen := make(map[string]struct{}, len(s.Columns))
	for i, col := range s.Columns {
		name := strings.TrimSpace(col.Name)
		if name == "" {
			return fmt.Errorf("column %d of %q has no name", i, s.TableName)
		}
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("duplicate column %q in %q", col.Name, s.TableName)
		}
		seen[col.Name] = struct{}{}
	}
	return nil
}

// Column returns the column with the given name
func (s *TableSchema) Column(name string) (ColumnInfo, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnInfo{}, false
}

// ColumnNames returns column names in declaration order
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}
