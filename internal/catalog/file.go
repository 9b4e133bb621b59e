package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"

	"infinite-experiment/contactimport/internal/models/dtos"
)

type fileDocument struct {
	Tables []fileTable `yaml:"tables"`
}

type fileTable struct {
	Name    string            `yaml:"name"`
	Columns []dtos.ColumnInfo `yaml:"columns"`
	Rules   []fileRule        `yaml:"rules"`
}

type fileRule struct {
	Field     string `yaml:"field"`
	Required  bool   `yaml:"required"`
	Type      string `yaml:"type"`
	MinLength int    `yaml:"minLength"`
	MaxLength int    `yaml:"maxLength"`
	Pattern   string `yaml:"pattern"`
	Unique    bool   `yaml:"unique"`
}

// LoadFile reads a YAML catalog and merges it over the built-in tables.
// A table in the file replaces the built-in table of the same name.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data, Default())
}

// Parse decodes a YAML catalog document and merges it over base
func Parse(data []byte, base *Catalog) (*Catalog, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	merged := New()
	if base != nil {
		for _, name := range base.order {
			merged.put(base.tables[name])
		}
	}

	for i, ft := range doc.Tables {
		table, err := ft.toTable()
		if err != nil {
			return nil, fmt.Errorf("table %d: %w", i, err)
		}
		merged.put(table)
	}
	return merged, nil
}

func (ft fileTable) toTable() (Table, error) {
	name := strings.TrimSpace(ft.Name)
	if name == "" {
		return Table{}, fmt.Errorf("table has no name")
	}

	schema := dtos.TableSchema{TableName: name, Columns: ft.Columns}
	for i := range schema.Columns {
		schema.Columns[i].Type = dtos.ColumnType(strings.ToUpper(string(schema.Columns[i].Type)))
		if schema.Columns[i].Type == "" {
			schema.Columns[i].Type = dtos.TypeVarchar
		}
	}
	if err := schema.Validate(); err != nil {
		return Table{}, fmt.Errorf("%s: %w", name, err)
	}

	rules := make([]dtos.ValidationRule, 0, len(ft.Rules))
	for _, fr := range ft.Rules {
		if _, ok := schema.Column(fr.Field); !ok {
			return Table{}, fmt.Errorf("%s: rule for unknown field %q", name, fr.Field)
		}
		rule := dtos.ValidationRule{
			Field:     fr.Field,
			Required:  fr.Required,
			Type:      fr.Type,
			MinLength: fr.MinLength,
			MaxLength: fr.MaxLength,
			Unique:    fr.Unique,
		}
		if fr.Pattern != "" {
			re, err := regexp.Compile(fr.Pattern)
			if err != nil {
				return Table{}, fmt.Errorf("%s.%s: bad pattern: %w", name, fr.Field, err)
			}
			rule.Pattern = re
		}
		rules = append(rules, rule)
	}

	return Table{Schema: schema, Rules: rules}, nil
}
