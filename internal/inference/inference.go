// Package inference guesses column storage types from a prefix of parsed rows.
package inference

import (
	"errors"
	"strings"
	"unicode/utf8"

	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/patterns"
)

const (
	// SampleRows is the prefix inspected by type and nullability inference
	SampleRows = 10
	// PreviewRows is the number of sample values kept on each ColumnInfo
	PreviewRows = 5

	longTextRunes = 255
)

var ErrNoData = errors.New("no rows to infer a schema from")

// Rule names the inference step that decided a column type
type Rule string

const (
	RuleEmail    Rule = "email"
	RulePhone    Rule = "phone"
	RuleName     Rule = "name"
	RuleCompany  Rule = "company"
	RuleURL      Rule = "url"
	RuleNumber   Rule = "number"
	RuleDate     Rule = "date"
	RuleLongText Rule = "long_text"
	RuleDefault  Rule = "default"
)

type Inference struct {
	Type dtos.ColumnType `json:"type"`
	Rule Rule            `json:"rule"`
}

type nameRule struct {
	rule   Rule
	tokens []string
	check  func(string) bool
	result dtos.ColumnType
}

var nameRules = []nameRule{
	{RuleEmail, []string{"mail", "почта", "email"}, patterns.IsEmail, dtos.TypeVarchar},
	{RulePhone, []string{"phone", "телефон", "tel"}, patterns.IsPhone, dtos.TypeVarchar},
	{RuleName, []string{"name", "имя", "fname", "lname"}, patterns.IsPersonName, dtos.TypeVarchar},
	{RuleCompany, []string{"company", "компания", "org", "work"}, patterns.IsCompanyName, dtos.TypeVarchar},
	{RuleURL, []string{"url", "link", "profile"}, patterns.IsAbsoluteURL, dtos.TypeText},
}

func InferType(rows []dtos.Row, column string) dtos.ColumnType {
	return Infer(rows, column).Type
}

// Infer applies the ordered rules to the non-empty values of the first SampleRows rows.
// Name-keyed rules need both a matching token and at least 80% of values in shape.
func Infer(rows []dtos.Row, column string) Inference {
	values := sampleValues(rows, column)
	if len(values) == 0 {
		return Inference{Type: dtos.TypeVarchar, Rule: RuleDefault}
	}

	name := strings.ToLower(column)
	for _, nr := range nameRules {
		if !containsAny(name, nr.tokens) {
			continue
		}
		if atLeast(count(values, stringCheck(nr.check)), len(values), 4, 5) {
			return Inference{Type: nr.result, Rule: nr.rule}
		}
	}

	if atLeast(count(values, patterns.IsNumeric), len(values), 4, 5) {
		return Inference{Type: dtos.TypeInteger, Rule: RuleNumber}
	}
	if atLeast(count(values, patterns.IsDate), len(values), 4, 5) {
		return Inference{Type: dtos.TypeTimestampTZ, Rule: RuleDate}
	}

	long := count(values, func(v interface{}) bool {
		s, ok := v.(string)
		return ok && utf8.RuneCountInString(s) > longTextRunes
	})
	if atLeast(long, len(values), 1, 2) {
		return Inference{Type: dtos.TypeText, Rule: RuleLongText}
	}

	return Inference{Type: dtos.TypeVarchar, Rule: RuleDefault}
}

// IsNullable reports whether any of the first SampleRows rows lacks a value
func IsNullable(rows []dtos.Row, column string) bool {
	for _, row := range prefix(rows, SampleRows) {
		if patterns.IsBlank(row[column]) {
			return true
		}
	}
	return false
}

// BuildSourceSchema describes uploaded rows, keeping the header order
func BuildSourceSchema(tableName string, headers []string, rows []dtos.Row) (*dtos.TableSchema, error) {
	if len(rows) == 0 || len(headers) == 0 {
		return nil, ErrNoData
	}

	preview := prefix(rows, PreviewRows)
	schema := &dtos.TableSchema{
		TableName: tableName,
		Columns:   make([]dtos.ColumnInfo, 0, len(headers)),
	}
	for _, h := range headers {
		samples := make([]interface{}, len(preview))
		for i, row := range preview {
			samples[i] = row[h]
		}
		schema.Columns = append(schema.Columns, dtos.ColumnInfo{
			Name:         h,
			Type:         InferType(rows, h),
			Nullable:     IsNullable(rows, h),
			SampleValues: samples,
		})
	}
	return schema, nil
}

func prefix(rows []dtos.Row, n int) []dtos.Row {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func sampleValues(rows []dtos.Row, column string) []interface{} {
	var out []interface{}
	for _, row := range prefix(rows, SampleRows) {
		if v := row[column]; !patterns.IsBlank(v) {
			out = append(out, v)
		}
	}
	return out
}

// atLeast reports n/total >= num/den without floating point
func atLeast(n, total, num, den int) bool {
	return n*den >= total*num
}

func count(values []interface{}, fn func(interface{}) bool) int {
	n := 0
	for _, v := range values {
		if fn(v) {
			n++
		}
	}
	return n
}

func stringCheck(fn func(string) bool) func(interface{}) bool {
	return func(v interface{}) bool {
		s, ok := v.(string)
		return ok && fn(s)
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
