// Package validation applies mapping transformations to raw rows and checks the
// result against per-table rules.
package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/patterns"
)

// Validator holds rule sets per destination table. Rules are registered at
// startup and only read afterwards.
type Validator struct {
	mu    sync.RWMutex
	rules map[string][]dtos.ValidationRule
}

func NewValidator() *Validator {
	return &Validator{rules: make(map[string][]dtos.ValidationRule)}
}

// AddTableRules replaces the rule set of a table
func (v *Validator) AddTableRules(table string, rules []dtos.ValidationRule) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rules[table] = append([]dtos.ValidationRule(nil), rules...)
}

// Rules returns the rules registered for a table
func (v *Validator) Rules(table string) []dtos.ValidationRule {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rules[table]
}

// UniqueFields lists the fields of table that carry a unique rule, in rule order
func (v *Validator) UniqueFields(table string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range v.Rules(table) {
		if r.Unique && !seen[r.Field] {
			seen[r.Field] = true
			out = append(out, r.Field)
		}
	}
	return out
}

// MissingRequired reports the first required field of table that row has no
// value for. Rows coming out of ValidateAndTransform lose such fields when they
// fail a rule, so this is how callers spot rows the destination cannot accept.
func (v *Validator) MissingRequired(table string, row dtos.Row) (string, bool) {
	for _, r := range v.Rules(table) {
		if r.Required && isEmpty(row[r.Field]) {
			return r.Field, true
		}
	}
	return "", false
}

// ValidateAndTransform maps, transforms and validates every row. A field that
// fails any rule is left out of its output row. The row itself is always kept so
// TransformedData lines up with rows by index.
func (v *Validator) ValidateAndTransform(rows []dtos.Row, mappings []dtos.FieldMapping, table string, existing []dtos.Row) *dtos.ValidationResult {
	rules := v.Rules(table)
	byField := make(map[string][]dtos.ValidationRule)
	for _, r := range rules {
		byField[r.Field] = append(byField[r.Field], r)
	}
	taken := existingValues(existing, rules)

	result := &dtos.ValidationResult{
		Errors:          []dtos.ValidationError{},
		Warnings:        []dtos.ValidationWarning{},
		TransformedData: make([]dtos.Row, 0, len(rows)),
	}

	for i, row := range rows {
		out := dtos.Row{}
		for _, m := range mappings {
			raw := row[m.SourceField]
			value, outcome := v.transform(raw, m, out[m.TargetField], byField[m.TargetField], result)

			if outcome == Failed {
				result.Warnings = append(result.Warnings, dtos.ValidationWarning{
					Field:      m.TargetField,
					Message:    fmt.Sprintf("row %d: could not apply %s to %q, original value kept", i, m.Transformation, stringify(raw)),
					Suggestion: suggestionFor(m.Transformation),
				})
			}

			fieldErrors := validateField(value, m.TargetField, byField[m.TargetField], taken, i)
			if len(fieldErrors) > 0 {
				result.Errors = append(result.Errors, fieldErrors...)
				continue
			}
			// blank cells carry no data
			if !isEmpty(value) {
				out[m.TargetField] = value
			}
		}
		result.TransformedData = append(result.TransformedData, out)
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func (v *Validator) transform(raw interface{}, m dtos.FieldMapping, current interface{}, rules []dtos.ValidationRule, result *dtos.ValidationResult) (interface{}, Outcome) {
	if m.Transformation != dtos.TransformConcatenateNotes {
		return Transform(raw, m.Transformation, current)
	}

	var entry interface{}
	if s := stringify(raw); s != "" {
		entry = m.SourceField + ": " + s
	}
	value, outcome := Transform(entry, m.Transformation, current)
	s, ok := value.(string)
	if !ok {
		return value, outcome
	}
	if capped, truncated := capNotes(s, notesLimit(rules)); truncated {
		result.Warnings = append(result.Warnings, dtos.ValidationWarning{
			Field:      m.TargetField,
			Message:    fmt.Sprintf("notes truncated to %d characters", utf8.RuneCountInString(capped)),
			Suggestion: "map " + m.SourceField + " to a dedicated field",
		})
		return capped, outcome
	}
	return s, outcome
}

func notesLimit(rules []dtos.ValidationRule) int {
	limit := MaxNotesLength
	for _, r := range rules {
		if r.MaxLength > 0 && r.MaxLength < limit {
			limit = r.MaxLength
		}
	}
	return limit
}

func suggestionFor(tag string) string {
	switch tag {
	case dtos.TransformParseDate:
		return "use an ISO 8601 date such as 2024-01-31"
	case dtos.TransformStringToBoolean:
		return "use yes/no, true/false or да/нет"
	case dtos.TransformNormalizePhone:
		return "provide a 10 or 11 digit Russian number"
	}
	return ""
}

// existingValues collects values already stored for every unique field
func existingValues(existing []dtos.Row, rules []dtos.ValidationRule) map[string]map[string]struct{} {
	taken := make(map[string]map[string]struct{})
	for _, r := range rules {
		if !r.Unique {
			continue
		}
		if _, ok := taken[r.Field]; ok {
			continue
		}
		set := make(map[string]struct{})
		for _, rec := range existing {
			if val := rec[r.Field]; val != nil {
				set[uniqueKey(val)] = struct{}{}
			}
		}
		taken[r.Field] = set
	}
	return taken
}

func uniqueKey(v interface{}) string {
	return fmt.Sprint(v)
}

func validateField(value interface{}, field string, rules []dtos.ValidationRule, taken map[string]map[string]struct{}, row int) []dtos.ValidationError {
	var errs []dtos.ValidationError
	fail := func(msg string) {
		r := row
		errs = append(errs, dtos.ValidationError{Field: field, Message: msg, Row: &r, Severity: dtos.SeverityError})
	}

	for _, rule := range rules {
		if rule.Required && isEmpty(value) {
			fail(fmt.Sprintf("field %q is required", field))
			continue
		}
		if isEmpty(value) {
			continue
		}

		if rule.Type != "" && !CheckType(value, rule.Type) {
			fail(fmt.Sprintf("field %q must be of type %s", field, rule.Type))
		}

		if s, ok := value.(string); ok {
			n := utf8.RuneCountInString(s)
			if rule.MinLength > 0 && n < rule.MinLength {
				fail(fmt.Sprintf("field %q must be at least %d characters", field, rule.MinLength))
			}
			if rule.MaxLength > 0 && n > rule.MaxLength {
				fail(fmt.Sprintf("field %q must be at most %d characters", field, rule.MaxLength))
			}
			if rule.Pattern != nil && !rule.Pattern.MatchString(s) {
				fail(fmt.Sprintf("field %q does not match the required format", field))
			}
		}

		if rule.Unique {
			if _, dup := taken[field][uniqueKey(value)]; dup {
				fail(fmt.Sprintf("value %q in field %q already exists", uniqueKey(value), field))
			}
		}

		if rule.Custom != nil {
			if res := rule.Custom(value); !res.OK {
				msg := res.Message
				if msg == "" {
					msg = fmt.Sprintf("field %q failed custom validation", field)
				}
				fail(msg)
			}
		}
	}
	return errs
}

func isEmpty(v interface{}) bool {
	return patterns.IsBlank(v)
}

// CheckType reports whether value has the runtime shape of a declared rule type.
// Unknown types always pass.
func CheckType(value interface{}, typ string) bool {
	switch strings.ToLower(typ) {
	case "string", "varchar", "text", "char", "nvarchar":
		_, ok := value.(string)
		return ok

	case "number", "integer", "int", "bigint", "smallint", "decimal", "numeric":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return true
		case json.Number:
			_, err := v.Float64()
			return err == nil
		case string:
			clean := strings.Map(func(r rune) rune {
				switch r {
				case ' ', '\t', '-', '+', '(', ')':
					return -1
				}
				return r
			}, v)
			if clean == "" {
				return false
			}
			_, err := strconv.ParseFloat(clean, 64)
			return err == nil
		}
		return false

	case "boolean", "bool", "bit":
		switch v := value.(type) {
		case bool:
			return true
		case string:
			word := strings.ToLower(strings.TrimSpace(v))
			for _, w := range append(append([]string{}, trueWords...), falseWords...) {
				if word == w {
					return true
				}
			}
		}
		return false

	case "email":
		s, ok := value.(string)
		return ok && patterns.IsEmail(s)

	case "phone":
		s, ok := value.(string)
		return ok && patterns.IsPhone(s)

	case "uuid":
		s, ok := value.(string)
		return ok && patterns.IsUUID(s)

	case "date", "datetime", "timestamp", "timestamptz":
		return patterns.IsDate(value)

	case "url":
		s, ok := value.(string)
		if !ok {
			return false
		}
		return patterns.IsAbsoluteURL(s) || strings.Contains(s, "://") || strings.Contains(s, "www.")
	}
	return true
}
