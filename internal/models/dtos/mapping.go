package dtos

// Transformation tags attached to a FieldMapping
const (
	TransformParseDate        = "parse_date"
	TransformStringToBoolean  = "string_to_boolean"
	TransformStringToUUID     = "string_to_uuid"
	TransformNormalizePhone   = "normalize_phone"
	TransformNormalizeEmail   = "normalize_email"
	TransformTrimString       = "trim_string"
	TransformConcatenateNotes = "concatenate_with_existing"
)

// FieldMapping is one resolved source column to target field pairing
type FieldMapping struct {
	SourceField    string   `json:"sourceField" yaml:"sourceField"`
	TargetField    string   `json:"targetField" yaml:"targetField"`
	Confidence     float64  `json:"confidence" yaml:"confidence"`
	Transformation string   `json:"transformation,omitempty" yaml:"transformation,omitempty"`
	Reasoning      string   `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Insights       []string `json:"insights,omitempty" yaml:"insights,omitempty"`
}

// MappingResult is the output of one analysis pass. It is never persisted.
type MappingResult struct {
	Mappings    []FieldMapping `json:"mappings" yaml:"mappings"`
	Confidence  float64        `json:"confidence" yaml:"confidence"`
	Suggestions []string       `json:"suggestions" yaml:"suggestions"`
	Insights    []string       `json:"insights" yaml:"insights"`
	// UnmappedColumns lists source columns whose data will not be imported
	UnmappedColumns []string `json:"unmappedColumns,omitempty" yaml:"unmappedColumns,omitempty"`
}

// MappingFor returns the mappings that claim the given target field
func (r *MappingResult) MappingFor(target string) []FieldMapping {
	var out []FieldMapping
	for _, m := range r.Mappings {
		if m.TargetField == target {
			out = append(out, m)
		}
	}
	return out
}

// HintMatchKind describes how a hinted header was resolved
type HintMatchKind string

const (
	HintMatchExact           HintMatchKind = "exact"
	HintMatchCaseInsensitive HintMatchKind = "case_insensitive"
	HintMatchFuzzy           HintMatchKind = "fuzzy"
)

// HintMatch is one accepted external hint
type HintMatch struct {
	TargetField string        `json:"targetField"`
	Suggested   string        `json:"suggested"`
	Header      string        `json:"header"`
	Kind        HintMatchKind `json:"kind"`
}

// HintResult is the reconciled output of an external mapping hint
type HintResult struct {
	Mapping  map[string]string `json:"mapping"`
	Matches  []HintMatch       `json:"matches"`
	Warnings []string          `json:"warnings"`
	Summary  string            `json:"summary,omitempty"`
}

// ToFieldMappings converts accepted hints into mappings ordered like Matches
func (h *HintResult) ToFieldMappings() []FieldMapping {
	out := make([]FieldMapping, 0, len(h.Matches))
	for _, m := range h.Matches {
		confidence := 0.7
		switch m.Kind {
		case HintMatchExact:
			confidence = 0.95
		case HintMatchCaseInsensitive:
			confidence = 0.85
		}
		out = append(out, FieldMapping{
			SourceField: m.Header,
			TargetField: m.TargetField,
			Confidence:  confidence,
			Reasoning:   "external hint (" + string(m.Kind) + ")",
		})
	}
	return out
}
