package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/patterns"
)

// MaxNotesLength caps concatenated notes, in runes
const MaxNotesLength = 4000

const notesSeparator = " | "

// Outcome reports what a transformation did to a value
type Outcome int

const (
	Unchanged Outcome = iota
	Applied
	// Failed means the value did not fit the transformation and was kept as is
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	default:
		return "unchanged"
	}
}

var (
	trueWords  = []string{"true", "yes", "1", "да", "истина", "on"}
	falseWords = []string{"false", "no", "0", "нет", "ложь", "off"}
)

// Transform rewrites a single value according to a mapping tag. existing is the
// value already held by the target field and is only used for concatenation.
// It never panics; nil values pass through untouched.
func Transform(value interface{}, tag string, existing interface{}) (interface{}, Outcome) {
	if tag == "" {
		return value, Unchanged
	}
	if tag == dtos.TransformConcatenateNotes {
		return concatenate(value, existing)
	}
	if value == nil {
		return nil, Unchanged
	}

	switch tag {
	case dtos.TransformParseDate:
		return parseDate(value)

	case dtos.TransformStringToBoolean:
		return toBoolean(value)

	case dtos.TransformStringToUUID:
		s, ok := value.(string)
		if !ok {
			return value, Unchanged
		}
		if patterns.IsUUID(s) {
			return strings.TrimSpace(s), Applied
		}
		return nil, Applied

	case dtos.TransformNormalizePhone:
		s, ok := value.(string)
		if !ok {
			return value, Failed
		}
		if phone, ok := NormalizePhone(s); ok {
			return phone, Applied
		}
		return value, Failed

	case dtos.TransformNormalizeEmail:
		if s, ok := value.(string); ok {
			return strings.ToLower(strings.TrimSpace(s)), Applied
		}
		return value, Unchanged

	case dtos.TransformTrimString:
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s), Applied
		}
		return value, Unchanged
	}
	return value, Unchanged
}

// NormalizePhone rewrites Russian numbers to +7XXXXXXXXXX
func NormalizePhone(s string) (string, bool) {
	digits := patterns.Digits(s)
	switch {
	case len(digits) == 11 && digits[0] == '8':
		return "+7" + digits[1:], true
	case len(digits) == 10:
		return "+7" + digits, true
	case len(digits) == 11 && digits[0] == '7':
		return "+" + digits, true
	}
	return "", false
}

func parseDate(value interface{}) (interface{}, Outcome) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339), Applied
	case string:
		if t, ok := patterns.ParseDate(v); ok {
			return t.UTC().Format(time.RFC3339), Applied
		}
	}
	return value, Failed
}

func toBoolean(value interface{}) (interface{}, Outcome) {
	switch v := value.(type) {
	case bool:
		return v, Unchanged
	case string:
		word := strings.ToLower(strings.TrimSpace(v))
		for _, w := range trueWords {
			if word == w {
				return true, Applied
			}
		}
		for _, w := range falseWords {
			if word == w {
				return false, Applied
			}
		}
	}
	return value, Failed
}

// concatenate appends value to existing notes, skipping an entry that is already present
func concatenate(value, existing interface{}) (interface{}, Outcome) {
	entry := stringify(value)
	prev := stringify(existing)

	switch {
	case entry == "":
		if existing == nil {
			return value, Unchanged
		}
		return existing, Unchanged
	case prev == "":
		return entry, Applied
	}

	for _, part := range strings.Split(prev, notesSeparator) {
		if part == entry {
			return existing, Unchanged
		}
	}
	return prev + notesSeparator + entry, Applied
}

// capNotes truncates s to limit runes, ending with an ellipsis
func capNotes(s string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…", true
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return fmt.Sprint(val)
	}
}
