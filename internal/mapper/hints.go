package mapper

import (
	"fmt"
	"sort"
	"strings"

	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/patterns"
)

// ReconcileHints checks an external {field: header} proposal against the real headers.
// Keys are folded to canonical field names; anything that cannot be tied to a
// valid field and an existing header is dropped with a warning.
func ReconcileHints(lib *patterns.Library, raw map[string]string, headers, validFields []string) dtos.HintResult {
	if lib == nil {
		lib = patterns.Default()
	}

	result := dtos.HintResult{
		Mapping:  make(map[string]string),
		Matches:  []dtos.HintMatch{},
		Warnings: []string{},
	}

	valid := make(map[string]struct{}, len(validFields))
	for _, f := range validFields {
		valid[f] = struct{}{}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		suggested := raw[key]
		field := lib.HintAlias(key)

		if _, ok := valid[field]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("hint key %q is not a destination field", key))
			continue
		}
		if _, dup := result.Mapping[field]; dup {
			result.Warnings = append(result.Warnings, fmt.Sprintf("hint key %q repeats field %q, ignored", key, field))
			continue
		}
		if strings.TrimSpace(suggested) == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("hint for %q is empty", field))
			continue
		}

		header, kind, ok := matchHeader(suggested, headers)
		if !ok {
			logging.Warn("hint header not found in file", "field", field, "suggested", suggested)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("suggested header %q for %q is not in the file", suggested, field))
			continue
		}
		if kind == dtos.HintMatchFuzzy {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("fuzzy matched %q to %q", suggested, header))
		}

		result.Mapping[field] = header
		result.Matches = append(result.Matches, dtos.HintMatch{
			TargetField: field,
			Suggested:   suggested,
			Header:      header,
			Kind:        kind,
		})
	}

	result.Summary = fmt.Sprintf("analyzed %d columns and mapped %d fields", len(headers), len(result.Mapping))
	return result
}

// matchHeader resolves a suggested header: exact, then trimmed case-insensitive,
// then containment in either direction, first header wins.
func matchHeader(suggested string, headers []string) (string, dtos.HintMatchKind, bool) {
	for _, h := range headers {
		if h == suggested {
			return h, dtos.HintMatchExact, true
		}
	}

	want := strings.ToLower(strings.TrimSpace(suggested))
	for _, h := range headers {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return h, dtos.HintMatchCaseInsensitive, true
		}
	}

	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if strings.Contains(key, want) || strings.Contains(want, key) {
			return h, dtos.HintMatchFuzzy, true
		}
	}
	return "", "", false
}
