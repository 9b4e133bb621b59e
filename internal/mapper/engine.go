// Package mapper pairs source columns with destination fields using name,
// synonym, type and sample-value evidence.
package mapper

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"infinite-experiment/contactimport/internal/classifier"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/patterns"
)

const (
	// AcceptThreshold is the exclusive lower bound for accepting a best match
	AcceptThreshold = 0.3

	overflowConfidence = 0.6
	overflowMinRunes   = 10
	notesCanonical     = "примечания"
)

var ErrInvalidSchema = errors.New("invalid schema")

var tokenSplit = regexp.MustCompile(`[_\s\-]+`)

// Assignment selects how source columns are distributed over target fields
type Assignment int

const (
	// AssignIndependent scores every target on its own; one source may win several targets
	AssignIndependent Assignment = iota
	// AssignExclusive claims each source column at most once, best pairs first
	AssignExclusive
)

type Option func(*Engine)

func WithAssignment(a Assignment) Option {
	return func(e *Engine) { e.assignment = a }
}

// Engine holds only read-only collaborators and is safe for concurrent use
type Engine struct {
	lib        *patterns.Library
	cls        *classifier.Classifier
	assignment Assignment
}

func New(lib *patterns.Library, cls *classifier.Classifier, opts ...Option) *Engine {
	if lib == nil {
		lib = patterns.Default()
	}
	if cls == nil {
		cls = classifier.New(lib)
	}
	e := &Engine{lib: lib, cls: cls, assignment: AssignIndependent}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type candidate struct {
	target     int
	source     int
	confidence float64
}

// AnalyzeAndMap maps source columns onto the target schema. It fails only when
// either schema is unusable; low confidence and leftovers are reported in the result.
func (e *Engine) AnalyzeAndMap(source, target *dtos.TableSchema) (*dtos.MappingResult, error) {
	if err := source.Validate(); err != nil {
		return nil, fmt.Errorf("%w: source: %v", ErrInvalidSchema, err)
	}
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("%w: target: %v", ErrInvalidSchema, err)
	}

	var winners []candidate
	if e.assignment == AssignExclusive {
		winners = e.assignExclusive(source, target)
	} else {
		winners = e.assignIndependent(source, target)
	}

	result := &dtos.MappingResult{
		Mappings:    []dtos.FieldMapping{},
		Suggestions: []string{},
		Insights:    []string{},
	}

	claimed := make(map[int]bool, len(source.Columns))
	byTarget := make(map[int]candidate, len(winners))
	for _, w := range winners {
		byTarget[w.target] = w
	}

	for ti, targetCol := range target.Columns {
		w, ok := byTarget[ti]
		if !ok {
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("no match found for field %q, consider mapping it manually", targetCol.Name))
			continue
		}
		claimed[w.source] = true
		sourceCol := source.Columns[w.source]
		result.Mappings = append(result.Mappings, e.buildMapping(targetCol, sourceCol, w.confidence, result))
	}

	e.overflow(source, target, claimed, result)

	total := 0.0
	for _, m := range result.Mappings {
		total += m.Confidence
	}
	if len(result.Mappings) > 0 {
		result.Confidence = total / float64(len(result.Mappings))
	}
	return result, nil
}

func (e *Engine) assignIndependent(source, target *dtos.TableSchema) []candidate {
	var winners []candidate
	for ti, targetCol := range target.Columns {
		best := candidate{target: ti, source: -1}
		for si, sourceCol := range source.Columns {
			// strict comparison keeps the first column on ties
			if c := e.CalculateMatchConfidence(targetCol, sourceCol); c > best.confidence {
				best.source, best.confidence = si, c
			}
		}
		if best.source >= 0 && best.confidence > AcceptThreshold {
			winners = append(winners, best)
		}
	}
	return winners
}

func (e *Engine) assignExclusive(source, target *dtos.TableSchema) []candidate {
	var pairs []candidate
	for ti, targetCol := range target.Columns {
		for si, sourceCol := range source.Columns {
			if c := e.CalculateMatchConfidence(targetCol, sourceCol); c > AcceptThreshold {
				pairs = append(pairs, candidate{target: ti, source: si, confidence: c})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].confidence != pairs[j].confidence {
			return pairs[i].confidence > pairs[j].confidence
		}
		if pairs[i].target != pairs[j].target {
			return pairs[i].target < pairs[j].target
		}
		return pairs[i].source < pairs[j].source
	})

	usedTarget := make(map[int]bool)
	usedSource := make(map[int]bool)
	var winners []candidate
	for _, p := range pairs {
		if usedTarget[p.target] || usedSource[p.source] {
			continue
		}
		usedTarget[p.target] = true
		usedSource[p.source] = true
		winners = append(winners, p)
	}
	return winners
}

func (e *Engine) buildMapping(targetCol, sourceCol dtos.ColumnInfo, confidence float64, result *dtos.MappingResult) dtos.FieldMapping {
	m := dtos.FieldMapping{
		SourceField:    sourceCol.Name,
		TargetField:    targetCol.Name,
		Confidence:     confidence,
		Transformation: suggestTransformation(targetCol.Type, sourceCol.Type),
	}

	top, ok := e.cls.Top(sourceCol.Name, classifier.Stringify(sourceCol.SampleValues))
	if !ok {
		return m
	}
	line := fmt.Sprintf("%s → %s: %s", sourceCol.Name, targetCol.Name, top.Reasoning)
	m.Reasoning = top.Reasoning
	m.Suggestions = top.Suggestions
	m.Insights = append(append([]string{}, top.Insights...), line)
	result.Insights = append(result.Insights, line)
	return m
}

// overflow routes unclaimed free-text source columns into the notes field
func (e *Engine) overflow(source, target *dtos.TableSchema, claimed map[int]bool, result *dtos.MappingResult) {
	notes, hasNotes := e.NotesField(target)

	for si, sourceCol := range source.Columns {
		if claimed[si] {
			continue
		}
		if !hasNotes || !hasFreeText(sourceCol.SampleValues) {
			result.UnmappedColumns = append(result.UnmappedColumns, sourceCol.Name)
			logging.Warn("source column dropped without mapping",
				"column", sourceCol.Name,
				"target_table", target.TableName,
				"has_notes_field", hasNotes,
			)
			continue
		}

		result.Mappings = append(result.Mappings, dtos.FieldMapping{
			SourceField:    sourceCol.Name,
			TargetField:    notes,
			Confidence:     overflowConfidence,
			Transformation: dtos.TransformConcatenateNotes,
			Reasoning:      "field not recognized but holds free text, appended to notes",
			Suggestions:    []string{"consider mapping this field manually"},
			Insights: []string{
				fmt.Sprintf("contains %d values", len(sourceCol.SampleValues)),
				"type: text data",
			},
		})
		result.Insights = append(result.Insights,
			fmt.Sprintf("%s → %s: unrecognized text field appended to notes", sourceCol.Name, notes))
	}
}

// NotesField returns the catch-all column of a destination table
func (e *Engine) NotesField(target *dtos.TableSchema) (string, bool) {
	for _, col := range target.Columns {
		if col.Overflow {
			return col.Name, true
		}
	}
	for _, col := range target.Columns {
		if e.lib.Canonical(col.Name) == notesCanonical {
			return col.Name, true
		}
	}
	return "", false
}

func hasFreeText(samples []interface{}) bool {
	for _, v := range samples {
		if s, ok := v.(string); ok && utf8.RuneCountInString(strings.TrimSpace(s)) > overflowMinRunes {
			return true
		}
	}
	return false
}

// CalculateMatchConfidence scores how well source fits target, in [0,1]
func (e *Engine) CalculateMatchConfidence(target, source dtos.ColumnInfo) float64 {
	if strings.EqualFold(target.Name, source.Name) {
		return 1.0
	}

	targetSyns := e.lib.Synonyms(target.Name)
	sourceSyns := e.lib.Synonyms(source.Name)
	for _, ts := range targetSyns {
		for _, ss := range sourceSyns {
			if strings.EqualFold(ts, ss) {
				return 0.9
			}
		}
	}

	confidence := tokenOverlap(target.Name, source.Name)
	confidence += e.typeCompatibility(target.Type, source.Type) * 0.2
	confidence += sampleShapeScore(target.Name, source.SampleValues) * 0.3
	return math.Min(confidence, 1.0)
}

func tokenize(name string) []string {
	var out []string
	for _, tok := range tokenSplit.Split(strings.ToLower(name), -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func tokenOverlap(targetName, sourceName string) float64 {
	score := 0.0
	sourceTokens := tokenize(sourceName)
	for _, tw := range tokenize(targetName) {
		for _, sw := range sourceTokens {
			switch {
			case tw == sw && utf8.RuneCountInString(tw) > 2:
				score += 0.5
			case strings.Contains(tw, sw) || strings.Contains(sw, tw):
				score += 0.3
			}
		}
	}
	return score
}

func (e *Engine) typeCompatibility(targetType, sourceType dtos.ColumnType) float64 {
	for _, t := range e.lib.TypeClass(targetType) {
		for _, s := range e.lib.TypeClass(sourceType) {
			if strings.EqualFold(t, s) {
				return 1.0
			}
		}
	}

	tt := strings.ToUpper(string(targetType))
	st := strings.ToUpper(string(sourceType))
	switch {
	case strings.Contains(tt, "VARCHAR") && strings.Contains(st, "TEXT"),
		strings.Contains(tt, "TEXT") && strings.Contains(st, "VARCHAR"):
		return 0.9
	case strings.Contains(tt, "INTEGER") && strings.Contains(st, "BIGINT"):
		return 0.8
	}
	return 0.1
}

// sampleShapeScore checks the source samples against the shape implied by the target name
func sampleShapeScore(targetName string, samples []interface{}) float64 {
	var values []interface{}
	for _, v := range samples {
		if !patterns.IsBlank(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}

	name := strings.ToLower(targetName)
	var check func(interface{}) bool
	switch {
	case containsAny(name, "mail", "почта"):
		check = stringCheck(patterns.IsEmail)
	case containsAny(name, "phone", "телефон"):
		check = stringCheck(patterns.IsPhone)
	case containsAny(name, "name", "имя"):
		check = stringCheck(patterns.IsPersonName)
	case containsAny(name, "company", "компания", "org"):
		check = stringCheck(patterns.IsCompanyName)
	case containsAny(name, "date", "время", "birthday"):
		check = patterns.IsDate
	case containsAny(name, "url", "link", "profile"):
		check = stringCheck(patterns.IsAbsoluteURL)
	default:
		return 0.1
	}

	matches := 0
	for _, v := range values {
		if check(v) {
			matches++
		}
	}
	return float64(matches) / float64(len(values))
}

func stringCheck(fn func(string) bool) func(interface{}) bool {
	return func(v interface{}) bool {
		s, ok := v.(string)
		return ok && fn(s)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// suggestTransformation derives a conversion tag from a declared type mismatch.
// TEXT sources count as strings too, and DATE targets get parse_date like
// timestamps so catalog date columns such as день_рождения are converted.
func suggestTransformation(targetType, sourceType dtos.ColumnType) string {
	tt := strings.ToUpper(string(targetType))
	st := strings.ToUpper(string(sourceType))
	if !strings.Contains(st, "VARCHAR") && !strings.Contains(st, "TEXT") {
		return ""
	}

	switch {
	case strings.Contains(tt, "TIMESTAMP"), tt == string(dtos.TypeDate):
		return dtos.TransformParseDate
	case strings.Contains(tt, "BOOLEAN"):
		return dtos.TransformStringToBoolean
	case strings.Contains(tt, "UUID"):
		return dtos.TransformStringToUUID
	}
	return ""
}
