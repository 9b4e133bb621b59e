// Package patterns holds the static lookup tables shared by the classifier,
// the mapping engine and the type inferencer. A Library is built once and
// only read afterwards, so a single instance is safe to share between goroutines.
package patterns

import (
	"regexp"
	"strings"
	"sync"

	"infinite-experiment/contactimport/internal/models/dtos"
)

// SynonymGroup is a canonical target field name and its known alternate spellings
type SynonymGroup struct {
	Canonical string
	Synonyms  []string
}

// Category is a value-shape category with its name and value evidence
type Category struct {
	Name     string
	Patterns []*regexp.Regexp
	Exact    []string
	Partial  []string
	Semantic []string
}

// ContextBucket is a keyword bucket that only boosts the listed categories
type ContextBucket struct {
	Name       string
	Keywords   []string
	Categories []string
}

// Library is the immutable set of pattern tables
type Library struct {
	synonyms     []SynonymGroup
	synonymIndex map[string]int
	categories   []Category
	contexts     []ContextBucket
	hierarchy    []string
	departments  []string
	typeClasses  map[dtos.ColumnType][]string
	hintAliases  map[string]string
}

var (
	defaultLibrary *Library
	defaultOnce    sync.Once
)

// Default returns the process-wide library, building it on first use
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLibrary = New()
	})
	return defaultLibrary
}

// New builds a fresh library from the built-in tables
func New() *Library {
	lib := &Library{
		synonyms:     synonymGroups(),
		categories:   categories(),
		contexts:     contextBuckets(),
		hierarchy:    hierarchyKeywords,
		departments:  departmentKeywords,
		typeClasses:  typeClasses(),
		hintAliases:  hintAliases,
		synonymIndex: make(map[string]int),
	}

	// the first group that lists a spelling owns it
	for i, group := range lib.synonyms {
		for _, name := range append([]string{group.Canonical}, group.Synonyms...) {
			key := NormalizeName(name)
			if _, taken := lib.synonymIndex[key]; !taken {
				lib.synonymIndex[key] = i
			}
		}
	}
	return lib
}

var separatorRun = regexp.MustCompile(`[_\s]+`)

// NormalizeName lowercases a field name and folds whitespace/underscore runs into one underscore
func NormalizeName(name string) string {
	return separatorRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

// Synonyms returns the canonical name followed by every synonym of the group
// the name belongs to, or just the name itself when it is unknown.
func (l *Library) Synonyms(name string) []string {
	idx, ok := l.synonymIndex[NormalizeName(name)]
	if !ok {
		return []string{name}
	}
	group := l.synonyms[idx]
	out := make([]string, 0, len(group.Synonyms)+1)
	out = append(out, group.Canonical)
	return append(out, group.Synonyms...)
}

// Canonical returns the canonical target field for a name, or "" when unknown
func (l *Library) Canonical(name string) string {
	idx, ok := l.synonymIndex[NormalizeName(name)]
	if !ok {
		return ""
	}
	return l.synonyms[idx].Canonical
}

// HintAlias folds a key proposed by an external hint source into a canonical field name.
// Unknown keys are returned unchanged.
func (l *Library) HintAlias(key string) string {
	norm := NormalizeName(key)
	if alias, ok := l.hintAliases[norm]; ok {
		return alias
	}
	if canonical := l.Canonical(norm); canonical != "" {
		return canonical
	}
	return key
}

// Categories returns the value-shape categories in evaluation order
func (l *Library) Categories() []Category {
	return l.categories
}

// Category returns a category by name
func (l *Library) Category(name string) (Category, bool) {
	for _, c := range l.categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

func (l *Library) Contexts() []ContextBucket { return l.contexts }
func (l *Library) Hierarchy() []string        { return l.hierarchy }
func (l *Library) Departments() []string      { return l.departments }

// TypeClass returns the compatible source type names for a storage type
func (l *Library) TypeClass(t dtos.ColumnType) []string {
	if class, ok := l.typeClasses[dtos.ColumnType(strings.ToUpper(string(t)))]; ok {
		return class
	}
	return []string{string(t)}
}
