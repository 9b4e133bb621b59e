// Package classifier scores how well a column looks like each known value
// category, combining name, value, context and business-rule evidence.
package classifier

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"infinite-experiment/contactimport/internal/patterns"
)

const (
	weightName     = 0.35
	weightValues   = 0.45
	weightContext  = 0.15
	weightBusiness = 0.05

	// MinConfidence is the exclusive lower bound for a category to be reported
	MinConfidence = 0.2
)

// Result is the score of one category for a column
type Result struct {
	Category    string   `json:"category"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	Pattern     string   `json:"pattern"`
	Suggestions []string `json:"suggestions,omitempty"`
	Insights    []string `json:"insights,omitempty"`
}

// Classifier is stateless apart from the shared pattern library
type Classifier struct {
	lib *patterns.Library
}

func New(lib *patterns.Library) *Classifier {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Classifier{lib: lib}
}

// Classify scores every category for the column and returns the ones above
// MinConfidence, best first. Equal scores keep library category order.
func (c *Classifier) Classify(fieldName string, samples []string) []Result {
	var results []Result

	for _, category := range c.lib.Categories() {
		res := c.score(fieldName, category, samples)
		if res.Confidence > MinConfidence {
			results = append(results, res)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	for i := range results {
		results[i].Suggestions = suggestions(results[i].Category, samples)
		results[i].Insights = append(results[i].Insights, insights(results[i].Category, samples)...)
	}
	return results
}

// Top returns the best result, if any category passed the threshold
func (c *Classifier) Top(fieldName string, samples []string) (Result, bool) {
	results := c.Classify(fieldName, samples)
	if len(results) == 0 {
		return Result{}, false
	}
	return results[0], true
}

func (c *Classifier) score(fieldName string, category patterns.Category, samples []string) Result {
	var reasons []string
	var valueInsights []string

	nameScore, nameReason := c.analyzeName(fieldName, category)
	confidence := clamp(nameScore) * weightName
	reasons = append(reasons, nameReason)

	if len(samples) > 0 {
		valueScore, valueReason, found := analyzeValues(samples, category)
		confidence += clamp(valueScore) * weightValues
		reasons = append(reasons, valueReason)
		valueInsights = found
	}

	contextScore, contextReason := c.analyzeContext(fieldName, category.Name)
	confidence += clamp(contextScore) * weightContext
	reasons = append(reasons, contextReason)

	businessScore, businessReason := c.analyzeBusinessRules(fieldName, category.Name)
	confidence += clamp(businessScore) * weightBusiness
	reasons = append(reasons, businessReason)

	return Result{
		Category:   category.Name,
		Confidence: math.Min(confidence, 1.0),
		Reasoning:  strings.Join(reasons, " | "),
		Pattern:    bestPattern(samples, category),
		Insights:   valueInsights,
	}
}

func (c *Classifier) analyzeName(fieldName string, category patterns.Category) (float64, string) {
	name := patterns.NormalizeName(fieldName)
	score := 0.0
	var reasons []string

	for _, exact := range category.Exact {
		if name == exact {
			score += 0.95
			reasons = append(reasons, "exact field name match")
			break
		}
	}

	if name != "" {
		for _, partial := range category.Partial {
			if strings.Contains(name, partial) || strings.Contains(partial, name) {
				score += 0.7
				reasons = append(reasons, fmt.Sprintf("partial match %q", partial))
				break
			}
		}
	}

	if semantic := semanticScore(name, category.Semantic); semantic > 0.5 {
		score += semantic * 0.8
		reasons = append(reasons, fmt.Sprintf("semantic overlap %d%%", int(math.Round(semantic*100))))
	}

	if len(reasons) == 0 {
		return score, "name gave no signal"
	}
	return score, strings.Join(reasons, ", ")
}

func semanticScore(name string, group []string) float64 {
	if len(group) == 0 {
		return 0
	}
	matches := 0
	for _, term := range group {
		if strings.Contains(name, term) {
			matches++
		}
	}
	return float64(matches) / float64(len(group))
}

func (c *Classifier) analyzeContext(fieldName, category string) (float64, string) {
	name := strings.ToLower(fieldName)
	score := 0.0
	var reasons []string

	for _, bucket := range c.lib.Contexts() {
		if !contains(bucket.Categories, category) {
			continue
		}
		for _, keyword := range bucket.Keywords {
			if strings.Contains(name, keyword) {
				score += 0.3
				reasons = append(reasons, "context: "+bucket.Name)
				break
			}
		}
	}

	if len(reasons) == 0 {
		return score, "no context"
	}
	return score, strings.Join(reasons, ", ")
}

func (c *Classifier) analyzeBusinessRules(fieldName, category string) (float64, string) {
	if category != "position" {
		return 0, "no business rules"
	}

	name := strings.ToLower(fieldName)
	score := 0.0
	var reasons []string

	for _, level := range c.lib.Hierarchy() {
		if strings.Contains(name, level) {
			score += 0.2
			reasons = append(reasons, "hierarchy: "+level)
			break
		}
	}
	for _, dept := range c.lib.Departments() {
		if strings.Contains(name, dept) {
			score += 0.1
			reasons = append(reasons, "department: "+dept)
		}
	}

	if len(reasons) == 0 {
		return score, "no business rules"
	}
	return score, strings.Join(reasons, ", ")
}

// bestPattern names the pattern that matched the most samples
func bestPattern(samples []string, category patterns.Category) string {
	if len(samples) == 0 {
		return "unknown"
	}
	best, bestCount := "none", 0
	for _, re := range category.Patterns {
		count := 0
		for _, s := range samples {
			if re.MatchString(s) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = re.String(), count
		}
	}
	return best
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Stringify renders raw sample values for classification, skipping nils
func Stringify(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out = append(out, val)
		default:
			out = append(out, fmt.Sprint(val))
		}
	}
	return out
}
