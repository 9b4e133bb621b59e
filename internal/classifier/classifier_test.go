package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/contactimport/internal/classifier"
	"infinite-experiment/contactimport/internal/patterns"
)

func newClassifier() *classifier.Classifier {
	return classifier.New(patterns.Default())
}

func TestClassify_Email(t *testing.T) {
	results := newClassifier().Classify("email", []string{"a@b.com", "c@d.com"})
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, "email", top.Category)
	// name 1.0*0.35 + values 1.0*0.45
	assert.InDelta(t, 0.8, top.Confidence, 1e-9)
	assert.Contains(t, top.Insights, "2 distinct email domains")
	assert.Contains(t, top.Insights, "domains: b.com, d.com")
	assert.Empty(t, top.Suggestions)
	assert.Equal(t, `^[^\s@]+@[^\s@]+\.[^\s@]+$`, top.Pattern)
}

func TestClassify_SortedAndFiltered(t *testing.T) {
	results := newClassifier().Classify("email", []string{"a@b.com", "c@d.com"})

	var categories []string
	for i, r := range results {
		assert.Greater(t, r.Confidence, classifier.MinConfidence)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Confidence, r.Confidence)
		}
		categories = append(categories, r.Category)
	}
	// handles tie at 0.45 and keep category order
	assert.Equal(t, []string{"email", "telegram", "instagram", "twitter"}, categories)
}

func TestClassify_NoSignal(t *testing.T) {
	assert.Empty(t, newClassifier().Classify("zzz", nil))
}

func TestClassify_PhoneSuggestionsAndFormats(t *testing.T) {
	top, ok := newClassifier().Top("phone", []string{"9991234567", "89991234567"})
	require.True(t, ok)

	assert.Equal(t, "phone", top.Category)
	assert.InDelta(t, 0.8, top.Confidence, 1e-9)
	assert.Equal(t, []string{"normalize phone to +7XXXXXXXXXX"}, top.Suggestions)
	assert.Contains(t, top.Insights, "phone formats: other (1), domestic (1)")
}

func TestClassify_EmailCasingSuggestion(t *testing.T) {
	top, ok := newClassifier().Top("email", []string{"Ivan@Example.com"})
	require.True(t, ok)
	assert.Equal(t, []string{"normalize email to lower case"}, top.Suggestions)
}

func TestClassify_ContextBoost(t *testing.T) {
	top, ok := newClassifier().Top("contact_email", []string{"a@b.com"})
	require.True(t, ok)

	assert.Equal(t, "email", top.Category)
	// partial 0.7*0.35 + values 0.45 + personal context 0.3*0.15
	assert.InDelta(t, 0.74, top.Confidence, 1e-9)
	assert.Contains(t, top.Reasoning, "context: personal")
}

func TestClassify_Uniqueness(t *testing.T) {
	top, ok := newClassifier().Top("email", []string{"a@b.com", "a@b.com"})
	require.True(t, ok)
	assert.Contains(t, top.Insights, "uniqueness: 50%")
}

func TestClassify_Description(t *testing.T) {
	samples := []string{
		"Ten years of experience building payment systems",
		"Loves hiking",
	}
	results := newClassifier().Classify("notes", samples)
	require.NotEmpty(t, results)

	var desc *classifier.Result
	for i := range results {
		if results[i].Category == "description" {
			desc = &results[i]
		}
	}
	require.NotNil(t, desc)
	assert.Contains(t, desc.Insights, "contains professional keywords")
	assert.Contains(t, desc.Insights, "average description length: 30 characters")
}

func TestClassify_Deterministic(t *testing.T) {
	c := newClassifier()
	samples := []string{"https://linkedin.com/in/ivan", "https://twitter.com/ivan"}
	assert.Equal(t, c.Classify("social_links", samples), c.Classify("social_links", samples))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, []string{"a", "42", "true"}, classifier.Stringify([]interface{}{"a", nil, 42, true}))
}
