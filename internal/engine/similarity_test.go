package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalAndCoreTokens(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		canonical []string
		core      []string
	}{
		{name: "suffix stripped", input: "ABC Company Ltd.", canonical: []string{"abc", "company", "ltd"}, core: []string{"abc", "company"}},
		{name: "stacked suffixes", input: "Acme Holdings Co., Inc", canonical: []string{"acme", "holdings", "co", "inc"}, core: []string{"acme", "holdings"}},
		{name: "punctuation separates words", input: "Smith-Jones/Partners", canonical: []string{"smith", "jones", "partners"}, core: []string{"smith", "jones", "partners"}},
		{name: "ampersand kept", input: "Johnson & Johnson", canonical: []string{"johnson", "&", "johnson"}, core: []string{"johnson", "&", "johnson"}},
		{name: "only suffixes", input: "Inc", canonical: []string{"inc"}, core: []string{"inc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canonical := canonicalTokens(tt.input)
			assert.Equal(t, tt.canonical, canonical)
			assert.Equal(t, tt.core, coreTokens(canonical))
		})
	}
}

func TestCanonicalTokens_Blank(t *testing.T) {
	assert.Empty(t, canonicalTokens("   "))
	assert.Empty(t, canonicalTokens(".,'"))
}

func TestContainsRun(t *testing.T) {
	long := []string{"acme", "industrial", "supplies"}

	assert.True(t, containsRun(long, []string{"acme"}))
	assert.True(t, containsRun(long, []string{"industrial", "supplies"}))
	assert.False(t, containsRun(long, []string{"acme", "supplies"}))
	assert.False(t, containsRun(long, []string{"acm"}))
	assert.False(t, containsRun(long, nil))
}

func TestTextSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, textSimilarity("mouse", "mouse"))
	assert.Equal(t, 0.0, textSimilarity("mouse", ""))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.InDelta(t, 0.9375, textSimilarity("laptop computers", "laptop computer"), 1e-9)
	assert.InDelta(t, 5.0/9, textSimilarity("red apple", "apple"), 1e-9)
	assert.InDelta(t, 0.5, jaccard([]string{"red", "apple"}, []string{"apple"}), 1e-9)
	assert.Less(t, textSimilarity("xyz", "abc company"), 0.2)
}

func TestCurve(t *testing.T) {
	c := curve{{0, 1}, {10, 0.5}, {20, 0}}

	assert.Equal(t, 1.0, c.at(-5))
	assert.Equal(t, 1.0, c.at(0))
	assert.InDelta(t, 0.75, c.at(5), 1e-9)
	assert.InDelta(t, 0.25, c.at(15), 1e-9)
	assert.Equal(t, 0.0, c.at(50))
}
