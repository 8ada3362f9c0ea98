package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tokens := tokenize("How to fix a NullPointerException in Java?")
	assert.Equal(t, []string{"how", "to", "fix", "a", "nullpointerexception", "in", "java"}, tokens)
}

func TestTokenize_PunctuationBecomesSpace(t *testing.T) {
	tokens := tokenize("react.js vs. vue-router!")
	assert.Equal(t, []string{"react", "js", "vs", "vue", "router"}, tokens)
}

func TestStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"running", "run"},
		{"tested", "test"},
		{"classes", "class"},
		{"libraries", "librari"},
		{"quickly", "quick"},
		{"go", "go"},
		{"agreed", "agree"},
		{"process", "process"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stem(tt.in), "stem of %q", tt.in)
	}
}

func TestDiceCoefficient(t *testing.T) {
	assert.Equal(t, 1.0, DiceCoefficient("react hooks", "react hooks"))
	assert.Equal(t, 0.0, DiceCoefficient("ab", "xy"))
	assert.Equal(t, 0.0, DiceCoefficient("a", "abc"))

	sim := DiceCoefficient("react hooks tutorial", "react hooks guide")
	assert.Greater(t, sim, 0.5)
	assert.Less(t, sim, 1.0)
}

func TestDiceCoefficient_IgnoresWhitespace(t *testing.T) {
	assert.Equal(t, 1.0, DiceCoefficient("react hooks", "reacthooks"))
}

func TestJaccardOverlap(t *testing.T) {
	assert.Equal(t, 1.0, JaccardOverlap(nil, nil))
	assert.Equal(t, 0.0, JaccardOverlap([]string{"a"}, nil))
	assert.Equal(t, 1.0, JaccardOverlap([]string{"a", "b"}, []string{"b", "a"}))
	assert.InDelta(t, 1.0/3.0, JaccardOverlap([]string{"a", "b"}, []string{"b", "c"}), 1e-9)
}

func TestVarianceAndStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Variance(nil))
	assert.Equal(t, 0.0, Variance([]float64{5, 5, 5}))
	assert.InDelta(t, 4.0, Variance([]float64{2, 6}), 1e-9)
	assert.InDelta(t, 2.0, StdDev([]float64{2, 6}), 1e-9)
}

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("First one. Second one! Third?  ")
	assert.Equal(t, []string{"First one", "Second one", "Third"}, sentences)
}

func TestFirstWords(t *testing.T) {
	assert.Equal(t, "a b c", FirstWords("a b c d e", 3))
	assert.Equal(t, "a b", FirstWords("a b", 10))
}

func TestCapsRatio(t *testing.T) {
	assert.Equal(t, 0.0, CapsRatio(""))
	assert.InDelta(t, 0.5, CapsRatio("ABab"), 1e-9)
}
