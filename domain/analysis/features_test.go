package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_EmptyInput(t *testing.T) {
	e := NewExtractor(nil)
	assert.Nil(t, e.Extract("", ""))
	assert.Nil(t, e.Extract("   ", "\t\n"))
}

func TestExtract_BasicQuestion(t *testing.T) {
	e := NewExtractor(nil)

	fv := e.Extract(
		"How to handle async errors in JavaScript?",
		"I keep getting unhandled promise rejections when my fetch calls fail.",
	)
	require.NotNil(t, fv)

	assert.Equal(t, TypeHowTo, fv.QuestionType)
	assert.Contains(t, fv.Technologies, "javascript")
	assert.NotEmpty(t, fv.Keywords)
	assert.Greater(t, fv.WordCount, 0)
	assert.Greater(t, fv.SentenceCount, 0)
	assert.NotContains(t, strings.Fields(fv.NormalizedText), "the")
}

func TestExtract_KeywordsCappedAtTen(t *testing.T) {
	e := NewExtractor(nil)

	body := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike november"
	fv := e.Extract("vocabulary", body)
	require.NotNil(t, fv)
	assert.LessOrEqual(t, len(fv.Keywords), 10)
}

func TestExtract_KeywordsSortedByFrequency(t *testing.T) {
	e := NewExtractor(nil)

	fv := e.Extract("", "docker docker docker kubernetes kubernetes jenkins")
	require.NotNil(t, fv)
	require.GreaterOrEqual(t, len(fv.Keywords), 3)
	assert.Equal(t, "docker", fv.Keywords[0].Term)
	assert.Equal(t, 3.0, fv.Keywords[0].Score)
	assert.Equal(t, "kubernete", fv.Keywords[1].Term)
	assert.Equal(t, 2.0, fv.Keywords[1].Score)
}

func TestClassifyQuestionType_RuleOrder(t *testing.T) {
	e := NewExtractor(nil)

	tests := []struct {
		title string
		want  QuestionType
	}{
		{"How to center a div", TypeHowTo},
		{"How do I parse JSON", TypeHowTo},
		{"What is a closure", TypeDefinition},
		{"Why does my build fail", TypeConceptual},
		{"Error when connecting to database", TypeTroubleshooting},
		{"React vs Vue", TypeComparison},
		{"Tutorial for beginners", TypeTutorial},
		{"Sorting a slice", TypeGeneral},
		// "how to" outranks "error"
		{"How to fix this error", TypeHowTo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.ClassifyQuestionType(tt.title), "title %q", tt.title)
	}
}

func TestExtractTechnologies_JSVariant(t *testing.T) {
	e := NewExtractor(nil)

	techs := e.ExtractTechnologies("Building a frontend with Vuejs and Redis caching")
	assert.Contains(t, techs, "vue")
	assert.Contains(t, techs, "redis")
	assert.NotContains(t, techs, "python")
}

func TestExtract_Sentiment(t *testing.T) {
	e := NewExtractor(nil)

	pos := e.Extract("", "great awesome excellent amazing love")
	require.NotNil(t, pos)
	assert.Equal(t, SentimentPositive, pos.Sentiment)

	neg := e.Extract("", "terrible awful horrible broken crash")
	require.NotNil(t, neg)
	assert.Equal(t, SentimentNegative, neg.Sentiment)

	neutral := e.Extract("", "configure the deployment pipeline using containers")
	require.NotNil(t, neutral)
	assert.Equal(t, SentimentNeutral, neutral.Sentiment)
}

func TestExtract_Complexity(t *testing.T) {
	e := NewExtractor(nil)

	low := e.Extract("", "Short question. Nothing fancy.")
	require.NotNil(t, low)
	assert.Equal(t, ComplexityLow, low.Complexity)

	// 5 sentences of 25 words each: avg 25 > 20, total 125 > 100
	sentence := strings.Repeat("word ", 24) + "word."
	high := e.Extract("", strings.Repeat(sentence+" ", 5))
	require.NotNil(t, high)
	assert.Equal(t, ComplexityHigh, high.Complexity)
}

func TestTitlePrefix(t *testing.T) {
	e := NewExtractor(nil)

	fv := e.Extract("one two three four five six seven eight nine ten eleven twelve", "")
	require.NotNil(t, fv)
	assert.Equal(t, "one two three four five six seven eight nine ten", fv.TitlePrefix(10))
}
