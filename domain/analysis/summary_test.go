package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summarizableAnswer = `Use a buffered channel to avoid the deadlock. The unbuffered channel blocks the sender until a receiver is ready, because the go runtime parks the goroutine. Therefore the main goroutine never reaches the receive statement.

Install the race detector before debugging. Run the program with the -race flag.

1. Create the channel with capacity one
2. Send the value from the worker goroutine
3. Receive in main after starting the worker

` + "```go\nch := make(chan int, 1)\nch <- 42\n```" + `

You should avoid sharing the channel across packages. The ` + "`select`" + ` statement is recommended when multiple channels are involved.`

func TestSummarize_ShortTextReturnedAsIs(t *testing.T) {
	e := NewExtractor(nil)

	result := e.Summarize("Too short to bother.", 0)
	assert.Equal(t, "Too short to bother.", result.Summary)
	assert.Equal(t, 0.3, result.Confidence)
	assert.Empty(t, result.KeyInsights)
}

func TestSummarize_ProducesBoundedSummary(t *testing.T) {
	e := NewExtractor(nil)

	result := e.Summarize(summarizableAnswer, 200)
	require.NotEmpty(t, result.Summary)
	assert.LessOrEqual(t, len(result.Summary), 240)
	assert.Equal(t, len(summarizableAnswer), result.OriginalLength)
	assert.Greater(t, result.Confidence, 0.5)
	assert.Less(t, result.CompressionRatio, 1.0)
}

func TestSummarize_ExtractsInsights(t *testing.T) {
	e := NewExtractor(nil)

	result := e.Summarize(summarizableAnswer, 0)
	require.NotEmpty(t, result.KeyInsights)

	types := make(map[string]bool)
	for _, insight := range result.KeyInsights {
		types[insight.Type] = true
	}
	assert.True(t, types["cause-effect"] || types["definition"] || types["best-practice"])
	assert.LessOrEqual(t, len(result.KeyInsights), 5)
}

func TestSummarize_ExtractsNumberedSteps(t *testing.T) {
	e := NewExtractor(nil)

	result := e.Summarize(summarizableAnswer, 0)
	require.NotEmpty(t, result.ActionableItems)

	var steps []ActionItem
	for _, item := range result.ActionableItems {
		if item.Type == "step" {
			steps = append(steps, item)
		}
	}
	require.NotEmpty(t, steps)
	assert.Equal(t, 1, steps[0].Order)
}

func TestSummarize_ExtractsCodeSnippets(t *testing.T) {
	e := NewExtractor(nil)

	result := e.Summarize(summarizableAnswer, 0)
	require.NotEmpty(t, result.CodeSnippets)

	var block *CodeSnippet
	for i := range result.CodeSnippets {
		if result.CodeSnippets[i].Type == "code-block" {
			block = &result.CodeSnippets[i]
		}
	}
	require.NotNil(t, block)
	assert.Equal(t, "go", block.Language)
	assert.True(t, strings.Contains(block.Content, "make(chan int, 1)"))

	inline := false
	for _, snippet := range result.CodeSnippets {
		if snippet.Type == "inline-code" {
			inline = true
		}
	}
	assert.True(t, inline)
}
