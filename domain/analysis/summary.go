package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultSummaryLength is the target character budget for a summary
const DefaultSummaryLength = 200

// Insight is a notable statement lifted out of answer text
type Insight struct {
	Type       string `json:"type"`
	Content    string `json:"content"`
	Importance string `json:"importance"`
}

// ActionItem is an instruction or numbered step found in answer text
type ActionItem struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	Order    int    `json:"order,omitempty"`
}

// CodeSnippet is a fenced or inline code fragment found in answer text
type CodeSnippet struct {
	Type       string `json:"type"`
	Language   string `json:"language"`
	Content    string `json:"content"`
	Importance string `json:"importance"`
}

// Summary is the condensed view of a long answer
type Summary struct {
	Summary          string        `json:"summary"`
	KeyInsights      []Insight     `json:"keyInsights"`
	ActionableItems  []ActionItem  `json:"actionableItems"`
	CodeSnippets     []CodeSnippet `json:"codeSnippets"`
	Confidence       float64       `json:"confidence"`
	OriginalLength   int           `json:"originalLength"`
	CompressionRatio float64       `json:"compressionRatio"`
}

var (
	imperativeStart = regexp.MustCompile(`^(use|try|make|set|add|install|run|execute|create)`)

	definitionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i).+ is .+`),
		regexp.MustCompile(`(?i).+ refers to .+`),
		regexp.MustCompile(`(?i).+ means .+`),
	}
	causalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)because .+`),
		regexp.MustCompile(`(?i)therefore .+`),
		regexp.MustCompile(`(?i)as a result .+`),
		regexp.MustCompile(`(?i)this causes .+`),
	}
	bestPracticePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)best practice .+`),
		regexp.MustCompile(`(?i)recommended .+`),
		regexp.MustCompile(`(?i)should .+`),
		regexp.MustCompile(`(?i)avoid .+`),
	}

	instructionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^(install|run|execute|create|add|set|configure|update|delete|remove) .+`),
		regexp.MustCompile(`(?im)^(use|try|make|ensure|remember|check|verify|test) .+`),
		regexp.MustCompile(`(?im)^(first|then|next|finally|lastly) .+`),
	}
	numberedStep = regexp.MustCompile(`(?m)^\d+\.\s*.+`)

	codeBlockPattern  = regexp.MustCompile("```(\\w+)?\\n([\\s\\S]*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
)

// Summarize condenses answer content into a short extract with
// insights, actionable items and code snippets. Content under 50
// characters is returned as its own summary with low confidence.
func (e *Extractor) Summarize(text string, maxLength int) Summary {
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}
	if len(text) < 50 {
		return Summary{
			Summary:         text,
			KeyInsights:     []Insight{},
			ActionableItems: []ActionItem{},
			CodeSnippets:    []CodeSnippet{},
			Confidence:      0.3,
			OriginalLength:  len(text),
		}
	}

	sentences := SplitSentences(text)
	ranked := e.rankSentences(sentences, text)
	summary := assembleSummary(ranked, maxLength)

	result := Summary{
		Summary:         summary,
		KeyInsights:     extractInsights(text),
		ActionableItems: extractActionItems(text),
		CodeSnippets:    extractCodeSnippets(text),
		Confidence:      e.summaryConfidence(text),
		OriginalLength:  len(text),
	}
	if len(text) > 0 {
		result.CompressionRatio = float64(len(summary)) / float64(len(text))
	}
	return result
}

type rankedSentence struct {
	sentence string
	score    float64
}

// rankSentences scores each sentence by keyword hits, technical terms,
// code references, imperative openings and explanatory connectives
func (e *Extractor) rankSentences(sentences []string, fullText string) []rankedSentence {
	keywords := extractKeywords(e.stemTokens(tokenize(fullText)))
	if len(keywords) > 15 {
		keywords = keywords[:15]
	}

	ranked := make([]rankedSentence, 0, len(sentences))
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		score := 0.0

		for _, kw := range keywords {
			if strings.Contains(lower, kw.Term) {
				score += 2
			}
		}
		score += float64(len(e.ExtractTechnologies(sentence))) * 1.5
		if strings.Contains(sentence, "```") || strings.Contains(sentence, "`") {
			score += 3
		}
		if imperativeStart.MatchString(lower) {
			score += 2
		}
		if strings.Contains(lower, "because") || strings.Contains(lower, "therefore") ||
			strings.Contains(lower, "however") || strings.Contains(lower, "example") {
			score += 1.5
		}
		if len(sentence) < 30 || len(sentence) > 200 {
			score--
		}

		ranked = append(ranked, rankedSentence{sentence: sentence, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// assembleSummary packs the best sentences into the length budget,
// then relaxes the budget by 20% if the result came out too short
func assembleSummary(ranked []rankedSentence, maxLength int) string {
	var b strings.Builder
	for _, item := range ranked {
		if b.Len()+len(item.sentence) > maxLength {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.sentence)
	}

	summary := b.String()
	if len(summary) < maxLength*6/10 {
		for _, item := range ranked {
			if strings.Contains(summary, item.sentence) {
				continue
			}
			if len(summary)+len(item.sentence) <= maxLength*12/10 {
				summary += " " + item.sentence
			}
		}
	}
	return strings.TrimSpace(summary)
}

func extractInsights(text string) []Insight {
	insights := make([]Insight, 0, 5)

	collect := func(patterns []*regexp.Regexp, insightType, importance string) {
		for _, p := range patterns {
			for _, match := range p.FindAllString(text, 2) {
				insights = append(insights, Insight{
					Type:       insightType,
					Content:    strings.TrimSpace(match),
					Importance: importance,
				})
			}
		}
	}

	collect(definitionPatterns, "definition", "high")
	collect(causalPatterns, "cause-effect", "medium")
	collect(bestPracticePatterns, "best-practice", "high")

	if len(insights) > 5 {
		insights = insights[:5]
	}
	return insights
}

func extractActionItems(text string) []ActionItem {
	items := make([]ActionItem, 0, 8)

	for _, p := range instructionPatterns {
		for _, match := range p.FindAllString(text, -1) {
			items = append(items, ActionItem{
				Type:     "instruction",
				Content:  strings.TrimSpace(match),
				Priority: "medium",
			})
		}
	}

	for i, match := range numberedStep.FindAllString(text, -1) {
		items = append(items, ActionItem{
			Type:     "step",
			Content:  strings.TrimSpace(match),
			Priority: "high",
			Order:    i + 1,
		})
	}

	if len(items) > 8 {
		items = items[:8]
	}
	return items
}

func extractCodeSnippets(text string) []CodeSnippet {
	snippets := make([]CodeSnippet, 0, 10)

	for _, match := range codeBlockPattern.FindAllStringSubmatch(text, -1) {
		language := match[1]
		if language == "" {
			language = "unknown"
		}
		snippets = append(snippets, CodeSnippet{
			Type:       "code-block",
			Language:   language,
			Content:    strings.TrimSpace(match[2]),
			Importance: "high",
		})
	}

	stripped := codeBlockPattern.ReplaceAllString(text, "")
	for _, match := range inlineCodePattern.FindAllStringSubmatch(stripped, -1) {
		snippets = append(snippets, CodeSnippet{
			Type:       "inline-code",
			Language:   "unknown",
			Content:    strings.TrimSpace(match[1]),
			Importance: "medium",
		})
	}

	if len(snippets) > 10 {
		snippets = snippets[:10]
	}
	return snippets
}

// summaryConfidence starts at 0.5 and adjusts for content signals,
// clamped to [0.1, 1.0]
func (e *Extractor) summaryConfidence(text string) float64 {
	confidence := 0.5

	if len(text) > 500 {
		confidence += 0.2
	}
	if strings.Contains(text, "```") || strings.Contains(text, "1. ") || strings.Contains(text, "- ") {
		confidence += 0.2
	}
	if len(e.ExtractTechnologies(text)) > 2 {
		confidence += 0.15
	}
	if e.countExplanatoryWords(text) > 1 {
		confidence += 0.1
	}
	if len(text) < 100 {
		confidence -= 0.3
	}

	return math.Max(0.1, math.Min(1.0, confidence))
}
