package analysis

import (
	"sort"
	"strings"
)

// QuestionType classifies what a question is asking for
type QuestionType string

const (
	TypeHowTo           QuestionType = "how-to"
	TypeDefinition      QuestionType = "definition"
	TypeConceptual      QuestionType = "conceptual"
	TypeTroubleshooting QuestionType = "troubleshooting"
	TypeComparison      QuestionType = "comparison"
	TypeTutorial        QuestionType = "tutorial"
	TypeGeneral         QuestionType = "general"
)

// Sentiment is the coarse valence of a piece of text
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Complexity buckets content by how demanding it is to read
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Keyword is a scored term from a single document
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// FeatureVector is the structured output of feature extraction for one
// content item. It is ephemeral: recomputed per call, never persisted.
type FeatureVector struct {
	OriginalText   string       `json:"originalText"`
	NormalizedText string       `json:"normalizedText"`
	Keywords       []Keyword    `json:"keywords"`
	Technologies   []string     `json:"technologies"`
	QuestionType   QuestionType `json:"questionType"`
	Sentiment      Sentiment    `json:"sentiment"`
	Complexity     Complexity   `json:"complexity"`
	WordCount      int          `json:"wordCount"`
	SentenceCount  int          `json:"sentenceCount"`
}

// KeywordTerms returns just the terms of the keyword list
func (f *FeatureVector) KeywordTerms() []string {
	terms := make([]string, len(f.Keywords))
	for i, k := range f.Keywords {
		terms[i] = k.Term
	}
	return terms
}

// TitlePrefix returns the first n original words, used by
// duplicate-oriented similarity
func (f *FeatureVector) TitlePrefix(n int) string {
	return FirstWords(f.OriginalText, n)
}

const maxKeywords = 10

// Extractor turns raw title/body text into feature vectors.
// It is stateless apart from its immutable lexicon and is safe for
// concurrent use.
type Extractor struct {
	lexicon *Lexicon
}

// NewExtractor creates an extractor over the given lexicon
func NewExtractor(lexicon *Lexicon) *Extractor {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Extractor{lexicon: lexicon}
}

// Extract computes the feature vector for a title/body pair.
// Returns nil (not an error) when both are empty after trimming.
func (e *Extractor) Extract(title, body string) *FeatureVector {
	combined := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(body))
	if combined == "" {
		return nil
	}

	tokens := tokenize(combined)
	stems := e.stemTokens(tokens)
	normalized := dedupe(stems)
	sentences := SplitSentences(combined)

	return &FeatureVector{
		OriginalText:   combined,
		NormalizedText: strings.Join(normalized, " "),
		Keywords:       extractKeywords(stems),
		Technologies:   e.ExtractTechnologies(combined),
		QuestionType:   e.ClassifyQuestionType(title),
		Sentiment:      e.analyzeSentiment(tokens),
		Complexity:     assessComplexity(len(tokens), len(sentences)),
		WordCount:      len(tokens),
		SentenceCount:  len(sentences),
	}
}

// stemTokens removes stopwords, stems and drops short tokens,
// preserving duplicates and order
func (e *Extractor) stemTokens(tokens []string) []string {
	stems := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if e.lexicon.StopWords[tok] {
			continue
		}
		stemmed := Stem(tok)
		if len(stemmed) < 3 {
			continue
		}
		stems = append(stems, stemmed)
	}
	return stems
}

// dedupe removes repeated terms while preserving first-seen order
func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// extractKeywords scores each stem by its frequency within this single
// document and keeps the top 10. Single-document scoring is deliberate:
// there is no corpus index, so TF-IDF degenerates to term frequency,
// and every downstream threshold is tuned against that behavior.
func extractKeywords(stems []string) []Keyword {
	if len(stems) == 0 {
		return []Keyword{}
	}

	freq := make(map[string]int, len(stems))
	order := make([]string, 0, len(stems))
	for _, term := range stems {
		if freq[term] == 0 {
			order = append(order, term)
		}
		freq[term]++
	}

	keywords := make([]Keyword, 0, len(order))
	for _, term := range order {
		keywords = append(keywords, Keyword{
			Term:  term,
			Score: float64(freq[term]),
		})
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Score > keywords[j].Score
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// ExtractTechnologies returns the dictionary technologies mentioned in
// the text, matching the bare term or its "+js" suffix variant
func (e *Extractor) ExtractTechnologies(text string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0, 4)
	for _, tech := range e.lexicon.TechTerms {
		if strings.Contains(lower, tech) || strings.Contains(lower, tech+"js") {
			found = append(found, tech)
		}
	}
	return found
}

// ClassifyQuestionType applies ordered title-substring rules; the
// first matching rule wins, so rule order is part of the contract
func (e *Extractor) ClassifyQuestionType(title string) QuestionType {
	lower := strings.ToLower(title)

	switch {
	case strings.Contains(lower, "how to") || strings.Contains(lower, "how do"):
		return TypeHowTo
	case strings.Contains(lower, "what is") || strings.Contains(lower, "what are"):
		return TypeDefinition
	case strings.Contains(lower, "why") || strings.Contains(lower, "when"):
		return TypeConceptual
	case strings.Contains(lower, "error") || strings.Contains(lower, "problem") || strings.Contains(lower, "issue"):
		return TypeTroubleshooting
	case strings.Contains(lower, "best") || strings.Contains(lower, "better") || strings.Contains(lower, "vs"):
		return TypeComparison
	case strings.Contains(lower, "tutorial") || strings.Contains(lower, "example"):
		return TypeTutorial
	default:
		return TypeGeneral
	}
}

// analyzeSentiment sums lexicon valence over tokens, normalized by
// token count, and buckets at ±0.1
func (e *Extractor) analyzeSentiment(tokens []string) Sentiment {
	if len(tokens) == 0 {
		return SentimentNeutral
	}

	score := 0.0
	for _, tok := range tokens {
		score += e.lexicon.Valence[tok]
	}
	score /= float64(len(tokens))

	switch {
	case score > 0.1:
		return SentimentPositive
	case score < -0.1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// assessComplexity buckets by average sentence length and total words
func assessComplexity(wordCount, sentenceCount int) Complexity {
	if sentenceCount < 1 {
		sentenceCount = 1
	}
	avg := float64(wordCount) / float64(sentenceCount)

	switch {
	case avg > 20 && wordCount > 100:
		return ComplexityHigh
	case avg > 12 && wordCount > 50:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}
