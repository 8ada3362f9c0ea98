package analysis

import (
	"math"
	"strings"
)

// QualityScore grades how useful an answer's text is likely to be
type QualityScore struct {
	Score   float64  `json:"score"`
	Factors []string `json:"factors"`
	Grade   string   `json:"grade"`
}

// ScoreQuality rates answer content on length, code examples,
// structure, technical depth and explanatory style. Score is additive
// and clamped to 1.
func (e *Extractor) ScoreQuality(text string) QualityScore {
	if len(text) < 10 {
		return QualityScore{Score: 0, Factors: []string{"Content too short"}, Grade: "poor"}
	}

	score := 0.0
	factors := make([]string, 0, 5)

	if len(text) > 100 {
		score += 0.2
		factors = append(factors, "Substantial length")
	}
	if strings.Contains(text, "```") || strings.Contains(text, "`") {
		score += 0.3
		factors = append(factors, "Contains code examples")
	}
	if strings.Contains(text, "##") || strings.Contains(text, "- ") || strings.Contains(text, "1. ") {
		score += 0.2
		factors = append(factors, "Well-structured content")
	}
	if len(e.ExtractTechnologies(text)) > 2 {
		score += 0.2
		factors = append(factors, "Technical depth")
	}
	if e.countExplanatoryWords(text) > 1 {
		score += 0.1
		factors = append(factors, "Explanatory content")
	}

	score = math.Min(score, 1)
	return QualityScore{Score: score, Factors: factors, Grade: qualityGrade(score)}
}

func qualityGrade(score float64) string {
	switch {
	case score > 0.8:
		return "excellent"
	case score > 0.6:
		return "good"
	case score > 0.4:
		return "fair"
	default:
		return "poor"
	}
}

func (e *Extractor) countExplanatoryWords(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, w := range e.lexicon.ExplanatoryWords {
		if strings.Contains(lower, w) {
			count++
		}
	}
	return count
}
