package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/domain/analysis"
	"stackit-backend/domain/content"
	"stackit-backend/pkg/errors"
)

// Default knobs for similar-question search
const (
	DefaultSimilarityThreshold = 0.6
	DefaultMaxSimilarResults   = 5
	DefaultMaxSuggestedTags    = 5
)

// Weights of the general similarity blend. They sum to 1, so the
// blended score stays in [0,1].
const (
	weightText     = 0.4
	weightKeywords = 0.3
	weightTech     = 0.2
	weightType     = 0.1
)

// SimilarQuestion pairs an existing question with its similarity to the
// candidate text and human-readable reasons for the match
type SimilarQuestion struct {
	Question   content.Question `json:"question"`
	Similarity float64          `json:"similarity"`
	Reasons    []string         `json:"reasons"`
}

// SimilarityService finds related questions and suggests tags for new
// content. It recomputes feature vectors per request; nothing is cached
// across calls.
type SimilarityService struct {
	store     ports.ContentStore
	extractor *analysis.Extractor
	lexicon   *analysis.Lexicon
	logger    *zap.Logger
}

// NewSimilarityService creates a new similarity service
func NewSimilarityService(store ports.ContentStore, logger *zap.Logger) *SimilarityService {
	lexicon := analysis.DefaultLexicon()
	return &SimilarityService{
		store:     store,
		extractor: analysis.NewExtractor(lexicon),
		lexicon:   lexicon,
		logger:    logger,
	}
}

// FindSimilarQuestions compares the candidate title/description against
// every visible question and returns those scoring at or above the
// threshold, best first, truncated to maxResults. A zero threshold or
// maxResults selects the defaults.
func (s *SimilarityService) FindSimilarQuestions(
	ctx context.Context,
	title, description string,
	threshold float64,
	maxResults int,
) ([]SimilarQuestion, error) {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxSimilarResults
	}

	features := s.extractor.Extract(title, description)
	if features == nil {
		return nil, errors.NewValidationError("title or description must not be empty")
	}

	questions, err := s.store.ListQuestions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	similar := make([]SimilarQuestion, 0)
	for _, q := range questions {
		qf := s.extractor.Extract(q.Title, q.Description)
		if qf == nil {
			continue
		}
		sim := CompareFeatures(features, qf)
		if sim >= threshold {
			similar = append(similar, SimilarQuestion{
				Question:   q,
				Similarity: sim,
				Reasons:    similarityReasons(features, qf),
			})
		}
	}

	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})
	if len(similar) > maxResults {
		similar = similar[:maxResults]
	}

	s.logger.Debug("Similar question search complete",
		zap.Int("candidates", len(questions)),
		zap.Int("matches", len(similar)),
		zap.Float64("threshold", threshold),
	)
	return similar, nil
}

// SuggestTags proposes up to maxTags tags for the given content, drawn
// from detected technologies, strong keywords and the question type,
// filtered against the platform's tag vocabulary
func (s *SimilarityService) SuggestTags(title, description string, existingTags []string, maxTags int) []string {
	if maxTags <= 0 {
		maxTags = DefaultMaxSuggestedTags
	}

	features := s.extractor.Extract(title, description)
	if features == nil {
		return []string{}
	}

	suggestions := make([]string, 0, 8)
	seen := make(map[string]bool)
	add := func(tag string) {
		if tag != "" && !seen[tag] {
			seen[tag] = true
			suggestions = append(suggestions, tag)
		}
	}

	for _, tech := range features.Technologies {
		add(tech)
	}
	for i, kw := range features.Keywords {
		if i >= 3 {
			break
		}
		if kw.Score > 0.5 {
			add(kw.Term)
		}
	}
	if features.QuestionType != analysis.TypeGeneral {
		add(string(features.QuestionType))
	}

	allowed := make(map[string]bool, len(existingTags)+len(s.lexicon.CommonTags))
	for _, t := range existingTags {
		allowed[t] = true
	}
	for _, t := range s.lexicon.CommonTags {
		allowed[t] = true
	}

	filtered := make([]string, 0, len(suggestions))
	for _, tag := range suggestions {
		if allowed[tag] {
			filtered = append(filtered, tag)
		}
	}
	if len(filtered) > maxTags {
		filtered = filtered[:maxTags]
	}
	return filtered
}

// CompareFeatures blends four signals into one similarity score:
// processed-text bigram similarity, keyword overlap, technology overlap
// and question-type agreement
func CompareFeatures(a, b *analysis.FeatureVector) float64 {
	if a == nil || b == nil {
		return 0
	}

	score := analysis.DiceCoefficient(a.NormalizedText, b.NormalizedText) * weightText
	score += analysis.JaccardOverlap(a.KeywordTerms(), b.KeywordTerms()) * weightKeywords
	score += analysis.JaccardOverlap(a.Technologies, b.Technologies) * weightTech
	if a.QuestionType == b.QuestionType {
		score += weightType
	}
	return score
}

// similarityReasons explains which signals carried a match
func similarityReasons(a, b *analysis.FeatureVector) []string {
	reasons := make([]string, 0, 4)

	textSim := analysis.DiceCoefficient(a.NormalizedText, b.NormalizedText)
	if textSim > 0.5 {
		reasons = append(reasons, fmt.Sprintf("Similar wording (%d%% match)", int(math.Round(textSim*100))))
	}

	if common := commonTerms(a.KeywordTerms(), b.KeywordTerms(), 3); len(common) > 0 {
		reasons = append(reasons, "Common keywords: "+strings.Join(common, ", "))
	}
	if common := commonTerms(a.Technologies, b.Technologies, 3); len(common) > 0 {
		reasons = append(reasons, "Same technologies: "+strings.Join(common, ", "))
	}
	if a.QuestionType == b.QuestionType && a.QuestionType != analysis.TypeGeneral {
		reasons = append(reasons, "Same question type: "+string(a.QuestionType))
	}
	return reasons
}

// commonTerms returns up to limit terms present in both slices,
// preserving the order of the first
func commonTerms(a, b []string, limit int) []string {
	inB := make(map[string]bool, len(b))
	for _, t := range b {
		inB[t] = true
	}
	common := make([]string, 0, limit)
	for _, t := range a {
		if inB[t] {
			common = append(common, t)
			if len(common) == limit {
				break
			}
		}
	}
	return common
}
