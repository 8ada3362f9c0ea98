package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/domain/analysis"
	"stackit-backend/domain/content"
)

// Timeframes accepted by engagement analysis
const (
	TimeframeAll     = "all"
	TimeframeDay     = "day"
	TimeframeWeek    = "week"
	TimeframeMonth   = "month"
	TimeframeQuarter = "quarter"
	TimeframeYear    = "year"
)

// QuestionEngagement is the engagement breakdown for one question
type QuestionEngagement struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	EngagementScore float64  `json:"engagementScore"`
	Factors         []string `json:"factors"`
	Metrics         struct {
		Votes             int     `json:"votes"`
		Answers           int     `json:"answers"`
		HasAcceptedAnswer bool    `json:"hasAcceptedAnswer"`
		AvgAnswerQuality  float64 `json:"avgAnswerQuality"`
		ContentLength     int     `json:"contentLength"`
	} `json:"metrics"`
}

// AnswerEngagement is the engagement breakdown for one answer
type AnswerEngagement struct {
	ID              string   `json:"id"`
	EngagementScore float64  `json:"engagementScore"`
	Factors         []string `json:"factors"`
	Metrics         struct {
		Votes         int     `json:"votes"`
		IsAccepted    bool    `json:"isAccepted"`
		QualityScore  float64 `json:"qualityScore"`
		QualityGrade  string  `json:"qualityGrade"`
		ContentLength int     `json:"contentLength"`
	} `json:"metrics"`
}

// FactorFrequency counts how often an engagement factor appears in a
// high or low engagement cohort
type FactorFrequency struct {
	Factor     string `json:"factor"`
	Frequency  int    `json:"frequency"`
	Percentage int    `json:"percentage"`
}

// LengthBucket aggregates engagement by content length range
type LengthBucket struct {
	Count         int     `json:"count"`
	AvgEngagement float64 `json:"avgEngagement"`
	Range         string  `json:"range"`
}

// AcceptanceStats compares accepted and non-accepted answer cohorts
type AcceptanceStats struct {
	Count         int     `json:"count"`
	AvgEngagement float64 `json:"avgEngagement"`
	AvgQuality    float64 `json:"avgQuality"`
}

// EngagementDistribution buckets all content into engagement tiers
type EngagementDistribution struct {
	High        int `json:"high"`
	Medium      int `json:"medium"`
	Low         int `json:"low"`
	Percentages struct {
		High   int `json:"high"`
		Medium int `json:"medium"`
		Low    int `json:"low"`
	} `json:"percentages"`
}

// EngagementPatterns aggregates which characteristics correlate with
// engagement across the corpus
type EngagementPatterns struct {
	QuestionPatterns struct {
		HighEngagementFactors []FactorFrequency       `json:"highEngagementFactors"`
		LowEngagementFactors  []FactorFrequency       `json:"lowEngagementFactors"`
		OptimalLength         map[string]LengthBucket `json:"optimalQuestionLength"`
	} `json:"questionPatterns"`
	AnswerPatterns struct {
		HighEngagementFactors []FactorFrequency       `json:"highEngagementFactors"`
		LowEngagementFactors  []FactorFrequency       `json:"lowEngagementFactors"`
		OptimalLength         map[string]LengthBucket `json:"optimalAnswerLength"`
		Acceptance            struct {
			Accepted    AcceptanceStats `json:"acceptedAnswers"`
			NonAccepted AcceptanceStats `json:"nonAcceptedAnswers"`
		} `json:"acceptancePatterns"`
	} `json:"answerPatterns"`
	Distribution EngagementDistribution `json:"engagementDistribution"`
}

// MonthlyEngagement is one month's aggregate engagement
type MonthlyEngagement struct {
	Month                 string  `json:"month"`
	AvgQuestionEngagement float64 `json:"avgQuestionEngagement"`
	AvgAnswerEngagement   float64 `json:"avgAnswerEngagement"`
	TotalContent          int     `json:"totalContent"`
	QuestionCount         int     `json:"questionCount"`
	AnswerCount           int     `json:"answerCount"`
}

// EngagementTrends tracks engagement movement over calendar months
type EngagementTrends struct {
	MonthlyTrends  []MonthlyEngagement `json:"monthlyTrends"`
	TrendDirection string              `json:"trendDirection,omitempty"`
}

// EngagementInsight is one narrative finding from the analysis
type EngagementInsight struct {
	Type           string   `json:"type"`
	Category       string   `json:"category"`
	Content        string   `json:"content"`
	Factors        []string `json:"factors,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Context        string   `json:"context,omitempty"`
}

// EngagementRecommendation is an actionable improvement suggestion
type EngagementRecommendation struct {
	Type        string   `json:"type"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

// EngagementOverview is the headline statistics of an analysis run
type EngagementOverview struct {
	TotalQuestions        int     `json:"totalQuestions"`
	TotalAnswers          int     `json:"totalAnswers"`
	AvgQuestionEngagement float64 `json:"avgQuestionEngagement"`
	AvgAnswerEngagement   float64 `json:"avgAnswerEngagement"`
	HighEngagementContent int     `json:"highEngagementContent"`
	LowEngagementContent  int     `json:"lowEngagementContent"`
}

// EngagementReport is the full output of an engagement analysis
type EngagementReport struct {
	Overview   EngagementOverview `json:"overview"`
	TopContent struct {
		Questions []QuestionEngagement `json:"questions"`
		Answers   []AnswerEngagement   `json:"answers"`
	} `json:"topContent"`
	Patterns        EngagementPatterns         `json:"patterns"`
	Trends          EngagementTrends           `json:"trends"`
	Insights        []EngagementInsight        `json:"insights"`
	Recommendations []EngagementRecommendation `json:"recommendations"`
}

// EngagementService measures how the community interacts with content
type EngagementService struct {
	store     ports.ContentStore
	extractor *analysis.Extractor
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngagementService creates a new engagement service
func NewEngagementService(store ports.ContentStore, logger *zap.Logger) *EngagementService {
	return &EngagementService{
		store:     store,
		extractor: analysis.NewExtractor(nil),
		logger:    logger,
		now:       time.Now,
	}
}

// AnalyzeEngagement scores every question and answer in the timeframe
// and aggregates patterns, trends, insights and recommendations
func (s *EngagementService) AnalyzeEngagement(ctx context.Context, timeframe string) (*EngagementReport, error) {
	questions, err := s.store.ListQuestions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	answers, err := s.store.ListAnswers(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	questions, answers = s.filterByTimeframe(questions, answers, timeframe)

	questionEngagement := s.scoreQuestions(questions, answers)
	answerEngagement := s.scoreAnswers(answers)

	report := &EngagementReport{
		Patterns: s.analyzePatterns(questionEngagement, answerEngagement),
		Trends:   s.analyzeTrends(questions, answers),
	}
	report.Overview = buildOverview(questionEngagement, answerEngagement)
	report.Insights = buildInsights(questionEngagement, answerEngagement, report.Patterns)
	report.Recommendations = buildRecommendations(report.Patterns)

	sortedQuestions := append([]QuestionEngagement{}, questionEngagement...)
	sort.SliceStable(sortedQuestions, func(i, j int) bool {
		return sortedQuestions[i].EngagementScore > sortedQuestions[j].EngagementScore
	})
	if len(sortedQuestions) > 10 {
		sortedQuestions = sortedQuestions[:10]
	}
	sortedAnswers := append([]AnswerEngagement{}, answerEngagement...)
	sort.SliceStable(sortedAnswers, func(i, j int) bool {
		return sortedAnswers[i].EngagementScore > sortedAnswers[j].EngagementScore
	})
	if len(sortedAnswers) > 10 {
		sortedAnswers = sortedAnswers[:10]
	}
	report.TopContent.Questions = sortedQuestions
	report.TopContent.Answers = sortedAnswers

	s.logger.Debug("Engagement analysis complete",
		zap.String("timeframe", timeframe),
		zap.Int("questions", len(questions)),
		zap.Int("answers", len(answers)),
	)
	return report, nil
}

// ScoreQuestionEngagement computes one question's engagement score
// from votes, answers, answer quality, recency and content signals
func (s *EngagementService) ScoreQuestionEngagement(q content.Question, answers []content.Answer) QuestionEngagement {
	result := QuestionEngagement{ID: q.ID, Title: q.Title}
	score := 0.0

	if q.Votes > 0 {
		score += math.Min(float64(q.Votes)*0.1, 0.3)
		result.Factors = append(result.Factors, fmt.Sprintf("%d votes", q.Votes))
	}
	if len(answers) > 0 {
		score += math.Min(float64(len(answers))*0.15, 0.4)
		result.Factors = append(result.Factors, fmt.Sprintf("%d answers", len(answers)))
	}
	if q.HasAcceptedAnswer() {
		score += 0.2
		result.Factors = append(result.Factors, "has accepted answer")
	}

	avgQuality := 0.0
	if len(answers) > 0 {
		for _, a := range answers {
			avgQuality += s.extractor.ScoreQuality(a.Content).Score
		}
		avgQuality /= float64(len(answers))
		score += avgQuality * 0.3
		result.Factors = append(result.Factors, fmt.Sprintf("avg answer quality: %d%%", int(math.Round(avgQuality*100))))
	}

	if q.AgeDays(s.now()) < 30 {
		score += 0.1
		result.Factors = append(result.Factors, "recent activity")
	}

	if features := s.extractor.Extract(q.Title, q.Description); features != nil {
		if features.Complexity == analysis.ComplexityHigh {
			score += 0.1
			result.Factors = append(result.Factors, "detailed question")
		}
		if len(features.Technologies) > 2 {
			score += 0.1
			result.Factors = append(result.Factors, "multiple technologies")
		}
	}

	result.EngagementScore = math.Min(score, 1)
	result.Metrics.Votes = q.Votes
	result.Metrics.Answers = len(answers)
	result.Metrics.HasAcceptedAnswer = q.HasAcceptedAnswer()
	result.Metrics.AvgAnswerQuality = avgQuality
	result.Metrics.ContentLength = len(q.Description)
	return result
}

// ScoreAnswerEngagement computes one answer's engagement score from
// votes, acceptance, quality, length and code presence
func (s *EngagementService) ScoreAnswerEngagement(a content.Answer) AnswerEngagement {
	result := AnswerEngagement{ID: a.ID}
	score := 0.0

	if a.Votes > 0 {
		score += math.Min(float64(a.Votes)*0.15, 0.4)
		result.Factors = append(result.Factors, fmt.Sprintf("%d votes", a.Votes))
	}
	if a.IsAccepted {
		score += 0.3
		result.Factors = append(result.Factors, "accepted answer")
	}

	quality := s.extractor.ScoreQuality(a.Content)
	score += quality.Score * 0.4
	result.Factors = append(result.Factors, "quality: "+quality.Grade)

	if len(a.Content) > 500 {
		score += 0.1
		result.Factors = append(result.Factors, "comprehensive answer")
	}
	if containsCode(a.Content) {
		score += 0.1
		result.Factors = append(result.Factors, "includes code")
	}

	result.EngagementScore = math.Min(score, 1)
	result.Metrics.Votes = a.Votes
	result.Metrics.IsAccepted = a.IsAccepted
	result.Metrics.QualityScore = quality.Score
	result.Metrics.QualityGrade = quality.Grade
	result.Metrics.ContentLength = len(a.Content)
	return result
}

func (s *EngagementService) scoreQuestions(questions []content.Question, answers []content.Answer) []QuestionEngagement {
	byQuestion := make(map[string][]content.Answer, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}

	scored := make([]QuestionEngagement, 0, len(questions))
	for _, q := range questions {
		scored = append(scored, s.ScoreQuestionEngagement(q, byQuestion[q.ID]))
	}
	return scored
}

func (s *EngagementService) scoreAnswers(answers []content.Answer) []AnswerEngagement {
	scored := make([]AnswerEngagement, 0, len(answers))
	for _, a := range answers {
		scored = append(scored, s.ScoreAnswerEngagement(a))
	}
	return scored
}

func (s *EngagementService) filterByTimeframe(questions []content.Question, answers []content.Answer, timeframe string) ([]content.Question, []content.Answer) {
	var cutoff time.Time
	now := s.now()

	switch timeframe {
	case TimeframeDay:
		cutoff = now.AddDate(0, 0, -1)
	case TimeframeWeek:
		cutoff = now.AddDate(0, 0, -7)
	case TimeframeMonth:
		cutoff = now.AddDate(0, -1, 0)
	case TimeframeQuarter:
		cutoff = now.AddDate(0, -3, 0)
	case TimeframeYear:
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return questions, answers
	}

	fq := make([]content.Question, 0, len(questions))
	for _, q := range questions {
		if !q.CreatedAt.Before(cutoff) {
			fq = append(fq, q)
		}
	}
	fa := make([]content.Answer, 0, len(answers))
	for _, a := range answers {
		if !a.CreatedAt.Before(cutoff) {
			fa = append(fa, a)
		}
	}
	return fq, fa
}

func (s *EngagementService) analyzePatterns(questions []QuestionEngagement, answers []AnswerEngagement) EngagementPatterns {
	patterns := EngagementPatterns{}

	highQ := make([]QuestionEngagement, 0)
	lowQ := make([]QuestionEngagement, 0)
	for _, q := range questions {
		if q.EngagementScore > 0.7 {
			highQ = append(highQ, q)
		} else if q.EngagementScore < 0.3 {
			lowQ = append(lowQ, q)
		}
	}
	patterns.QuestionPatterns.HighEngagementFactors = commonFactors(questionFactors(highQ))
	patterns.QuestionPatterns.LowEngagementFactors = commonFactors(questionFactors(lowQ))
	patterns.QuestionPatterns.OptimalLength = lengthBuckets(questionFactors(questions))

	highA := make([]AnswerEngagement, 0)
	lowA := make([]AnswerEngagement, 0)
	accepted := make([]AnswerEngagement, 0)
	nonAccepted := make([]AnswerEngagement, 0)
	for _, a := range answers {
		if a.EngagementScore > 0.7 {
			highA = append(highA, a)
		} else if a.EngagementScore < 0.3 {
			lowA = append(lowA, a)
		}
		if a.Metrics.IsAccepted {
			accepted = append(accepted, a)
		} else {
			nonAccepted = append(nonAccepted, a)
		}
	}
	patterns.AnswerPatterns.HighEngagementFactors = commonFactors(answerFactors(highA))
	patterns.AnswerPatterns.LowEngagementFactors = commonFactors(answerFactors(lowA))
	patterns.AnswerPatterns.OptimalLength = lengthBuckets(answerFactors(answers))
	patterns.AnswerPatterns.Acceptance.Accepted = acceptanceStats(accepted)
	patterns.AnswerPatterns.Acceptance.NonAccepted = acceptanceStats(nonAccepted)

	patterns.Distribution = distribution(questions, answers)
	return patterns
}

func (s *EngagementService) analyzeTrends(questions []content.Question, answers []content.Answer) EngagementTrends {
	byMonth := make(map[string]struct {
		questions []content.Question
		answers   []content.Answer
	})

	for _, q := range questions {
		month := q.CreatedAt.UTC().Format("2006-01")
		entry := byMonth[month]
		entry.questions = append(entry.questions, q)
		byMonth[month] = entry
	}
	for _, a := range answers {
		month := a.CreatedAt.UTC().Format("2006-01")
		entry := byMonth[month]
		entry.answers = append(entry.answers, a)
		byMonth[month] = entry
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	trends := EngagementTrends{MonthlyTrends: make([]MonthlyEngagement, 0, len(months))}
	for _, month := range months {
		entry := byMonth[month]
		qe := s.scoreQuestions(entry.questions, entry.answers)
		ae := s.scoreAnswers(entry.answers)

		trends.MonthlyTrends = append(trends.MonthlyTrends, MonthlyEngagement{
			Month:                 month,
			AvgQuestionEngagement: avgQuestionScore(qe),
			AvgAnswerEngagement:   avgAnswerScore(ae),
			TotalContent:          len(entry.questions) + len(entry.answers),
			QuestionCount:         len(entry.questions),
			AnswerCount:           len(entry.answers),
		})
	}

	n := len(trends.MonthlyTrends)
	if n >= 4 {
		recent := trends.MonthlyTrends[maxInt(0, n-3):]
		earlierStart := maxInt(0, n-6)
		earlier := trends.MonthlyTrends[earlierStart : n-3]
		if len(earlier) > 0 {
			recentAvg, earlierAvg := 0.0, 0.0
			for _, m := range recent {
				recentAvg += m.AvgQuestionEngagement
			}
			recentAvg /= float64(len(recent))
			for _, m := range earlier {
				earlierAvg += m.AvgQuestionEngagement
			}
			earlierAvg /= float64(len(earlier))

			switch {
			case recentAvg > earlierAvg*1.1:
				trends.TrendDirection = "rising"
			case recentAvg < earlierAvg*0.9:
				trends.TrendDirection = "declining"
			default:
				trends.TrendDirection = "stable"
			}
		}
	}

	return trends
}

func buildOverview(questions []QuestionEngagement, answers []AnswerEngagement) EngagementOverview {
	overview := EngagementOverview{
		TotalQuestions:        len(questions),
		TotalAnswers:          len(answers),
		AvgQuestionEngagement: avgQuestionScore(questions),
		AvgAnswerEngagement:   avgAnswerScore(answers),
	}
	for _, q := range questions {
		if q.EngagementScore > 0.7 {
			overview.HighEngagementContent++
		}
		if q.EngagementScore < 0.3 {
			overview.LowEngagementContent++
		}
	}
	for _, a := range answers {
		if a.EngagementScore > 0.7 {
			overview.HighEngagementContent++
		}
		if a.EngagementScore < 0.3 {
			overview.LowEngagementContent++
		}
	}
	return overview
}

func buildInsights(questions []QuestionEngagement, answers []AnswerEngagement, patterns EngagementPatterns) []EngagementInsight {
	insights := make([]EngagementInsight, 0, 5)

	if top := topQuestion(questions); top != nil {
		insights = append(insights, EngagementInsight{
			Type:     "top_performer",
			Category: "question",
			Content:  fmt.Sprintf("Highest engaging question: %q with %d%% engagement", top.Title, int(math.Round(top.EngagementScore*100))),
			Factors:  top.Factors,
		})
	}
	if top := topAnswer(answers); top != nil {
		insights = append(insights, EngagementInsight{
			Type:     "top_performer",
			Category: "answer",
			Content:  fmt.Sprintf("Highest engaging answer with %d%% engagement", int(math.Round(top.EngagementScore*100))),
			Factors:  top.Factors,
		})
	}

	if factors := patterns.QuestionPatterns.HighEngagementFactors; len(factors) > 0 {
		insights = append(insights, EngagementInsight{
			Type:           "pattern",
			Category:       "question",
			Content:        fmt.Sprintf("Questions with %q have %d%% higher engagement", factors[0].Factor, factors[0].Percentage),
			Recommendation: "Focus on " + factors[0].Factor + " for better engagement",
		})
	}
	if factors := patterns.AnswerPatterns.HighEngagementFactors; len(factors) > 0 {
		insights = append(insights, EngagementInsight{
			Type:           "pattern",
			Category:       "answer",
			Content:        fmt.Sprintf("Answers with %q have %d%% higher engagement", factors[0].Factor, factors[0].Percentage),
			Recommendation: "Encourage " + factors[0].Factor + " in answers",
		})
	}

	if len(questions) > 0 {
		high, low := 0, 0
		for _, q := range questions {
			if q.EngagementScore > 0.7 {
				high++
			}
			if q.EngagementScore < 0.3 {
				low++
			}
		}
		insights = append(insights, EngagementInsight{
			Type:     "distribution",
			Category: "overall",
			Content:  fmt.Sprintf("%d%% of questions have high engagement", high*100/len(questions)),
			Context:  fmt.Sprintf("%d questions need attention", low),
		})
	}

	return insights
}

func buildRecommendations(patterns EngagementPatterns) []EngagementRecommendation {
	recommendations := make([]EngagementRecommendation, 0, 4)

	if len(patterns.QuestionPatterns.HighEngagementFactors) > 0 {
		recommendations = append(recommendations, EngagementRecommendation{
			Type:        "content_creation",
			Priority:    "high",
			Title:       "Optimize Question Format",
			Description: "Encourage questions that include detailed descriptions and multiple technologies",
			Actions: []string{
				"Provide question templates with sections for problem description, expected behavior, and code examples",
				"Suggest relevant tags during question creation",
				"Highlight successful question patterns in guidelines",
			},
		})
	}
	if len(patterns.AnswerPatterns.HighEngagementFactors) > 0 {
		recommendations = append(recommendations, EngagementRecommendation{
			Type:        "content_creation",
			Priority:    "high",
			Title:       "Improve Answer Quality",
			Description: "Promote answer characteristics that drive higher engagement",
			Actions: []string{
				"Encourage code examples in answers",
				"Reward comprehensive answers with explanation",
				"Provide answer quality feedback to users",
			},
		})
	}

	recommendations = append(recommendations,
		EngagementRecommendation{
			Type:        "community_engagement",
			Priority:    "medium",
			Title:       "Boost Low-Engagement Content",
			Description: "Identify and improve content with low engagement",
			Actions: []string{
				"Highlight unanswered questions in feeds",
				"Implement bounty system for difficult questions",
				"Notify experts about questions in their domains",
			},
		},
		EngagementRecommendation{
			Type:        "platform_improvement",
			Priority:    "medium",
			Title:       "Enhance Discovery",
			Description: "Help users find and engage with relevant content",
			Actions: []string{
				"Improve search algorithm to surface engaging content",
				"Implement content recommendation system",
				"Add engagement metrics to content sorting",
			},
		},
	)

	return recommendations
}

type factorsAndScore struct {
	factors []string
	score   float64
	length  int
}

func questionFactors(items []QuestionEngagement) []factorsAndScore {
	out := make([]factorsAndScore, len(items))
	for i, q := range items {
		out[i] = factorsAndScore{factors: q.Factors, score: q.EngagementScore, length: q.Metrics.ContentLength}
	}
	return out
}

func answerFactors(items []AnswerEngagement) []factorsAndScore {
	out := make([]factorsAndScore, len(items))
	for i, a := range items {
		out[i] = factorsAndScore{factors: a.Factors, score: a.EngagementScore, length: a.Metrics.ContentLength}
	}
	return out
}

// commonFactors ranks the five most frequent factors in a cohort
func commonFactors(items []factorsAndScore) []FactorFrequency {
	counts := make(map[string]int)
	for _, item := range items {
		for _, factor := range item.factors {
			counts[factor]++
		}
	}

	out := make([]FactorFrequency, 0, len(counts))
	for factor, count := range counts {
		pct := 0
		if len(items) > 0 {
			pct = int(math.Round(float64(count) / float64(len(items)) * 100))
		}
		out = append(out, FactorFrequency{Factor: factor, Frequency: count, Percentage: pct})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Factor < out[j].Factor
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func lengthBuckets(items []factorsAndScore) map[string]LengthBucket {
	type bucketRange struct {
		name     string
		min, max int
	}
	ranges := []bucketRange{
		{"short", 0, 100},
		{"medium", 100, 500},
		{"long", 500, 1000},
		{"very_long", 1000, math.MaxInt32},
	}

	out := make(map[string]LengthBucket)
	for _, r := range ranges {
		count, total := 0, 0.0
		for _, item := range items {
			if item.length >= r.min && item.length < r.max {
				count++
				total += item.score
			}
		}
		if count == 0 {
			continue
		}
		label := fmt.Sprintf("%d-%d chars", r.min, r.max)
		if r.max == math.MaxInt32 {
			label = fmt.Sprintf("%d- chars", r.min)
		}
		out[r.name] = LengthBucket{
			Count:         count,
			AvgEngagement: total / float64(count),
			Range:         label,
		}
	}
	return out
}

func acceptanceStats(items []AnswerEngagement) AcceptanceStats {
	stats := AcceptanceStats{Count: len(items)}
	if len(items) == 0 {
		return stats
	}
	for _, a := range items {
		stats.AvgEngagement += a.EngagementScore
		stats.AvgQuality += a.Metrics.QualityScore
	}
	stats.AvgEngagement /= float64(len(items))
	stats.AvgQuality /= float64(len(items))
	return stats
}

func distribution(questions []QuestionEngagement, answers []AnswerEngagement) EngagementDistribution {
	dist := EngagementDistribution{}
	total := len(questions) + len(answers)

	tally := func(score float64) {
		switch {
		case score >= 0.7:
			dist.High++
		case score >= 0.4:
			dist.Medium++
		default:
			dist.Low++
		}
	}
	for _, q := range questions {
		tally(q.EngagementScore)
	}
	for _, a := range answers {
		tally(a.EngagementScore)
	}

	if total > 0 {
		dist.Percentages.High = int(math.Round(float64(dist.High) / float64(total) * 100))
		dist.Percentages.Medium = int(math.Round(float64(dist.Medium) / float64(total) * 100))
		dist.Percentages.Low = int(math.Round(float64(dist.Low) / float64(total) * 100))
	}
	return dist
}

func avgQuestionScore(items []QuestionEngagement) float64 {
	if len(items) == 0 {
		return 0
	}
	total := 0.0
	for _, q := range items {
		total += q.EngagementScore
	}
	return total / float64(len(items))
}

func avgAnswerScore(items []AnswerEngagement) float64 {
	if len(items) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range items {
		total += a.EngagementScore
	}
	return total / float64(len(items))
}

func topQuestion(items []QuestionEngagement) *QuestionEngagement {
	var top *QuestionEngagement
	for i := range items {
		if top == nil || items[i].EngagementScore > top.EngagementScore {
			top = &items[i]
		}
	}
	return top
}

func topAnswer(items []AnswerEngagement) *AnswerEngagement {
	var top *AnswerEngagement
	for i := range items {
		if top == nil || items[i].EngagementScore > top.EngagementScore {
			top = &items[i]
		}
	}
	return top
}

func containsCode(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] == '`' {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
