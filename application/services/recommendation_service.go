package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/domain/analysis"
	"stackit-backend/domain/content"
)

// DefaultMaxRecommendations is the combined question/answer budget
const DefaultMaxRecommendations = 10

// Expertise levels, lowest to highest
const (
	ExpertiseNew          = "new"
	ExpertiseBeginner     = "beginner"
	ExpertiseIntermediate = "intermediate"
	ExpertiseExpert       = "expert"
)

// TechInterest is one technology with its accumulated interest weight
type TechInterest struct {
	Tech  string  `json:"tech"`
	Score float64 `json:"score"`
}

// UserInterests is the profile mined from a user's own activity
type UserInterests struct {
	Technologies        map[string]float64  `json:"technologies"`
	QuestionTypes       map[string]int      `json:"questionTypes"`
	Topics              map[string]float64  `json:"topics"`
	TopTechnologies     []TechInterest      `json:"topTechnologies"`
	PreferredComplexity analysis.Complexity `json:"preferredComplexity"`
	ActivityScore       int                 `json:"activityScore"`
}

// QuestionRecommendation is one question suggested to a user
type QuestionRecommendation struct {
	Question       content.Question `json:"question"`
	RelevanceScore float64          `json:"relevanceScore"`
	Reasons        []string         `json:"reasons"`
}

// AnswerRecommendation is one high-quality answer suggested to a user
type AnswerRecommendation struct {
	Answer         content.Answer   `json:"answer"`
	Question       content.Question `json:"question"`
	RelevanceScore float64          `json:"relevanceScore"`
	QualityGrade   string           `json:"qualityGrade"`
	Reasons        []string         `json:"reasons"`
}

// TopicRecommendation is a topic the user might want to explore
type TopicRecommendation struct {
	Topic          string  `json:"topic"`
	Popularity     int     `json:"popularity"`
	UserInterest   float64 `json:"userInterest"`
	RelevanceScore float64 `json:"relevanceScore"`
	Reason         string  `json:"reason"`
}

// ExpertStats summarizes why a user is recommended as an expert
type ExpertStats struct {
	TotalAnswers    int      `json:"totalAnswers"`
	AcceptanceRate  int      `json:"acceptanceRate"`
	AvgQualityScore int      `json:"avgQualityScore"`
	AvgVotes        float64  `json:"avgVotes"`
	TopTechnologies []string `json:"topTechnologies"`
}

// UserRecommendation is an expert worth following
type UserRecommendation struct {
	UserID         string      `json:"userId"`
	Username       string      `json:"username"`
	RelevanceScore float64     `json:"relevanceScore"`
	Stats          ExpertStats `json:"stats"`
}

// UserProfile is the interest/expertise snapshot returned alongside
// recommendations
type UserProfile struct {
	Interests       UserInterests  `json:"interests"`
	ExpertiseLevel  string         `json:"expertiseLevel"`
	PreferredTopics []TechInterest `json:"preferredTopics"`
}

// Recommendations is the full personalized bundle for one user
type Recommendations struct {
	Questions []QuestionRecommendation `json:"questions"`
	Answers   []AnswerRecommendation   `json:"answers"`
	Topics    []TopicRecommendation    `json:"topics"`
	Users     []UserRecommendation     `json:"users"`
	Profile   UserProfile              `json:"userProfile"`
}

// RecommendationService builds personalized content suggestions from
// interest profiles mined out of user activity
type RecommendationService struct {
	store     ports.ContentStore
	extractor *analysis.Extractor
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(store ports.ContentStore, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{
		store:     store,
		extractor: analysis.NewExtractor(nil),
		logger:    logger,
		now:       time.Now,
	}
}

// PersonalizedRecommendations assembles question, answer, topic and
// expert suggestions for a user. maxRecommendations caps the combined
// question/answer budget; zero selects the default.
func (s *RecommendationService) PersonalizedRecommendations(ctx context.Context, userID string, maxRecommendations int) (*Recommendations, error) {
	if maxRecommendations <= 0 {
		maxRecommendations = DefaultMaxRecommendations
	}

	userQuestions, err := s.store.QuestionsByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user questions: %w", err)
	}
	userAnswers, err := s.store.AnswersByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user answers: %w", err)
	}
	allQuestions, err := s.store.ListQuestions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	allAnswers, err := s.store.ListAnswers(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	interests := s.analyzeInterests(userQuestions, userAnswers)

	questionBudget := int(math.Ceil(float64(maxRecommendations) * 0.6))
	answerBudget := int(math.Ceil(float64(maxRecommendations) * 0.4))

	result := &Recommendations{
		Questions: s.recommendQuestions(interests, allQuestions, userID, questionBudget),
		Answers:   s.recommendAnswers(interests, allAnswers, allQuestions, userID, answerBudget),
		Topics:    s.recommendTopics(interests, allQuestions),
		Users:     s.recommendUsers(interests, allAnswers, userID),
	}
	result.Profile = UserProfile{
		Interests:       interests,
		ExpertiseLevel:  AssessExpertise(userQuestions, userAnswers),
		PreferredTopics: topN(interests.TopTechnologies, 5),
	}

	s.logger.Debug("Recommendations built",
		zap.String("userId", userID),
		zap.Int("questions", len(result.Questions)),
		zap.Int("answers", len(result.Answers)),
	)
	return result, nil
}

// UserExpertise classifies a user's expertise level from their
// stored activity
func (s *RecommendationService) UserExpertise(ctx context.Context, userID string) (string, error) {
	questions, err := s.store.QuestionsByAuthor(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user questions: %w", err)
	}
	answers, err := s.store.AnswersByAuthor(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load user answers: %w", err)
	}
	return AssessExpertise(questions, answers), nil
}

// AssessExpertise scores activity volume and answer success into a
// four-level ladder
func AssessExpertise(questions []content.Question, answers []content.Answer) string {
	totalVotes, accepted := 0, 0
	for _, a := range answers {
		totalVotes += a.Votes
		if a.IsAccepted {
			accepted++
		}
	}

	score := float64(len(answers))*2 + float64(totalVotes)*0.5 + float64(accepted)*3 + float64(len(questions))*0.5
	switch {
	case score > 50:
		return ExpertiseExpert
	case score > 20:
		return ExpertiseIntermediate
	case score > 5:
		return ExpertiseBeginner
	default:
		return ExpertiseNew
	}
}

// analyzeInterests accumulates technology, question-type and topic
// weights from the user's own posts. Questions weigh more than
// answers because asking signals active interest.
func (s *RecommendationService) analyzeInterests(questions []content.Question, answers []content.Answer) UserInterests {
	interests := UserInterests{
		Technologies:  make(map[string]float64),
		QuestionTypes: make(map[string]int),
		Topics:        make(map[string]float64),
	}

	for _, q := range questions {
		features := s.extractor.Extract(q.Title, q.Description)
		if features == nil {
			continue
		}
		for _, tech := range features.Technologies {
			interests.Technologies[tech] += 2
		}
		interests.QuestionTypes[string(features.QuestionType)]++
		for _, kw := range features.Keywords {
			interests.Topics[kw.Term] += kw.Score
		}
		interests.ActivityScore += 3
	}

	for _, a := range answers {
		features := s.extractor.Extract("", a.Content)
		if features == nil {
			continue
		}
		for _, tech := range features.Technologies {
			interests.Technologies[tech] += 1.5
		}
		for _, kw := range features.Keywords {
			interests.Topics[kw.Term] += kw.Score * 0.8
		}
		interests.ActivityScore += 2
	}

	interests.TopTechnologies = make([]TechInterest, 0, len(interests.Technologies))
	for tech, score := range interests.Technologies {
		interests.TopTechnologies = append(interests.TopTechnologies, TechInterest{Tech: tech, Score: score})
	}
	sort.SliceStable(interests.TopTechnologies, func(i, j int) bool {
		if interests.TopTechnologies[i].Score != interests.TopTechnologies[j].Score {
			return interests.TopTechnologies[i].Score > interests.TopTechnologies[j].Score
		}
		return interests.TopTechnologies[i].Tech < interests.TopTechnologies[j].Tech
	})
	interests.TopTechnologies = topN(interests.TopTechnologies, 10)

	switch {
	case len(questions) > 10 || len(answers) > 15:
		interests.PreferredComplexity = analysis.ComplexityHigh
	case len(questions) > 5 || len(answers) > 8:
		interests.PreferredComplexity = analysis.ComplexityMedium
	default:
		interests.PreferredComplexity = analysis.ComplexityLow
	}

	return interests
}

func (s *RecommendationService) recommendQuestions(interests UserInterests, questions []content.Question, userID string, limit int) []QuestionRecommendation {
	recommendations := make([]QuestionRecommendation, 0)

	for _, q := range questions {
		if q.UserID == userID {
			continue
		}
		features := s.extractor.Extract(q.Title, q.Description)
		if features == nil {
			continue
		}

		score := 0.0
		for _, tech := range features.Technologies {
			score += interests.Technologies[tech] * 0.3
		}
		score += float64(interests.QuestionTypes[string(features.QuestionType)]) * 0.2
		if features.Complexity == interests.PreferredComplexity {
			score += 0.2
		}
		for _, kw := range features.Keywords {
			score += interests.Topics[kw.Term] * 0.15
		}
		if q.Answers == 0 {
			score += 0.1
		}
		if q.AgeDays(s.now()) < 7 {
			score += 0.05
		}

		if score > 0.3 {
			recommendations = append(recommendations, QuestionRecommendation{
				Question:       q,
				RelevanceScore: score,
				Reasons:        questionRecommendationReasons(features, interests),
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].RelevanceScore > recommendations[j].RelevanceScore
	})
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

func (s *RecommendationService) recommendAnswers(interests UserInterests, answers []content.Answer, questions []content.Question, userID string, limit int) []AnswerRecommendation {
	questionByID := make(map[string]content.Question, len(questions))
	for _, q := range questions {
		questionByID[q.ID] = q
	}

	recommendations := make([]AnswerRecommendation, 0)
	for _, a := range answers {
		if a.UserID == userID {
			continue
		}
		question, ok := questionByID[a.QuestionID]
		if !ok {
			continue
		}

		answerFeatures := s.extractor.Extract("", a.Content)
		questionFeatures := s.extractor.Extract(question.Title, question.Description)
		if answerFeatures == nil || questionFeatures == nil {
			continue
		}

		quality := s.extractor.ScoreQuality(a.Content)
		score := quality.Score * 0.4
		for _, tech := range answerFeatures.Technologies {
			score += interests.Technologies[tech] * 0.2
		}
		for _, tech := range questionFeatures.Technologies {
			score += interests.Technologies[tech] * 0.15
		}
		if a.IsAccepted {
			score += 0.1
		}
		if a.Votes > 5 {
			score += 0.05
		}

		if score > 0.4 {
			recommendations = append(recommendations, AnswerRecommendation{
				Answer:         a,
				Question:       question,
				RelevanceScore: score,
				QualityGrade:   quality.Grade,
				Reasons:        answerRecommendationReasons(answerFeatures, questionFeatures, interests),
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].RelevanceScore > recommendations[j].RelevanceScore
	})
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

// recommendTopics surfaces technologies that are popular on the
// platform but underexplored by this user
func (s *RecommendationService) recommendTopics(interests UserInterests, questions []content.Question) []TopicRecommendation {
	popularity := make(map[string]int)
	for _, q := range questions {
		features := s.extractor.Extract(q.Title, q.Description)
		if features == nil {
			continue
		}
		for _, tech := range features.Technologies {
			popularity[tech]++
		}
	}

	userTechs := make([]string, 0, len(interests.Technologies))
	for tech := range interests.Technologies {
		userTechs = append(userTechs, tech)
	}
	sort.Strings(userTechs)

	recommendations := make([]TopicRecommendation, 0)
	for topic, count := range popularity {
		userInterest := interests.Technologies[topic]
		if count <= 2 || userInterest >= 3 {
			continue
		}

		related := 0.0
		for _, tech := range userTechs {
			if strings.Contains(topic, tech) || strings.Contains(tech, topic) {
				related = 0.3
				break
			}
		}

		reason := "Trending topic"
		if related > 0 {
			reason = "Related to " + strings.Join(userTechs, ", ")
		}

		recommendations = append(recommendations, TopicRecommendation{
			Topic:          topic,
			Popularity:     count,
			UserInterest:   userInterest,
			RelevanceScore: float64(count)*0.1 + related,
			Reason:         reason,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].RelevanceScore != recommendations[j].RelevanceScore {
			return recommendations[i].RelevanceScore > recommendations[j].RelevanceScore
		}
		return recommendations[i].Topic < recommendations[j].Topic
	})
	if len(recommendations) > 8 {
		recommendations = recommendations[:8]
	}
	return recommendations
}

// recommendUsers surfaces consistent, high-quality answerers whose
// technologies overlap the user's interests
func (s *RecommendationService) recommendUsers(interests UserInterests, answers []content.Answer, currentUserID string) []UserRecommendation {
	type expertProfile struct {
		username      string
		totalAnswers  int
		totalVotes    int
		accepted      int
		technologies  map[string]int
		qualityTotal  float64
	}

	profiles := make(map[string]*expertProfile)
	order := make([]string, 0)

	for _, a := range answers {
		if a.UserID == currentUserID {
			continue
		}
		features := s.extractor.Extract("", a.Content)
		if features == nil {
			continue
		}

		profile, ok := profiles[a.UserID]
		if !ok {
			profile = &expertProfile{username: a.Username, technologies: make(map[string]int)}
			profiles[a.UserID] = profile
			order = append(order, a.UserID)
		}

		profile.totalAnswers++
		profile.totalVotes += a.Votes
		if a.IsAccepted {
			profile.accepted++
		}
		for _, tech := range features.Technologies {
			profile.technologies[tech]++
		}
		profile.qualityTotal += s.extractor.ScoreQuality(a.Content).Score
	}

	recommendations := make([]UserRecommendation, 0)
	for _, userID := range order {
		profile := profiles[userID]
		if profile.totalAnswers < 3 {
			continue
		}

		avgQuality := profile.qualityTotal / float64(profile.totalAnswers)
		acceptanceRate := float64(profile.accepted) / float64(profile.totalAnswers)
		sharedTech := 0
		for tech := range profile.technologies {
			if interests.Technologies[tech] > 0 {
				sharedTech++
			}
		}
		avgVotes := float64(profile.totalVotes) / float64(profile.totalAnswers)

		score := avgQuality*0.3 + acceptanceRate*0.2 + float64(sharedTech)*0.1 + math.Min(avgVotes*0.05, 0.2)
		if score <= 0.3 {
			continue
		}

		techs := make([]TechInterest, 0, len(profile.technologies))
		for tech, count := range profile.technologies {
			techs = append(techs, TechInterest{Tech: tech, Score: float64(count)})
		}
		sort.SliceStable(techs, func(i, j int) bool {
			if techs[i].Score != techs[j].Score {
				return techs[i].Score > techs[j].Score
			}
			return techs[i].Tech < techs[j].Tech
		})
		topTechs := make([]string, 0, 3)
		for i, t := range techs {
			if i == 3 {
				break
			}
			topTechs = append(topTechs, t.Tech)
		}

		recommendations = append(recommendations, UserRecommendation{
			UserID:         userID,
			Username:       profile.username,
			RelevanceScore: score,
			Stats: ExpertStats{
				TotalAnswers:    profile.totalAnswers,
				AcceptanceRate:  int(math.Round(acceptanceRate * 100)),
				AvgQualityScore: int(math.Round(avgQuality * 100)),
				AvgVotes:        math.Round(avgVotes*10) / 10,
				TopTechnologies: topTechs,
			},
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].RelevanceScore > recommendations[j].RelevanceScore
	})
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}
	return recommendations
}

func questionRecommendationReasons(features *analysis.FeatureVector, interests UserInterests) []string {
	reasons := make([]string, 0, 3)

	matched := make([]string, 0, 2)
	for _, tech := range features.Technologies {
		if interests.Technologies[tech] > 0 {
			matched = append(matched, tech)
			if len(matched) == 2 {
				break
			}
		}
	}
	if len(matched) > 0 {
		reasons = append(reasons, "Matches your interest in "+strings.Join(matched, ", "))
	}
	if interests.QuestionTypes[string(features.QuestionType)] > 0 {
		reasons = append(reasons, string(features.QuestionType)+" questions interest you")
	}
	if features.Complexity == interests.PreferredComplexity {
		reasons = append(reasons, "Matches your preferred complexity level")
	}
	return reasons
}

func answerRecommendationReasons(answerFeatures, questionFeatures *analysis.FeatureVector, interests UserInterests) []string {
	reasons := make([]string, 0, 2)

	matched := make([]string, 0, 2)
	seen := make(map[string]bool)
	for _, tech := range append(append([]string{}, answerFeatures.Technologies...), questionFeatures.Technologies...) {
		if interests.Technologies[tech] > 0 && !seen[tech] {
			seen[tech] = true
			matched = append(matched, tech)
			if len(matched) == 2 {
				break
			}
		}
	}
	if len(matched) > 0 {
		reasons = append(reasons, "Covers "+strings.Join(matched, ", "))
	}
	if len(answerFeatures.Technologies) > 2 {
		reasons = append(reasons, "Technical depth")
	}
	return reasons
}

func topN(items []TechInterest, n int) []TechInterest {
	if len(items) > n {
		return items[:n]
	}
	return items
}
