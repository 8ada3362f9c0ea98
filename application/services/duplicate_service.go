package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/domain/analysis"
	"stackit-backend/domain/content"
)

// Default knobs for duplicate detection
const (
	DefaultDuplicateThreshold = 0.8
	DefaultMaxCandidates      = 5
	DefaultBatchSize          = 100
)

// Weights of the duplicate-oriented similarity blend. Title carries
// half the weight because duplicates are usually re-asks with the same
// opening words.
const (
	dupWeightTitle = 0.5
	dupWeightText  = 0.3
	dupWeightTech  = 0.15
	dupWeightType  = 0.05
)

// titlePrefixWords is how many leading words of the original text
// stand in for the title during duplicate comparison
const titlePrefixWords = 10

// DuplicateOptions tunes a detection run. Zero values select defaults.
type DuplicateOptions struct {
	SimilarityThreshold float64 `json:"similarityThreshold"`
	MaxCandidates       int     `json:"maxCandidates"`
	ConsiderAnswers     bool    `json:"considerAnswers"`
	StrictMode          bool    `json:"strictMode"`
}

func (o DuplicateOptions) withDefaults() DuplicateOptions {
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = DefaultDuplicateThreshold
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = DefaultMaxCandidates
	}
	return o
}

// DuplicateCandidate is one suspected duplicate of a group's primary
type DuplicateCandidate struct {
	Question   content.Question `json:"question"`
	Similarity float64          `json:"similarity"`
	Reasons    []string         `json:"reasons"`

	features *analysis.FeatureVector
}

// DuplicateGroup collects a primary question with its suspected
// duplicates and a suggested way to merge them
type DuplicateGroup struct {
	Primary       content.Question     `json:"primary"`
	Duplicates    []DuplicateCandidate `json:"duplicates"`
	Confidence    float64              `json:"confidence"`
	MergeStrategy MergeStrategy        `json:"mergeStrategy"`
}

// MergeStrategy describes how a duplicate group should be collapsed
type MergeStrategy struct {
	Recommended      MergeAction      `json:"recommended"`
	Alternatives     []MergeAction    `json:"alternatives"`
	PrimaryQuestion  content.Question `json:"primaryQuestion"`
	PreserveMetadata bool             `json:"preserveMetadata"`
}

// MergeAction is one way of combining duplicates
type MergeAction struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Primary     string   `json:"primary"`
	Action      string   `json:"action"`
	NewTags     []string `json:"newTags,omitempty"`
}

// DuplicatePair is a primary/duplicate pairing with a per-pair
// recommendation, useful for review queues
type DuplicatePair struct {
	Question1      content.Question    `json:"question1"`
	Question2      content.Question    `json:"question2"`
	Similarity     float64             `json:"similarity"`
	Reasons        []string            `json:"reasons"`
	Recommendation MergeRecommendation `json:"mergeRecommendation"`
}

// MergeRecommendation grades how safely a pair can be merged
type MergeRecommendation struct {
	Action     string   `json:"action"`
	Confidence string   `json:"confidence"`
	Primary    string   `json:"primary"`
	Secondary  string   `json:"secondary"`
	Reasoning  []string `json:"reasoning"`
}

// Pair recommendation actions, strongest first
const (
	MergeActionAuto     = "auto_merge"
	MergeActionMerge    = "merge"
	MergeActionReview   = "review"
	MergeActionNoAction = "no_action"
)

// DuplicateSummary aggregates a detection run. SkippedItems counts
// questions whose feature extraction produced nothing; they are left
// out of the scan rather than failing the run.
type DuplicateSummary struct {
	TotalQuestions  int     `json:"totalQuestions"`
	DuplicateGroups int     `json:"duplicateGroups"`
	TotalDuplicates int     `json:"totalDuplicates"`
	AvgGroupSize    float64 `json:"avgGroupSize"`
	SkippedItems    int     `json:"skippedItems"`
}

// DuplicateReport is the result of a detection run
type DuplicateReport struct {
	Groups  []DuplicateGroup `json:"duplicateGroups"`
	Pairs   []DuplicatePair  `json:"duplicatePairs"`
	Summary DuplicateSummary `json:"summary"`
}

// BatchResult is the per-chunk slice of a batch run
type BatchResult struct {
	BatchIndex int              `json:"batchIndex"`
	BatchSize  int              `json:"batchSize"`
	Groups     []DuplicateGroup `json:"duplicateGroups"`
	Pairs      []DuplicatePair  `json:"duplicatePairs"`
}

// BatchDuplicateReport combines per-chunk results. Chunks are scanned
// independently, so duplicates that straddle a chunk boundary are not
// detected; callers trading recall for memory accept that.
type BatchDuplicateReport struct {
	Batches []BatchResult    `json:"batches"`
	Groups  []DuplicateGroup `json:"duplicateGroups"`
	Pairs   []DuplicatePair  `json:"duplicatePairs"`
	Summary struct {
		TotalQuestions  int `json:"totalQuestions"`
		TotalBatches    int `json:"totalBatches"`
		DuplicateGroups int `json:"duplicateGroups"`
		DuplicatePairs  int `json:"duplicatePairs"`
		SkippedItems    int `json:"skippedItems"`
	} `json:"summary"`
}

// MergeStep is one ordered action of a merge execution plan
type MergeStep struct {
	Order            int      `json:"order"`
	Action           string   `json:"action"`
	Description      string   `json:"description"`
	Primary          string   `json:"primary,omitempty"`
	Sources          []string `json:"sources,omitempty"`
	NewTags          []string `json:"newTags,omitempty"`
	EstimatedSeconds int      `json:"estimatedSeconds"`
}

// MergePlan is the operator-facing plan for executing a group merge
type MergePlan struct {
	PlanID              string      `json:"planId"`
	Steps               []MergeStep `json:"steps"`
	EstimatedSeconds    int         `json:"estimatedSeconds"`
	Risks               []string    `json:"risks"`
	RequiredPermissions []string    `json:"requiredPermissions"`
	BackupRequired      bool        `json:"backupRequired"`
}

// MergeEligibility reports whether a specific pair may be merged
type MergeEligibility struct {
	Eligible   bool     `json:"eligible"`
	Issues     []string `json:"issues"`
	Warnings   []string `json:"warnings"`
	Confidence string   `json:"confidence"`
}

// DuplicateService finds duplicate questions and plans their merges
type DuplicateService struct {
	store     ports.ContentStore
	publisher ports.EventPublisher
	extractor *analysis.Extractor
	logger    *zap.Logger
	now       func() time.Time
}

// NewDuplicateService creates a new duplicate detection service
func NewDuplicateService(store ports.ContentStore, publisher ports.EventPublisher, logger *zap.Logger) *DuplicateService {
	return &DuplicateService{
		store:     store,
		publisher: publisher,
		extractor: analysis.NewExtractor(nil),
		logger:    logger,
		now:       time.Now,
	}
}

// DetectDuplicates scans the full visible question set for duplicates
// and publishes an event for each group found
func (s *DuplicateService) DetectDuplicates(ctx context.Context, opts DuplicateOptions) (*DuplicateReport, error) {
	questions, err := s.store.ListQuestions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	report := s.DetectAmong(questions, opts)
	s.publishGroups(ctx, report.Groups)

	s.logger.Info("Duplicate detection complete",
		zap.Int("questions", report.Summary.TotalQuestions),
		zap.Int("groups", report.Summary.DuplicateGroups),
		zap.Int("pairs", report.Summary.TotalDuplicates),
		zap.Int("skipped", report.Summary.SkippedItems),
	)
	return report, nil
}

// DetectAmong runs duplicate detection over an explicit question set.
// Grouping is greedy and single pass: once a question joins a group it
// is never reconsidered, so each question belongs to at most one group.
func (s *DuplicateService) DetectAmong(questions []content.Question, opts DuplicateOptions) *DuplicateReport {
	opts = opts.withDefaults()

	groups := make([]DuplicateGroup, 0)
	pairs := make([]DuplicatePair, 0)
	processed := make(map[string]bool, len(questions))
	skipped := 0

	for i := 0; i < len(questions); i++ {
		base := questions[i]
		if processed[base.ID] {
			continue
		}
		baseFeatures := s.extractor.Extract(base.Title, base.Description)
		if baseFeatures == nil {
			// Unextractable questions never join a group and are
			// never marked processed, so each one lands here once
			skipped++
			continue
		}

		candidates := make([]DuplicateCandidate, 0)
		for j := i + 1; j < len(questions); j++ {
			cand := questions[j]
			if processed[cand.ID] {
				continue
			}
			candFeatures := s.extractor.Extract(cand.Title, cand.Description)
			if candFeatures == nil {
				continue
			}

			sim := duplicateSimilarity(baseFeatures, candFeatures, opts.StrictMode)
			if sim >= opts.SimilarityThreshold {
				candidates = append(candidates, DuplicateCandidate{
					Question:   cand,
					Similarity: sim,
					Reasons:    duplicateReasons(baseFeatures, candFeatures),
					features:   candFeatures,
				})
			}
		}

		if len(candidates) == 0 {
			continue
		}

		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].Similarity > candidates[b].Similarity
		})
		// Confidence reflects every candidate that cleared the
		// threshold, including those cut by the candidate cap
		confidence := groupConfidence(candidates)
		if len(candidates) > opts.MaxCandidates {
			candidates = candidates[:opts.MaxCandidates]
		}

		group := DuplicateGroup{
			Primary:       base,
			Duplicates:    candidates,
			Confidence:    confidence,
			MergeStrategy: s.suggestMergeStrategy(base, candidates, opts.ConsiderAnswers),
		}
		groups = append(groups, group)

		processed[base.ID] = true
		for _, c := range candidates {
			processed[c.Question.ID] = true
			pairs = append(pairs, DuplicatePair{
				Question1:      base,
				Question2:      c.Question,
				Similarity:     c.Similarity,
				Reasons:        c.Reasons,
				Recommendation: s.mergeRecommendation(base, c.Question, c.Similarity),
			})
		}
	}

	avgGroupSize := 0.0
	if len(groups) > 0 {
		total := 0
		for _, g := range groups {
			total += len(g.Duplicates) + 1
		}
		avgGroupSize = float64(total) / float64(len(groups))
	}

	return &DuplicateReport{
		Groups: groups,
		Pairs:  pairs,
		Summary: DuplicateSummary{
			TotalQuestions:  len(questions),
			DuplicateGroups: len(groups),
			TotalDuplicates: len(pairs),
			AvgGroupSize:    avgGroupSize,
			SkippedItems:    skipped,
		},
	}
}

// BatchDetect splits the question set into fixed-size chunks and runs
// detection within each chunk independently
func (s *DuplicateService) BatchDetect(ctx context.Context, batchSize int, opts DuplicateOptions) (*BatchDuplicateReport, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	questions, err := s.store.ListQuestions(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	report := &BatchDuplicateReport{
		Batches: make([]BatchResult, 0),
		Groups:  make([]DuplicateGroup, 0),
		Pairs:   make([]DuplicatePair, 0),
	}

	for start := 0; start < len(questions); start += batchSize {
		end := start + batchSize
		if end > len(questions) {
			end = len(questions)
		}
		chunk := questions[start:end]
		chunkReport := s.DetectAmong(chunk, opts)

		report.Batches = append(report.Batches, BatchResult{
			BatchIndex: start / batchSize,
			BatchSize:  len(chunk),
			Groups:     chunkReport.Groups,
			Pairs:      chunkReport.Pairs,
		})
		report.Groups = append(report.Groups, chunkReport.Groups...)
		report.Pairs = append(report.Pairs, chunkReport.Pairs...)
		report.Summary.SkippedItems += chunkReport.Summary.SkippedItems
	}

	report.Summary.TotalQuestions = len(questions)
	report.Summary.TotalBatches = len(report.Batches)
	report.Summary.DuplicateGroups = len(report.Groups)
	report.Summary.DuplicatePairs = len(report.Pairs)
	return report, nil
}

// ValidateMerge checks whether two stored questions can be merged
func (s *DuplicateService) ValidateMerge(ctx context.Context, questionID1, questionID2 string) (*MergeEligibility, error) {
	q1, err := s.store.GetQuestion(ctx, questionID1)
	if err != nil {
		return nil, fmt.Errorf("failed to get question %s: %w", questionID1, err)
	}
	q2, err := s.store.GetQuestion(ctx, questionID2)
	if err != nil {
		return nil, fmt.Errorf("failed to get question %s: %w", questionID2, err)
	}

	result := s.validateMergeEligibility(*q1, *q2)
	return &result, nil
}

func (s *DuplicateService) validateMergeEligibility(q1, q2 content.Question) MergeEligibility {
	issues := make([]string, 0)
	warnings := make([]string, 0)

	if len(q1.Tags) > 0 && len(q2.Tags) > 0 && len(commonTerms(q1.Tags, q2.Tags, len(q1.Tags))) == 0 {
		warnings = append(warnings, "No common tags - questions may not be true duplicates")
	}

	minVotes := math.Min(float64(q1.Votes), float64(q2.Votes))
	maxVotes := math.Max(float64(q1.Votes), float64(q2.Votes))
	if maxVotes/math.Max(minVotes, 1) > 5 {
		warnings = append(warnings, "Significant difference in vote counts - may indicate different quality levels")
	}

	if q1.HasAcceptedAnswer() && q2.HasAcceptedAnswer() {
		warnings = append(warnings, "Both questions have accepted answers - manual review recommended")
	}

	now := s.now()
	if q1.LastActivityDays(now) < 7 || q2.LastActivityDays(now) < 7 {
		warnings = append(warnings, "Recent activity detected - users may be actively engaged")
	}

	confidence := "low"
	if len(issues) == 0 {
		confidence = "medium"
		if len(warnings) == 0 {
			confidence = "high"
		}
	}

	return MergeEligibility{
		Eligible:   len(issues) == 0,
		Issues:     issues,
		Warnings:   warnings,
		Confidence: confidence,
	}
}

// PlanMerge builds the ordered execution plan for collapsing a group.
// Plans are identified so operators can reference them in audit logs.
func (s *DuplicateService) PlanMerge(group DuplicateGroup) MergePlan {
	planID := uuid.New().String()
	primary := group.MergeStrategy.PrimaryQuestion
	sources := make([]string, len(group.Duplicates))
	for i, d := range group.Duplicates {
		sources[i] = d.Question.ID
	}

	steps := []MergeStep{{
		Order:            1,
		Action:           "backup_questions",
		Description:      "Create backup of all questions before merge",
		Primary:          primary.ID,
		Sources:          sources,
		EstimatedSeconds: 30,
	}}

	if group.MergeStrategy.Recommended.Type == "content_merge" {
		steps = append(steps, MergeStep{
			Order:            2,
			Action:           "merge_content",
			Description:      "Combine question descriptions while preserving unique information",
			Primary:          primary.ID,
			Sources:          sources,
			EstimatedSeconds: 300,
		})
	}

	steps = append(steps,
		MergeStep{
			Order:            3,
			Action:           "move_answers",
			Description:      "Move all answers to the primary question",
			Primary:          primary.ID,
			Sources:          sources,
			EstimatedSeconds: 60,
		},
		MergeStep{
			Order:            4,
			Action:           "merge_tags",
			Description:      "Combine tags from all duplicate questions",
			Primary:          primary.ID,
			NewTags:          group.MergeStrategy.Recommended.NewTags,
			EstimatedSeconds: 30,
		},
		MergeStep{
			Order:            5,
			Action:           "create_redirects",
			Description:      "Create redirects from duplicate questions to primary",
			Primary:          primary.ID,
			Sources:          sources,
			EstimatedSeconds: 60,
		},
		MergeStep{
			Order:            6,
			Action:           "update_search_index",
			Description:      "Update search indexes to reflect merged content",
			Primary:          primary.ID,
			Sources:          sources,
			EstimatedSeconds: 120,
		},
	)

	total := 0
	for _, step := range steps {
		total += step.EstimatedSeconds
	}

	risks := make([]string, 0)
	for _, d := range group.Duplicates {
		if d.Question.Answers > 5 {
			risks = append(risks, "High-activity questions being merged - may affect user experience")
			break
		}
	}
	if group.Confidence < 0.8 {
		risks = append(risks, "Lower confidence in duplicate detection - manual review recommended")
	}

	return MergePlan{
		PlanID:              planID,
		Steps:               steps,
		EstimatedSeconds:    total,
		Risks:               risks,
		RequiredPermissions: []string{"merge_questions"},
		BackupRequired:      true,
	}
}

func (s *DuplicateService) suggestMergeStrategy(primary content.Question, candidates []DuplicateCandidate, considerAnswers bool) MergeStrategy {
	best := primary
	bestScore := s.questionScore(primary)
	for _, c := range candidates {
		if score := s.questionScore(c.Question); score > bestScore {
			best = c.Question
			bestScore = score
		}
	}

	strategies := make([]MergeAction, 0, 3)

	longCandidate := false
	for _, c := range candidates {
		if len(c.Question.Description) > 100 {
			longCandidate = true
			break
		}
	}
	if len(primary.Description) > 100 && longCandidate {
		strategies = append(strategies, MergeAction{
			Type:        "content_merge",
			Description: "Merge question descriptions to preserve all information",
			Primary:     best.ID,
			Action:      "combine_descriptions",
		})
	} else {
		strategies = append(strategies, MergeAction{
			Type:        "simple_merge",
			Description: "Keep the best question and redirect others",
			Primary:     best.ID,
			Action:      "redirect_to_primary",
		})
	}

	if considerAnswers {
		strategies = append(strategies, MergeAction{
			Type:        "answer_consolidation",
			Description: "Move all answers to the primary question",
			Primary:     best.ID,
			Action:      "consolidate_answers",
		})
	}

	allTags := append([]string{}, primary.Tags...)
	for _, c := range candidates {
		allTags = append(allTags, c.Question.Tags...)
	}
	merged := dedupeStrings(allTags)
	if len(merged) > len(primary.Tags) {
		strategies = append(strategies, MergeAction{
			Type:        "tag_merge",
			Description: "Combine tags from all duplicate questions",
			Primary:     best.ID,
			Action:      "merge_tags",
			NewTags:     merged,
		})
	}

	return MergeStrategy{
		Recommended:      strategies[0],
		Alternatives:     strategies[1:],
		PrimaryQuestion:  best,
		PreserveMetadata: true,
	}
}

// questionScore ranks which question in a group should survive a merge
func (s *DuplicateService) questionScore(q content.Question) float64 {
	score := float64(q.Votes)*10 + float64(q.Answers)*5
	if q.HasAcceptedAnswer() {
		score += 20
	}
	if len(q.Description) > 100 {
		score += 10
	}
	if q.AgeDays(s.now()) < 30 {
		score += 5
	}
	return score
}

func (s *DuplicateService) mergeRecommendation(q1, q2 content.Question, similarity float64) MergeRecommendation {
	primary, secondary := q1, q2
	if s.questionScore(q2) > s.questionScore(q1) {
		primary, secondary = q2, q1
	}

	action, confidence := MergeActionNoAction, "low"
	switch {
	case similarity > 0.9:
		action, confidence = MergeActionAuto, "high"
	case similarity > 0.85:
		action, confidence = MergeActionMerge, "high"
	case similarity > 0.75:
		action, confidence = MergeActionReview, "medium"
	}

	reasons := make([]string, 0, 4)
	if similarity > 0.9 {
		reasons = append(reasons, "Questions are nearly identical")
	}
	if q1.Votes > q2.Votes*2 {
		reasons = append(reasons, "Question 1 has significantly more votes")
	} else if q2.Votes > q1.Votes*2 {
		reasons = append(reasons, "Question 2 has significantly more votes")
	}
	if q1.Answers > q2.Answers {
		reasons = append(reasons, "Question 1 has more answers")
	} else if q2.Answers > q1.Answers {
		reasons = append(reasons, "Question 2 has more answers")
	}
	if q1.HasAcceptedAnswer() && !q2.HasAcceptedAnswer() {
		reasons = append(reasons, "Question 1 has an accepted answer")
	} else if q2.HasAcceptedAnswer() && !q1.HasAcceptedAnswer() {
		reasons = append(reasons, "Question 2 has an accepted answer")
	}

	return MergeRecommendation{
		Action:     action,
		Confidence: confidence,
		Primary:    primary.ID,
		Secondary:  secondary.ID,
		Reasoning:  reasons,
	}
}

func (s *DuplicateService) publishGroups(ctx context.Context, groups []DuplicateGroup) {
	if s.publisher == nil || len(groups) == 0 {
		return
	}

	events := make([]ports.ContentEvent, 0, len(groups))
	for _, g := range groups {
		dupIDs := make([]string, len(g.Duplicates))
		for i, d := range g.Duplicates {
			dupIDs[i] = d.Question.ID
		}
		events = append(events, ports.ContentEvent{
			Type:      ports.EventDuplicateFound,
			ContentID: g.Primary.ID,
			Kind:      content.KindQuestion,
			UserID:    g.Primary.UserID,
			Detail: map[string]interface{}{
				"duplicateIds": dupIDs,
				"confidence":   g.Confidence,
			},
			OccurredAt: s.now(),
		})
	}

	if err := s.publisher.PublishBatch(ctx, events); err != nil {
		// Detection results are still valid without the notifications
		s.logger.Warn("Failed to publish duplicate events", zap.Error(err))
	}
}

// duplicateSimilarity weighs the opening words heavily; strict mode
// rejects pairs whose question types disagree outright
func duplicateSimilarity(a, b *analysis.FeatureVector, strict bool) float64 {
	if strict && a.QuestionType != b.QuestionType {
		return 0
	}

	score := analysis.DiceCoefficient(a.TitlePrefix(titlePrefixWords), b.TitlePrefix(titlePrefixWords)) * dupWeightTitle
	score += analysis.DiceCoefficient(a.NormalizedText, b.NormalizedText) * dupWeightText
	score += analysis.JaccardOverlap(a.Technologies, b.Technologies) * dupWeightTech
	if a.QuestionType == b.QuestionType {
		score += dupWeightType
	}
	return score
}

func duplicateReasons(a, b *analysis.FeatureVector) []string {
	reasons := make([]string, 0, 5)

	titleSim := analysis.DiceCoefficient(a.TitlePrefix(titlePrefixWords), b.TitlePrefix(titlePrefixWords))
	if titleSim > 0.7 {
		reasons = append(reasons, fmt.Sprintf("Very similar titles (%d%% match)", int(math.Round(titleSim*100))))
	}

	if common := commonTerms(a.Technologies, b.Technologies, len(a.Technologies)); len(common) > 0 {
		reasons = append(reasons, "Same technologies: "+strings.Join(common, ", "))
	}
	if common := commonTerms(a.KeywordTerms(), b.KeywordTerms(), len(a.Keywords)); len(common) > 2 {
		reasons = append(reasons, "Common keywords: "+strings.Join(common[:3], ", "))
	}
	if a.QuestionType == b.QuestionType && a.QuestionType != analysis.TypeGeneral {
		reasons = append(reasons, "Same question type: "+string(a.QuestionType))
	}

	contentSim := analysis.DiceCoefficient(a.NormalizedText, b.NormalizedText)
	if contentSim > 0.6 {
		reasons = append(reasons, fmt.Sprintf("Similar content structure (%d%% match)", int(math.Round(contentSim*100))))
	}

	return reasons
}

// groupConfidence blends average primary similarity with how alike the
// duplicates are to each other
func groupConfidence(candidates []DuplicateCandidate) float64 {
	if len(candidates) == 0 {
		return 0
	}

	avg := 0.0
	for _, c := range candidates {
		avg += c.Similarity
	}
	avg /= float64(len(candidates))

	consistency := 1.0
	if len(candidates) >= 2 {
		total, comparisons := 0.0, 0
		for i := 0; i < len(candidates); i++ {
			for j := i + 1; j < len(candidates); j++ {
				total += duplicateSimilarity(candidates[i].features, candidates[j].features, false)
				comparisons++
			}
		}
		consistency = total / float64(comparisons)
	}

	return avg*0.7 + consistency*0.3
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
