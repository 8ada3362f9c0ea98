package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/domain/analysis"
	"stackit-backend/domain/content"
)

// Flag types raised by the moderation pipeline
const (
	FlagToxicity   = "toxicity"
	FlagSpam       = "spam"
	FlagQuality    = "quality"
	FlagPlagiarism = "plagiarism"
	FlagOffTopic   = "off-topic"
	FlagSockpuppet = "sockpuppet"
)

// Risk multipliers applied per flag type when accumulating the
// overall risk score
var riskWeights = map[string]float64{
	FlagToxicity:   0.8,
	FlagSpam:       0.6,
	FlagQuality:    0.4,
	FlagPlagiarism: 0.7,
	FlagOffTopic:   0.3,
	FlagSockpuppet: 0.5,
}

// Flag is one moderation signal raised against a piece of content
type Flag struct {
	Type            string   `json:"type"`
	Severity        string   `json:"severity"`
	Confidence      float64  `json:"confidence"`
	Details         []string `json:"details"`
	SuggestedAction string   `json:"suggestedAction"`
	Priority        string   `json:"priority"`
}

// VotingPattern summarizes a user's voting history
type VotingPattern struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// UserHistory carries the optional author context some detectors need
type UserHistory struct {
	AccountAgeDays  float64            `json:"accountAgeDays"`
	RecentQuestions []content.Question `json:"recentQuestions,omitempty"`
	RecentAnswers   []content.Answer   `json:"recentAnswers,omitempty"`
	VotingPattern   *VotingPattern     `json:"votingPattern,omitempty"`
}

// ModerationContext is the optional situational input to flagging.
// Detectors that need a field they don't have simply stay silent.
type ModerationContext struct {
	ExpectedTopics []string     `json:"expectedTopics,omitempty"`
	UserHistory    *UserHistory `json:"userHistory,omitempty"`
}

// ModeratorRecommendation tells a moderator what to do and how soon
type ModeratorRecommendation struct {
	Action    string `json:"action"`
	Reason    string `json:"reason"`
	Timeframe string `json:"timeframe"`
}

// FlagReport is the full moderation verdict for one piece of content
type FlagReport struct {
	Flags            []Flag                  `json:"flags"`
	OverallRiskScore float64                 `json:"overallRiskScore"`
	FlagReasons      []string                `json:"flagReasons"`
	Recommendation   ModeratorRecommendation `json:"recommendation"`
	RequiresReview   bool                    `json:"requiresReview"`
	Priority         string                  `json:"priority"`
	SuggestedActions []string                `json:"suggestedActions"`
}

// ModerationItem is one entry of a batch analysis request
type ModerationItem struct {
	ID      string              `json:"id"`
	Kind    content.ContentKind `json:"kind"`
	Title   string              `json:"title"`
	Content string              `json:"content"`
	Author  string              `json:"author"`
	Context ModerationContext   `json:"context"`
}

// ModerationResult pairs an item ID with its verdict
type ModerationResult struct {
	ID        string     `json:"id"`
	Flagging  FlagReport `json:"flagging"`
	Timestamp time.Time  `json:"timestamp"`
}

// BatchModerationReport carries the per-item verdicts of a batch run.
// SkippedItems counts items whose analysis failed; a failing item
// never aborts the rest of the batch.
type BatchModerationReport struct {
	Results      []ModerationResult `json:"results"`
	SkippedItems int                `json:"skippedItems"`
}

var (
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	commercialPattern = regexp.MustCompile(`\b(buy|sale|discount|offer|free|win|prize)\b`)
	ctaPattern        = regexp.MustCompile(`\b(click here|visit now|act now)\b`)
	punctuationChars  = regexp.MustCompile(`[.,!?;:]`)

	// Copy-paste and formatting tells used by plagiarism detection
	plagiarismPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)copied? from`),
		regexp.MustCompile(`(?i)source:? http`),
		regexp.MustCompile(`(?i)originally posted`),
		regexp.MustCompile(`(?i)credit:? `),
		regexp.MustCompile("[“”‘’]"),
		regexp.MustCompile(" "),
	}
)

// ModerationService flags problematic content and applies visibility
// decisions to the store
type ModerationService struct {
	store     ports.ContentStore
	publisher ports.EventPublisher
	extractor *analysis.Extractor
	lexicon   *analysis.Lexicon
	logger    *zap.Logger
	now       func() time.Time
}

// NewModerationService creates a new moderation service
func NewModerationService(store ports.ContentStore, publisher ports.EventPublisher, logger *zap.Logger) *ModerationService {
	lexicon := analysis.DefaultLexicon()
	return &ModerationService{
		store:     store,
		publisher: publisher,
		extractor: analysis.NewExtractor(lexicon),
		lexicon:   lexicon,
		logger:    logger,
		now:       time.Now,
	}
}

// AnalyzeContent runs every detector over one piece of content and
// aggregates the result into a single verdict
func (s *ModerationService) AnalyzeContent(text, title, author string, mctx ModerationContext) FlagReport {
	flags := make([]Flag, 0, 6)
	reasons := make([]string, 0, 6)
	risk := 0.0

	if flag, ok := s.detectToxicity(text); ok {
		flags = append(flags, flag)
		risk += flag.Confidence * riskWeights[FlagToxicity]
		reasons = append(reasons, "Toxic content detected: "+strings.Join(flag.Details, ", "))
	}
	if flag, ok := s.detectSpam(text, title); ok {
		flags = append(flags, flag)
		risk += flag.Confidence * riskWeights[FlagSpam]
		reasons = append(reasons, "Spam indicators found: "+strings.Join(flag.Details, ", "))
	}
	if flag, ok := s.flagLowQuality(text); ok {
		flags = append(flags, flag)
		risk += flag.Confidence * riskWeights[FlagQuality]
		reasons = append(reasons, "Low quality content: "+strings.Join(flag.Details, ", "))
	}
	if flag, ok := s.detectPlagiarism(text); ok {
		flags = append(flags, flag)
		risk += flag.Confidence * riskWeights[FlagPlagiarism]
		reasons = append(reasons, "Potential plagiarism detected")
	}
	if flag, ok := s.detectOffTopic(text, title, mctx); ok {
		flags = append(flags, flag)
		risk += flag.Confidence * riskWeights[FlagOffTopic]
		reasons = append(reasons, "Off-topic content detected")
	}
	if flag, ok := s.detectSockpuppet(text, mctx); ok {
		flags = append(flags, flag)
		risk += flag.Confidence * riskWeights[FlagSockpuppet]
		reasons = append(reasons, "Suspicious user activity pattern")
	}

	risk = math.Min(risk, 1)

	return FlagReport{
		Flags:            flags,
		OverallRiskScore: risk,
		FlagReasons:      reasons,
		Recommendation:   moderatorRecommendation(flags, risk),
		RequiresReview:   len(flags) > 0 || risk > 0.3,
		Priority:         flagPriority(flags),
		SuggestedActions: suggestedActions(flags),
	}
}

// BatchAnalyze runs flagging over many items and publishes an event
// for every item that needs review. Items whose analysis panics are
// skipped and counted; the batch always completes.
func (s *ModerationService) BatchAnalyze(ctx context.Context, items []ModerationItem) *BatchModerationReport {
	results := make([]ModerationResult, 0, len(items))
	events := make([]ports.ContentEvent, 0)
	skipped := 0

	for _, item := range items {
		report, err := s.analyzeItem(item)
		if err != nil {
			s.logger.Warn("Skipping unanalyzable moderation item",
				zap.String("itemId", item.ID),
				zap.Error(err),
			)
			skipped++
			continue
		}
		results = append(results, ModerationResult{
			ID:        item.ID,
			Flagging:  report,
			Timestamp: s.now(),
		})

		if report.RequiresReview && item.ID != "" {
			events = append(events, ports.ContentEvent{
				Type:      ports.EventContentFlagged,
				ContentID: item.ID,
				Kind:      item.Kind,
				UserID:    item.Author,
				Detail: map[string]interface{}{
					"riskScore": report.OverallRiskScore,
					"priority":  report.Priority,
					"flagCount": len(report.Flags),
				},
				OccurredAt: s.now(),
			})
		}
	}

	if s.publisher != nil && len(events) > 0 {
		if err := s.publisher.PublishBatch(ctx, events); err != nil {
			s.logger.Warn("Failed to publish flag events", zap.Error(err))
		}
	}

	s.logger.Info("Batch moderation complete",
		zap.Int("items", len(items)),
		zap.Int("flagged", len(events)),
		zap.Int("skipped", skipped),
	)
	return &BatchModerationReport{
		Results:      results,
		SkippedItems: skipped,
	}
}

// analyzeItem isolates one item's analysis so a panicking detector
// costs only that item, not the batch
func (s *ModerationService) analyzeItem(item ModerationItem) (report FlagReport, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("content analysis failed: %v", rec)
		}
	}()
	return s.AnalyzeContent(item.Content, item.Title, item.Author, item.Context), nil
}

// SetContentVisibility hides or unhides a piece of content and
// publishes the corresponding event. Re-applying the current state is
// a no-op at the store level.
func (s *ModerationService) SetContentVisibility(ctx context.Context, kind content.ContentKind, id string, hidden bool) error {
	if err := s.store.SetHidden(ctx, kind, id, hidden); err != nil {
		return fmt.Errorf("failed to update visibility: %w", err)
	}

	eventType := ports.EventContentHidden
	if !hidden {
		eventType = ports.EventContentUnhidden
	}
	if s.publisher != nil {
		event := ports.ContentEvent{
			Type:       eventType,
			ContentID:  id,
			Kind:       kind,
			OccurredAt: s.now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish visibility event",
				zap.String("contentId", id),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Content visibility updated",
		zap.String("contentId", id),
		zap.String("kind", string(kind)),
		zap.Bool("hidden", hidden),
	)
	return nil
}

// ModerationFeedback is a moderator's verdict on a past flagging result
type ModerationFeedback struct {
	Action string `json:"action"`
}

// FlaggingRecord is one historical flagging outcome, optionally
// annotated with moderator feedback
type FlaggingRecord struct {
	Result   ModerationResult    `json:"result"`
	Feedback *ModerationFeedback `json:"feedback,omitempty"`
}

// FlaggingInsights aggregates detector behavior over a history window
type FlaggingInsights struct {
	TotalFlags int            `json:"totalFlags"`
	FlagTypes  map[string]int `json:"flagTypes"`
	Precision  float64        `json:"precision,omitempty"`
}

// AnalyzeFlaggingHistory summarizes how often each detector fires and,
// where moderator feedback exists, how often a flag led to action
func (s *ModerationService) AnalyzeFlaggingHistory(history []FlaggingRecord) FlaggingInsights {
	insights := FlaggingInsights{
		TotalFlags: len(history),
		FlagTypes:  make(map[string]int),
	}

	for _, record := range history {
		for _, flag := range record.Result.Flagging.Flags {
			insights.FlagTypes[flag.Type]++
		}
	}

	withFeedback, confirmed := 0, 0
	for _, record := range history {
		if record.Feedback == nil {
			continue
		}
		withFeedback++
		if record.Feedback.Action != "no_action" {
			confirmed++
		}
	}
	if withFeedback > 0 {
		insights.Precision = float64(confirmed) / float64(withFeedback)
	}

	return insights
}

func (s *ModerationService) detectToxicity(text string) (Flag, bool) {
	lower := strings.ToLower(text)

	found := make([]string, 0)
	for _, word := range s.lexicon.ToxicWords {
		if strings.Contains(lower, word) {
			found = append(found, word)
		}
	}
	if len(found) == 0 {
		return Flag{}, false
	}

	severity := "medium"
	if len(found) > 2 {
		severity = "high"
	}
	action, priority := "review", "medium"
	if severity == "high" {
		action, priority = "remove", "urgent"
	}

	return Flag{
		Type:            FlagToxicity,
		Severity:        severity,
		Confidence:      float64(len(found)) / float64(len(s.lexicon.ToxicWords)),
		Details:         found,
		SuggestedAction: action,
		Priority:        priority,
	}, true
}

func (s *ModerationService) detectSpam(text, title string) (Flag, bool) {
	combined := strings.ToLower(title + " " + text)

	score := 0.0
	indicators := make([]string, 0)

	if runLength(combined) >= 5 {
		score += 0.2
		indicators = append(indicators, "Repeated characters")
	}
	if n := len(urlPattern.FindAllString(combined, -1)); n > 0 {
		score += float64(n) * 0.2
		indicators = append(indicators, fmt.Sprintf("URLs: %d", n))
	}
	if n := len(commercialPattern.FindAllString(combined, -1)); n > 0 {
		score += float64(n) * 0.2
		indicators = append(indicators, fmt.Sprintf("Commercial terms: %d", n))
	}
	if n := len(ctaPattern.FindAllString(combined, -1)); n > 0 {
		score += float64(n) * 0.2
		indicators = append(indicators, fmt.Sprintf("Call-to-action phrases: %d", n))
	}
	if analysis.CapsRatio(text) > 0.3 {
		score += 0.3
		indicators = append(indicators, "Excessive capitalization")
	}

	if score <= 0.5 {
		return Flag{}, false
	}

	severity := "medium"
	action, priority := "review", "low"
	if score > 0.8 {
		severity = "high"
		action, priority = "remove", "urgent"
	}

	return Flag{
		Type:            FlagSpam,
		Severity:        severity,
		Confidence:      math.Min(score, 1),
		Details:         indicators,
		SuggestedAction: action,
		Priority:        priority,
	}, true
}

func (s *ModerationService) flagLowQuality(text string) (Flag, bool) {
	issues := make([]string, 0)
	confidence := 0.0

	if len(text) < 20 {
		issues = append(issues, "Content too short")
		confidence += 0.4
	}
	if analysis.CapsRatio(text) > 0.5 {
		issues = append(issues, "Excessive capitalization")
		confidence += 0.3
	}
	if len(punctuationChars.FindAllString(text, -1)) == 0 && len(text) > 50 {
		issues = append(issues, "No punctuation")
		confidence += 0.2
	}
	if hasRepeatedBlock(text, 3, 4) {
		issues = append(issues, "Repetitive content")
		confidence += 0.3
	}
	if consonants, vowels := letterCounts(text); consonants > vowels*3 && len(text) > 20 {
		issues = append(issues, "Potential gibberish")
		confidence += 0.4
	}

	if len(issues) <= 1 && confidence <= 0.5 {
		return Flag{}, false
	}

	severity := "medium"
	if confidence > 0.7 {
		severity = "high"
	}
	return Flag{
		Type:            FlagQuality,
		Severity:        severity,
		Confidence:      confidence,
		Details:         issues,
		SuggestedAction: "review",
		Priority:        "low",
	}, true
}

func (s *ModerationService) detectPlagiarism(text string) (Flag, bool) {
	score := 0.0
	indicators := make([]string, 0)

	for i, pattern := range plagiarismPatterns {
		if pattern.MatchString(text) {
			score += 0.2
			indicators = append(indicators, fmt.Sprintf("Pattern %d detected", i+1))
		}
	}

	sentences := analysis.SplitSentences(text)
	if len(sentences) > 3 {
		lengths := make([]float64, len(sentences))
		for i, sentence := range sentences {
			lengths[i] = float64(len(strings.Fields(sentence)))
		}
		if analysis.Variance(lengths) > 50 {
			score += 0.3
			indicators = append(indicators, "Inconsistent writing style")
		}
	}

	if score <= 0.3 {
		return Flag{}, false
	}

	severity := "medium"
	if score > 0.6 {
		severity = "high"
	}
	return Flag{
		Type:            FlagPlagiarism,
		Severity:        severity,
		Confidence:      score,
		Details:         indicators,
		SuggestedAction: "review",
		Priority:        "medium",
	}, true
}

func (s *ModerationService) detectOffTopic(text, title string, mctx ModerationContext) (Flag, bool) {
	if len(mctx.ExpectedTopics) == 0 {
		return Flag{}, false
	}

	features := s.extractor.Extract(title, text)
	if features == nil {
		return Flag{}, false
	}

	topics := append(append([]string{}, features.Technologies...), features.KeywordTerms()...)
	overlap := 0
	for _, topic := range topics {
		lower := strings.ToLower(topic)
		for _, expected := range mctx.ExpectedTopics {
			le := strings.ToLower(expected)
			if strings.Contains(le, lower) || strings.Contains(lower, le) {
				overlap++
				break
			}
		}
	}

	relevance := float64(overlap) / math.Max(float64(len(topics)), 1)
	if relevance >= 0.2 || len(topics) <= 3 {
		return Flag{}, false
	}

	return Flag{
		Type:            FlagOffTopic,
		Severity:        "medium",
		Confidence:      1 - relevance,
		Details:         []string{fmt.Sprintf("Low topic relevance: %d%%", int(math.Round(relevance*100)))},
		SuggestedAction: "review",
		Priority:        "low",
	}, true
}

func (s *ModerationService) detectSockpuppet(text string, mctx ModerationContext) (Flag, bool) {
	history := mctx.UserHistory
	if history == nil {
		return Flag{}, false
	}

	score := 0.0
	indicators := make([]string, 0)

	questionIDs := make(map[string]bool, len(history.RecentQuestions))
	for _, q := range history.RecentQuestions {
		questionIDs[q.ID] = true
	}
	for _, a := range history.RecentAnswers {
		if questionIDs[a.QuestionID] {
			score += 0.3
			indicators = append(indicators, "Self-answering pattern detected")
			break
		}
	}

	if history.AccountAgeDays > 0 && history.AccountAgeDays < 7 {
		if s.extractor.ScoreQuality(text).Score > 0.8 {
			score += 0.2
			indicators = append(indicators, "New account with expert-level content")
		}
	}

	if history.VotingPattern != nil {
		ratio := float64(history.VotingPattern.Upvotes) / math.Max(float64(history.VotingPattern.Downvotes), 1)
		if ratio > 10 || ratio < 0.1 {
			score += 0.2
			indicators = append(indicators, "Unusual voting pattern")
		}
	}

	if score <= 0.4 {
		return Flag{}, false
	}

	severity := "medium"
	if score > 0.6 {
		severity = "high"
	}
	return Flag{
		Type:            FlagSockpuppet,
		Severity:        severity,
		Confidence:      score,
		Details:         indicators,
		SuggestedAction: "investigate",
		Priority:        "high",
	}, true
}

// moderatorRecommendation walks the escalation ladder from urgent
// flags down to no action
func moderatorRecommendation(flags []Flag, risk float64) ModeratorRecommendation {
	highSeverity, urgent := 0, 0
	for _, f := range flags {
		if f.Severity == "high" {
			highSeverity++
		}
		if f.Priority == "urgent" {
			urgent++
		}
	}

	switch {
	case urgent > 0:
		return ModeratorRecommendation{Action: "immediate_review", Reason: "Urgent flags detected", Timeframe: "immediate"}
	case highSeverity > 0:
		return ModeratorRecommendation{Action: "priority_review", Reason: "High severity flags present", Timeframe: "within_hour"}
	case risk > 0.7:
		return ModeratorRecommendation{Action: "review", Reason: "High overall risk score", Timeframe: "within_day"}
	case len(flags) > 0:
		return ModeratorRecommendation{Action: "queue_review", Reason: "Multiple flags detected", Timeframe: "within_week"}
	default:
		return ModeratorRecommendation{Action: "no_action", Reason: "No significant flags detected", Timeframe: "none"}
	}
}

func flagPriority(flags []Flag) string {
	has := make(map[string]bool, len(flags))
	for _, f := range flags {
		has[f.Priority] = true
	}
	switch {
	case has["urgent"]:
		return "urgent"
	case has["high"]:
		return "high"
	case has["medium"]:
		return "medium"
	default:
		return "low"
	}
}

func suggestedActions(flags []Flag) []string {
	actions := make([]string, 0, len(flags)*2)
	for _, flag := range flags {
		switch flag.Type {
		case FlagToxicity:
			if flag.Severity == "high" {
				actions = append(actions, "Remove content immediately")
			} else {
				actions = append(actions, "Edit/warn user")
			}
		case FlagSpam:
			actions = append(actions, "Check user post history", "Consider temporary restrictions")
		case FlagQuality:
			actions = append(actions, "Request content improvement", "Provide writing guidelines")
		case FlagPlagiarism:
			actions = append(actions, "Verify original source", "Request proper attribution")
		case FlagOffTopic:
			actions = append(actions, "Suggest appropriate community", "Add relevant tags")
		case FlagSockpuppet:
			actions = append(actions, "Investigate user accounts", "Check IP/device fingerprints")
		}
	}
	return dedupeStrings(actions)
}

// runLength returns the longest run of one repeated character
func runLength(s string) int {
	longest, current := 0, 0
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
		prev = r
	}
	return longest
}

// hasRepeatedBlock reports whether any substring of at least minUnit
// characters repeats consecutively more than minRepeats times. The
// standard regexp package has no backreferences, so this is scanned
// directly.
func hasRepeatedBlock(s string, minUnit, minRepeats int) bool {
	n := len(s)
	maxUnit := n / (minRepeats + 1)
	for unit := minUnit; unit <= maxUnit; unit++ {
		for start := 0; start+unit*(minRepeats+1) <= n; start++ {
			block := s[start : start+unit]
			repeats := 1
			for pos := start + unit; pos+unit <= n && s[pos:pos+unit] == block; pos += unit {
				repeats++
			}
			if repeats > minRepeats {
				return true
			}
		}
	}
	return false
}

func letterCounts(s string) (consonants, vowels int) {
	for _, r := range strings.ToLower(s) {
		switch {
		case r == 'a' || r == 'e' || r == 'i' || r == 'o' || r == 'u':
			vowels++
		case r >= 'b' && r <= 'z':
			consonants++
		}
	}
	return consonants, vowels
}
