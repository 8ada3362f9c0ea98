package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stackit-backend/application/ports"
	"stackit-backend/domain/content"
)

func newTestDuplicateService(store *fakeStore, publisher *fakePublisher) *DuplicateService {
	svc := NewDuplicateService(store, publisher, zap.NewNop())
	svc.now = func() time.Time { return testTime }
	return svc
}

func duplicatePairFixture() []content.Question {
	q1 := testQuestion("q1", "u1", "How to center a div with CSS flexbox", "I cannot center a div horizontally and vertically using css flexbox layout")
	q1.Votes = 12
	q1.Answers = 3
	q1.AcceptedAnswerID = "a1"

	q2 := testQuestion("q2", "u2", "How to center a div with CSS flexbox", "I cannot center a div horizontally and vertically using css flexbox layout")
	q2.Votes = 1

	q3 := testQuestion("q3", "u3", "Optimize PostgreSQL query performance", "My postgresql query with multiple joins runs slowly and needs optimization")

	return []content.Question{q1, q2, q3}
}

func TestDetectAmong_GroupsIdenticalQuestions(t *testing.T) {
	svc := newTestDuplicateService(&fakeStore{}, &fakePublisher{})

	report := svc.DetectAmong(duplicatePairFixture(), DuplicateOptions{})

	require.Len(t, report.Groups, 1)
	group := report.Groups[0]
	assert.Equal(t, "q1", group.Primary.ID)
	require.Len(t, group.Duplicates, 1)
	assert.Equal(t, "q2", group.Duplicates[0].Question.ID)
	assert.Greater(t, group.Duplicates[0].Similarity, 0.9)
	assert.Greater(t, group.Confidence, 0.8)

	assert.Equal(t, 3, report.Summary.TotalQuestions)
	assert.Equal(t, 1, report.Summary.DuplicateGroups)
	assert.Equal(t, 1, report.Summary.TotalDuplicates)
}

func TestDetectAmong_NoDuplicatesBelowThreshold(t *testing.T) {
	svc := newTestDuplicateService(&fakeStore{}, &fakePublisher{})

	questions := []content.Question{
		testQuestion("q1", "u1", "How to center a div with CSS flexbox", "Centering a div with css flexbox layout"),
		testQuestion("q2", "u2", "Optimize PostgreSQL query performance", "My postgresql query with joins runs slowly"),
	}
	report := svc.DetectAmong(questions, DuplicateOptions{})

	assert.Empty(t, report.Groups)
	assert.Empty(t, report.Pairs)
}

func TestDetectAmong_GroupsRephrasedQuestionsAtLowThreshold(t *testing.T) {
	svc := newTestDuplicateService(&fakeStore{}, &fakePublisher{})

	questions := []content.Question{
		testQuestion("q1", "u1", "How to connect to SQL Server database?", ""),
		testQuestion("q2", "u2", "How do I connect to a SQL Server DB?", ""),
	}
	report := svc.DetectAmong(questions, DuplicateOptions{SimilarityThreshold: 0.6})

	require.Len(t, report.Groups, 1)
	group := report.Groups[0]
	assert.Equal(t, "q1", group.Primary.ID)
	require.Len(t, group.Duplicates, 1)
	assert.Equal(t, "q2", group.Duplicates[0].Question.ID)
	assert.GreaterOrEqual(t, group.Duplicates[0].Similarity, 0.6)
}

func TestDetectAmong_DeterministicAcrossRuns(t *testing.T) {
	svc := newTestDuplicateService(&fakeStore{}, &fakePublisher{})

	questions := duplicatePairFixture()
	first := svc.DetectAmong(questions, DuplicateOptions{})
	second := svc.DetectAmong(questions, DuplicateOptions{})

	assert.Equal(t, first, second)
}

func TestDetectAmong_CountsUnextractableQuestions(t *testing.T) {
	svc := newTestDuplicateService(&fakeStore{}, &fakePublisher{})

	questions := append(duplicatePairFixture(), testQuestion("q4", "u4", "", ""))
	report := svc.DetectAmong(questions, DuplicateOptions{})

	assert.Equal(t, 4, report.Summary.TotalQuestions)
	assert.Equal(t, 1, report.Summary.SkippedItems)
	require.Len(t, report.Groups, 1)
}

func TestDetectAmong_ConfidenceUnaffectedByCandidateCap(t *testing.T) {
	svc := newTestDuplicateService(&fakeStore{}, &fakePublisher{})

	base := "I cannot center a div horizontally and vertically using css flexbox layout"
	questions := []content.Question{
		testQuestion("q1", "u1", "How to center a div with CSS flexbox", base),
		testQuestion("q2", "u2", "How to center a div with CSS flexbox", base),
		testQuestion("q3", "u3", "How to center a div with CSS flexbox", base+" on small mobile screens"),
	}

	full := svc.DetectAmong(questions, DuplicateOptions{})
	capped := svc.DetectAmong(questions, DuplicateOptions{MaxCandidates: 1})

	require.Len(t, full.Groups, 1)
	require.Len(t, capped.Groups, 1)
	require.Len(t, full.Groups[0].Duplicates, 2)
	require.Len(t, capped.Groups[0].Duplicates, 1)
	assert.InDelta(t, full.Groups[0].Confidence, capped.Groups[0].Confidence, 1e-12)
}

func TestDetectAmong_PairRecommendationPrefersEngagedPrimary(t *testing.T) {
	svc := newTestDuplicateService(&fakeStore{}, &fakePublisher{})

	report := svc.DetectAmong(duplicatePairFixture(), DuplicateOptions{})

	require.Len(t, report.Pairs, 1)
	pair := report.Pairs[0]
	assert.Equal(t, MergeActionAuto, pair.Recommendation.Action)
	assert.Equal(t, "high", pair.Recommendation.Confidence)
	assert.Equal(t, "q1", pair.Recommendation.Primary)
	assert.Equal(t, "q2", pair.Recommendation.Secondary)
}

func TestDetectDuplicates_PublishesGroupEvents(t *testing.T) {
	store := &fakeStore{questions: duplicatePairFixture()}
	publisher := &fakePublisher{}
	svc := newTestDuplicateService(store, publisher)

	report, err := svc.DetectDuplicates(context.Background(), DuplicateOptions{})
	require.NoError(t, err)
	require.Len(t, report.Groups, 1)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, ports.EventDuplicateFound, publisher.events[0].Type)
	assert.Equal(t, "q1", publisher.events[0].ContentID)
}

func TestBatchDetect_ChunksIndependently(t *testing.T) {
	store := &fakeStore{questions: duplicatePairFixture()}
	svc := newTestDuplicateService(store, &fakePublisher{})

	report, err := svc.BatchDetect(context.Background(), 2, DuplicateOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Summary.TotalQuestions)
	assert.Equal(t, 2, report.Summary.TotalBatches)
	// q1 and q2 share the first chunk, so the group survives chunking
	assert.Equal(t, 1, report.Summary.DuplicateGroups)
}

func TestValidateMerge_WarnsOnVoteGapAndDualAccepts(t *testing.T) {
	q1 := testQuestion("q1", "u1", "Title one", "Description one")
	q1.Votes = 50
	q1.AcceptedAnswerID = "a1"
	q1.Tags = []string{"go"}
	q1.UpdatedAt = daysAgo(2)

	q2 := testQuestion("q2", "u2", "Title two", "Description two")
	q2.Votes = 2
	q2.AcceptedAnswerID = "a2"
	q2.Tags = []string{"rust"}
	q2.UpdatedAt = daysAgo(1)

	store := &fakeStore{questions: []content.Question{q1, q2}}
	svc := newTestDuplicateService(store, &fakePublisher{})

	eligibility, err := svc.ValidateMerge(context.Background(), "q1", "q2")
	require.NoError(t, err)

	assert.True(t, eligibility.Eligible)
	assert.Len(t, eligibility.Warnings, 4)
	assert.Equal(t, "medium", eligibility.Confidence)
}

func TestPlanMerge_OrdersStepsAndFlagsRisks(t *testing.T) {
	svc := newTestDuplicateService(&fakeStore{}, &fakePublisher{})

	report := svc.DetectAmong(duplicatePairFixture(), DuplicateOptions{})
	require.Len(t, report.Groups, 1)

	plan := svc.PlanMerge(report.Groups[0])

	assert.NotEmpty(t, plan.PlanID)
	require.NotEmpty(t, plan.Steps)
	assert.Equal(t, "backup_questions", plan.Steps[0].Action)
	for i := 1; i < len(plan.Steps); i++ {
		assert.Greater(t, plan.Steps[i].Order, plan.Steps[i-1].Order)
	}
	assert.True(t, plan.BackupRequired)
	assert.Contains(t, plan.RequiredPermissions, "merge_questions")

	total := 0
	for _, step := range plan.Steps {
		total += step.EstimatedSeconds
	}
	assert.Equal(t, total, plan.EstimatedSeconds)
}
