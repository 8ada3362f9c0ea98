package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stackit-backend/domain/content"
)

func newTestEngagementService(store *fakeStore) *EngagementService {
	svc := NewEngagementService(store, zap.NewNop())
	svc.now = func() time.Time { return testTime }
	return svc
}

const richAnswer = "Use a buffered channel here, because the sender would otherwise block. For example:\n\n```go\nch := make(chan int, 1)\n```\n\n## Why this works\n- The buffer absorbs the first send\n- The receiver drains it later\n\nSpecifically, the scheduler parks the goroutine until capacity frees up, therefore the deadlock disappears. However, watch the buffer size in production code paths."

func TestScoreQuestionEngagement_AccumulatesFactors(t *testing.T) {
	svc := newTestEngagementService(&fakeStore{})

	q := testQuestion("q1", "u1", "Goroutine deadlock with unbuffered channel", "My go program deadlocks when sending on an unbuffered channel from the main goroutine")
	q.Votes = 4
	q.AcceptedAnswerID = "a1"

	answers := []content.Answer{
		{ID: "a1", QuestionID: "q1", Content: richAnswer, Votes: 6, IsAccepted: true},
		{ID: "a2", QuestionID: "q1", Content: "Just use a buffer.", Votes: 0},
	}

	result := svc.ScoreQuestionEngagement(q, answers)

	assert.Equal(t, "q1", result.ID)
	assert.Contains(t, result.Factors, "4 votes")
	assert.Contains(t, result.Factors, "2 answers")
	assert.Contains(t, result.Factors, "has accepted answer")
	assert.Contains(t, result.Factors, "recent activity")
	assert.Greater(t, result.EngagementScore, 0.5)
	assert.Equal(t, 2, result.Metrics.Answers)
	assert.True(t, result.Metrics.HasAcceptedAnswer)
}

func TestScoreQuestionEngagement_ClampsAtOne(t *testing.T) {
	svc := newTestEngagementService(&fakeStore{})

	q := testQuestion("q1", "u1", "Goroutine deadlock with unbuffered channel", "My go program deadlocks when sending on an unbuffered channel from the main goroutine")
	q.Votes = 1000
	q.AcceptedAnswerID = "a1"

	answers := make([]content.Answer, 50)
	for i := range answers {
		answers[i] = content.Answer{ID: fmt.Sprintf("a%d", i+1), QuestionID: "q1", Content: richAnswer}
	}

	result := svc.ScoreQuestionEngagement(q, answers)
	assert.Equal(t, 1.0, result.EngagementScore)
}

func TestScoreQuestionEngagement_ColdQuestion(t *testing.T) {
	svc := newTestEngagementService(&fakeStore{})

	q := testQuestion("q1", "u1", "Question title", "Short description")
	q.CreatedAt = testTime.AddDate(-1, 0, 0)

	result := svc.ScoreQuestionEngagement(q, nil)
	assert.Equal(t, 0.0, result.EngagementScore)
	assert.Empty(t, result.Factors)
}

func TestScoreAnswerEngagement_QualityAndCode(t *testing.T) {
	svc := newTestEngagementService(&fakeStore{})

	a := content.Answer{ID: "a1", Content: richAnswer, Votes: 3, IsAccepted: true}
	result := svc.ScoreAnswerEngagement(a)

	assert.Contains(t, result.Factors, "3 votes")
	assert.Contains(t, result.Factors, "accepted answer")
	assert.Contains(t, result.Factors, "includes code")
	assert.Greater(t, result.EngagementScore, 0.7)
	assert.NotEmpty(t, result.Metrics.QualityGrade)
}

func TestAnalyzeEngagement_TimeframeFiltersOldContent(t *testing.T) {
	recent := testQuestion("q1", "u1", "Recent question about react hooks", "How do react hooks work with state updates")
	recent.CreatedAt = daysAgo(3)

	old := testQuestion("q2", "u2", "Old question about jquery", "How do jquery selectors work")
	old.CreatedAt = testTime.AddDate(-2, 0, 0)

	store := &fakeStore{questions: []content.Question{recent, old}}
	svc := newTestEngagementService(store)

	report, err := svc.AnalyzeEngagement(context.Background(), TimeframeWeek)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Overview.TotalQuestions)

	all, err := svc.AnalyzeEngagement(context.Background(), TimeframeAll)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Overview.TotalQuestions)
}

func TestAnalyzeEngagement_TopContentSorted(t *testing.T) {
	hot := testQuestion("hot", "u1", "Popular react question", "A very popular question about react state management")
	hot.Votes = 10
	hot.AcceptedAnswerID = "a1"
	hot.Answers = 1

	cold := testQuestion("cold", "u2", "Ignored question", "Nobody ever answered this question about anything")

	store := &fakeStore{
		questions: []content.Question{cold, hot},
		answers: []content.Answer{
			{ID: "a1", QuestionID: "hot", Content: richAnswer, Votes: 5, IsAccepted: true, CreatedAt: daysAgo(5)},
		},
	}
	svc := newTestEngagementService(store)

	report, err := svc.AnalyzeEngagement(context.Background(), TimeframeAll)
	require.NoError(t, err)

	require.NotEmpty(t, report.TopContent.Questions)
	assert.Equal(t, "hot", report.TopContent.Questions[0].ID)
	assert.NotEmpty(t, report.Recommendations)
	assert.NotEmpty(t, report.Insights)
}

func TestAnalyzeEngagement_DistributionBuckets(t *testing.T) {
	hot := testQuestion("hot", "u1", "Popular react question", "A very popular question about react state management")
	hot.Votes = 20
	hot.AcceptedAnswerID = "a1"

	cold := testQuestion("cold", "u2", "Ignored question", "Nobody answered this one")

	store := &fakeStore{
		questions: []content.Question{hot, cold},
		answers: []content.Answer{
			{ID: "a1", QuestionID: "hot", Content: richAnswer, Votes: 8, IsAccepted: true, CreatedAt: daysAgo(5)},
		},
	}
	svc := newTestEngagementService(store)

	report, err := svc.AnalyzeEngagement(context.Background(), TimeframeAll)
	require.NoError(t, err)

	dist := report.Patterns.Distribution
	assert.Equal(t, 3, dist.High+dist.Medium+dist.Low)
	assert.Equal(t, 1, dist.Low)
}

func TestTrendDirection_NeedsFourMonths(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 3; i++ {
		q := testQuestion("q", "u1", "Title", "Description")
		q.CreatedAt = testTime.AddDate(0, -i, 0)
		store.questions = append(store.questions, q)
	}
	svc := newTestEngagementService(store)

	report, err := svc.AnalyzeEngagement(context.Background(), TimeframeAll)
	require.NoError(t, err)
	assert.Empty(t, report.Trends.TrendDirection)
	assert.Len(t, report.Trends.MonthlyTrends, 3)
}
