package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackit-backend/domain/content"
	apperrors "stackit-backend/pkg/errors"
)

func seedStore() *ContentStore {
	store := NewContentStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	store.PutQuestion(content.Question{ID: "q1", Title: "How to center a div", UserID: "alice", CreatedAt: base})
	store.PutQuestion(content.Question{ID: "q2", Title: "Docker compose networking", UserID: "bob", CreatedAt: base.AddDate(0, 0, 2)})
	store.PutQuestion(content.Question{ID: "q3", Title: "Hidden question", UserID: "alice", Hidden: true, CreatedAt: base.AddDate(0, 0, 3)})

	store.PutAnswer(content.Answer{ID: "a1", QuestionID: "q1", UserID: "bob", CreatedAt: base.AddDate(0, 0, 1)})
	store.PutAnswer(content.Answer{ID: "a2", QuestionID: "q1", UserID: "carol", Hidden: true, CreatedAt: base.AddDate(0, 0, 2)})

	return store
}

func TestListQuestions_SkipsHiddenAndSortsNewestFirst(t *testing.T) {
	store := seedStore()

	questions, err := store.ListQuestions(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, "q2", questions[0].ID)
	assert.Equal(t, "q1", questions[1].ID)
}

func TestListQuestions_AppliesLimit(t *testing.T) {
	store := seedStore()

	questions, err := store.ListQuestions(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, questions, 1)
	assert.Equal(t, "q2", questions[0].ID)
}

func TestAnswersForQuestion_SkipsHidden(t *testing.T) {
	store := seedStore()

	answers, err := store.AnswersForQuestion(context.Background(), "q1")
	require.NoError(t, err)

	require.Len(t, answers, 1)
	assert.Equal(t, "a1", answers[0].ID)
}

func TestQuestionsByAuthor_IncludesHidden(t *testing.T) {
	store := seedStore()

	questions, err := store.QuestionsByAuthor(context.Background(), "alice")
	require.NoError(t, err)

	assert.Len(t, questions, 2)
}

func TestGetQuestion_NotFound(t *testing.T) {
	store := seedStore()

	_, err := store.GetQuestion(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "question missing not found", appErr.Message)
}

func TestSetHidden_TogglesVisibility(t *testing.T) {
	store := seedStore()
	ctx := context.Background()

	require.NoError(t, store.SetHidden(ctx, content.KindQuestion, "q1", true))

	questions, err := store.ListQuestions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "q2", questions[0].ID)

	require.NoError(t, store.SetHidden(ctx, content.KindQuestion, "q1", false))
	questions, err = store.ListQuestions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestSetHidden_UnknownContent(t *testing.T) {
	store := seedStore()

	err := store.SetHidden(context.Background(), content.KindAnswer, "missing", true)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
