package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stackit-backend/application/services"
	"stackit-backend/domain/content"
	"stackit-backend/infrastructure/persistence/memory"
)

func seededAnalysisHandler() *AnalysisHandler {
	store := memory.NewContentStore()
	store.PutQuestion(content.Question{
		ID:          "q1",
		Title:       "How to use docker compose with postgres",
		Description: "I want to run postgres in docker compose for local development",
		Tags:        []string{"docker", "postgres"},
		UserID:      "alice",
		CreatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	store.PutQuestion(content.Question{
		ID:          "q2",
		Title:       "Centering a div with css flexbox",
		Description: "What is the best way to center a div horizontally and vertically",
		Tags:        []string{"css"},
		UserID:      "bob",
		CreatedAt:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})

	similarity := services.NewSimilarityService(store, zap.NewNop())
	return NewAnalysisHandler(similarity, zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestFindSimilarQuestions_ReturnsMatches(t *testing.T) {
	h := seededAnalysisHandler()

	rec := postJSON(t, h.FindSimilarQuestions, SimilarQuestionsRequest{
		Title:       "How to use docker compose with postgres database",
		Description: "Running postgres in docker compose for local development",
		Threshold:   0.3,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			SimilarQuestions []services.SimilarQuestion `json:"similarQuestions"`
			Count            int                        `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.SimilarQuestions)
	assert.Equal(t, "q1", envelope.Data.SimilarQuestions[0].Question.ID)
}

func TestFindSimilarQuestions_RejectsMissingTitle(t *testing.T) {
	h := seededAnalysisHandler()

	rec := postJSON(t, h.FindSimilarQuestions, map[string]string{"description": "no title"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestTags_ExcludesExisting(t *testing.T) {
	h := seededAnalysisHandler()

	rec := postJSON(t, h.SuggestTags, SuggestTagsRequest{
		Title:        "Docker compose networking with postgres",
		Description:  "Connecting containers in docker compose",
		ExistingTags: []string{"docker"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			SuggestedTags []string `json:"suggestedTags"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotContains(t, envelope.Data.SuggestedTags, "docker")
}

func TestSummarize_ShortContentPassesThrough(t *testing.T) {
	h := seededAnalysisHandler()

	rec := postJSON(t, h.Summarize, SummarizeRequest{Content: "Use a pointer receiver."})

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Summary    string  `json:"summary"`
			Confidence float64 `json:"confidence"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Use a pointer receiver.", envelope.Data.Summary)
	assert.InDelta(t, 0.3, envelope.Data.Confidence, 1e-9)
}

func TestScoreQuality_GradesSubstantialAnswer(t *testing.T) {
	h := seededAnalysisHandler()

	answer := "You can solve this with a goroutine pool because workers bound concurrency. " +
		"For example:\n```go\nfor i := 0; i < n; i++ { go worker() }\n```\n" +
		"Specifically, use a buffered channel as the queue. However, remember to close it. " +
		"This works with docker, kubernetes and postgres deployments."

	rec := postJSON(t, h.ScoreQuality, QualityRequest{Content: answer})

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Score   float64  `json:"score"`
			Grade   string   `json:"grade"`
			Factors []string `json:"factors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Greater(t, envelope.Data.Score, 0.5)
	assert.Contains(t, envelope.Data.Factors, "Contains code examples")
}

func TestScoreQuality_RejectsEmptyBody(t *testing.T) {
	h := seededAnalysisHandler()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()
	h.ScoreQuality(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
