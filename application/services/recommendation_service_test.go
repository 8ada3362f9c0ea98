package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stackit-backend/domain/content"
)

func newTestRecommendationService(store *fakeStore) *RecommendationService {
	svc := NewRecommendationService(store, zap.NewNop())
	svc.now = func() time.Time { return testTime }
	return svc
}

// recommendationFixture builds a store where user "me" asks about
// react, user "other" posts fresh react and docker questions, and
// user "exp" answers them well.
func recommendationFixture() *fakeStore {
	store := &fakeStore{}

	for i, title := range []string{
		"React useEffect cleanup question",
		"React state not updating",
		"React router navigation problem",
	} {
		q := testQuestion("mine-"+string(rune('a'+i)), "me", title, "A question about react hooks and component state updates")
		store.questions = append(store.questions, q)
	}

	fresh := testQuestion("q-react", "other", "React context rerender storm", "My react context consumers rerender on every state change")
	fresh.CreatedAt = daysAgo(2)
	store.questions = append(store.questions, fresh)

	for i := 0; i < 4; i++ {
		q := testQuestion("q-docker-"+string(rune('a'+i)), "other", "Docker container networking", "Docker containers cannot reach the host network")
		store.questions = append(store.questions, q)
	}

	for i := 0; i < 3; i++ {
		store.answers = append(store.answers, content.Answer{
			ID:         "exp-" + string(rune('a'+i)),
			QuestionID: "q-react",
			Content:    "Memoize the context value with useMemo, because react compares it by reference. For example:\n```js\nconst value = useMemo(() => ({state}), [state])\n```\n- Split contexts per concern\n- Keep setters in a separate context\nSpecifically, javascript closures capture the old state otherwise.",
			UserID:     "exp",
			Username:   "user-exp",
			Votes:      7,
			IsAccepted: i == 0,
			CreatedAt:  daysAgo(1),
		})
	}
	return store
}

func TestPersonalizedRecommendations_QuestionsMatchInterests(t *testing.T) {
	svc := newTestRecommendationService(recommendationFixture())

	recs, err := svc.PersonalizedRecommendations(context.Background(), "me", 10)
	require.NoError(t, err)

	require.NotEmpty(t, recs.Questions)
	assert.Equal(t, "q-react", recs.Questions[0].Question.ID)
	assert.NotEmpty(t, recs.Questions[0].Reasons)
	assert.Contains(t, recs.Questions[0].Reasons[0], "react")

	for _, rec := range recs.Questions {
		assert.NotEqual(t, "me", rec.Question.UserID, "own questions must not be recommended")
	}
	assert.LessOrEqual(t, len(recs.Questions), 6)
}

func TestPersonalizedRecommendations_AnswersCarryQualityGrade(t *testing.T) {
	svc := newTestRecommendationService(recommendationFixture())

	recs, err := svc.PersonalizedRecommendations(context.Background(), "me", 10)
	require.NoError(t, err)

	require.NotEmpty(t, recs.Answers)
	assert.Equal(t, "q-react", recs.Answers[0].Question.ID)
	assert.NotEmpty(t, recs.Answers[0].QualityGrade)
	assert.LessOrEqual(t, len(recs.Answers), 4)
}

func TestPersonalizedRecommendations_TopicsSkipKnownInterests(t *testing.T) {
	svc := newTestRecommendationService(recommendationFixture())

	recs, err := svc.PersonalizedRecommendations(context.Background(), "me", 10)
	require.NoError(t, err)

	require.NotEmpty(t, recs.Topics)
	topics := make(map[string]TopicRecommendation)
	for _, rec := range recs.Topics {
		topics[rec.Topic] = rec
	}
	assert.Contains(t, topics, "docker")
	assert.NotContains(t, topics, "react", "heavily used interests are not re-recommended")
}

func TestPersonalizedRecommendations_ExpertUsers(t *testing.T) {
	svc := newTestRecommendationService(recommendationFixture())

	recs, err := svc.PersonalizedRecommendations(context.Background(), "me", 10)
	require.NoError(t, err)

	require.NotEmpty(t, recs.Users)
	expert := recs.Users[0]
	assert.Equal(t, "exp", expert.UserID)
	assert.Equal(t, 3, expert.Stats.TotalAnswers)
	assert.Equal(t, 33, expert.Stats.AcceptanceRate)
	assert.Equal(t, 7.0, expert.Stats.AvgVotes)
	assert.NotEmpty(t, expert.Stats.TopTechnologies)
}

func TestPersonalizedRecommendations_Profile(t *testing.T) {
	svc := newTestRecommendationService(recommendationFixture())

	recs, err := svc.PersonalizedRecommendations(context.Background(), "me", 10)
	require.NoError(t, err)

	assert.Equal(t, 9, recs.Profile.Interests.ActivityScore)
	assert.NotEmpty(t, recs.Profile.Interests.TopTechnologies)
	assert.Equal(t, "react", recs.Profile.Interests.TopTechnologies[0].Tech)
	assert.LessOrEqual(t, len(recs.Profile.PreferredTopics), 5)
}

func TestAssessExpertise_Ladder(t *testing.T) {
	assert.Equal(t, ExpertiseNew, AssessExpertise(nil, nil))

	questions := []content.Question{{ID: "q1"}, {ID: "q2"}}

	fewAnswers := []content.Answer{{Votes: 2}, {Votes: 1}}
	assert.Equal(t, ExpertiseBeginner, AssessExpertise(questions, fewAnswers))

	var manyAnswers []content.Answer
	for i := 0; i < 10; i++ {
		manyAnswers = append(manyAnswers, content.Answer{Votes: 4, IsAccepted: i < 5})
	}
	// 10 answers * 2 + 40 votes * 0.5 + 5 accepted * 3 + 2 questions * 0.5 = 56
	assert.Equal(t, ExpertiseExpert, AssessExpertise(questions, manyAnswers))
}

func TestUserExpertise_ReadsFromStore(t *testing.T) {
	store := recommendationFixture()
	svc := newTestRecommendationService(store)

	level, err := svc.UserExpertise(context.Background(), "exp")
	require.NoError(t, err)
	// 3 answers * 2 + 21 votes * 0.5 + 1 accepted * 3 = 19.5
	assert.Equal(t, ExpertiseBeginner, level)
}
