package services

import (
	"context"
	"time"

	"stackit-backend/application/ports"
	"stackit-backend/domain/content"
)

// fakeStore is an in-memory ContentStore for service tests
type fakeStore struct {
	questions []content.Question
	answers   []content.Answer

	hiddenCalls []hiddenCall
	listErr     error
}

type hiddenCall struct {
	kind   content.ContentKind
	id     string
	hidden bool
}

func (f *fakeStore) GetQuestion(_ context.Context, id string) (*content.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			q := q
			return &q, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListQuestions(_ context.Context, limit int) ([]content.Question, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.questions) > limit {
		return f.questions[:limit], nil
	}
	return f.questions, nil
}

func (f *fakeStore) ListAnswers(_ context.Context, limit int) ([]content.Answer, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.answers) > limit {
		return f.answers[:limit], nil
	}
	return f.answers, nil
}

func (f *fakeStore) AnswersForQuestion(_ context.Context, questionID string) ([]content.Answer, error) {
	var out []content.Answer
	for _, a := range f.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) QuestionsByAuthor(_ context.Context, userID string) ([]content.Question, error) {
	var out []content.Question
	for _, q := range f.questions {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) AnswersByAuthor(_ context.Context, userID string) ([]content.Answer, error) {
	var out []content.Answer
	for _, a := range f.answers {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) SetHidden(_ context.Context, kind content.ContentKind, id string, hidden bool) error {
	f.hiddenCalls = append(f.hiddenCalls, hiddenCall{kind: kind, id: id, hidden: hidden})
	return nil
}

// fakePublisher records every published event
type fakePublisher struct {
	events []ports.ContentEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event ports.ContentEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) PublishBatch(_ context.Context, events []ports.ContentEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, events...)
	return nil
}

// testTime is the fixed reference instant used by tests that inject now
var testTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testTime.AddDate(0, 0, -n)
}

func testQuestion(id, userID, title, description string) content.Question {
	return content.Question{
		ID:          id,
		Title:       title,
		Description: description,
		UserID:      userID,
		Username:    "user-" + userID,
		CreatedAt:   daysAgo(10),
	}
}
