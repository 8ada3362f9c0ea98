package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stackit-backend/domain/content"
	apperrors "stackit-backend/pkg/errors"
)

// ContentStore is an in-memory ports.ContentStore used for local
// development and tests. Safe for concurrent use.
type ContentStore struct {
	mu        sync.RWMutex
	questions map[string]content.Question
	answers   map[string]content.Answer
}

// NewContentStore creates an empty in-memory content store
func NewContentStore() *ContentStore {
	return &ContentStore{
		questions: make(map[string]content.Question),
		answers:   make(map[string]content.Answer),
	}
}

// PutQuestion inserts or replaces a question
func (s *ContentStore) PutQuestion(q content.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
}

// PutAnswer inserts or replaces an answer
func (s *ContentStore) PutAnswer(a content.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[a.ID] = a
}

// GetQuestion retrieves a single question by ID
func (s *ContentStore) GetQuestion(_ context.Context, id string) (*content.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("question " + id)
	}
	return &q, nil
}

// ListQuestions retrieves up to limit visible questions, newest first
func (s *ContentStore) ListQuestions(_ context.Context, limit int) ([]content.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]content.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if !q.Hidden {
			questions = append(questions, q)
		}
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// ListAnswers retrieves up to limit visible answers, newest first
func (s *ContentStore) ListAnswers(_ context.Context, limit int) ([]content.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers := make([]content.Answer, 0, len(s.answers))
	for _, a := range s.answers {
		if !a.Hidden {
			answers = append(answers, a)
		}
	}
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].CreatedAt.After(answers[j].CreatedAt)
	})
	if limit > 0 && len(answers) > limit {
		answers = answers[:limit]
	}
	return answers, nil
}

// AnswersForQuestion retrieves all answers attached to a question
func (s *ContentStore) AnswersForQuestion(_ context.Context, questionID string) ([]content.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers := make([]content.Answer, 0)
	for _, a := range s.answers {
		if a.QuestionID == questionID && !a.Hidden {
			answers = append(answers, a)
		}
	}
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].CreatedAt.After(answers[j].CreatedAt)
	})
	return answers, nil
}

// QuestionsByAuthor retrieves all questions posted by a user
func (s *ContentStore) QuestionsByAuthor(_ context.Context, userID string) ([]content.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]content.Question, 0)
	for _, q := range s.questions {
		if q.UserID == userID {
			questions = append(questions, q)
		}
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].CreatedAt.After(questions[j].CreatedAt)
	})
	return questions, nil
}

// AnswersByAuthor retrieves all answers posted by a user
func (s *ContentStore) AnswersByAuthor(_ context.Context, userID string) ([]content.Answer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	answers := make([]content.Answer, 0)
	for _, a := range s.answers {
		if a.UserID == userID {
			answers = append(answers, a)
		}
	}
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].CreatedAt.After(answers[j].CreatedAt)
	})
	return answers, nil
}

// SetHidden flips the visibility flag on a question or answer
func (s *ContentStore) SetHidden(_ context.Context, kind content.ContentKind, id string, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case content.KindQuestion:
		q, ok := s.questions[id]
		if !ok {
			return apperrors.NewNotFoundError("question " + id)
		}
		q.Hidden = hidden
		s.questions[id] = q
	case content.KindAnswer:
		a, ok := s.answers[id]
		if !ok {
			return apperrors.NewNotFoundError("answer " + id)
		}
		a.Hidden = hidden
		s.answers[id] = a
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown content kind %q", kind))
	}
	return nil
}
