package ports

import (
	"context"
	"time"

	"stackit-backend/domain/content"
)

// ContentStore defines the read side of the content catalog.
// This is a port in hexagonal architecture - the engine analyzes
// content but never owns its lifecycle, except for moderation hides.
type ContentStore interface {
	// GetQuestion retrieves a single question by ID
	GetQuestion(ctx context.Context, id string) (*content.Question, error)

	// ListQuestions retrieves up to limit visible questions, newest first.
	// limit <= 0 means no limit.
	ListQuestions(ctx context.Context, limit int) ([]content.Question, error)

	// ListAnswers retrieves up to limit visible answers, newest first
	ListAnswers(ctx context.Context, limit int) ([]content.Answer, error)

	// AnswersForQuestion retrieves all answers attached to a question
	AnswersForQuestion(ctx context.Context, questionID string) ([]content.Answer, error)

	// QuestionsByAuthor retrieves all questions posted by a user
	QuestionsByAuthor(ctx context.Context, userID string) ([]content.Question, error)

	// AnswersByAuthor retrieves all answers posted by a user
	AnswersByAuthor(ctx context.Context, userID string) ([]content.Answer, error)

	// SetHidden flips the visibility flag on a question or answer
	SetHidden(ctx context.Context, kind content.ContentKind, id string, hidden bool) error
}

// ContentEvent is an engine-originated event about a piece of content,
// published when moderation or duplicate analysis changes state
type ContentEvent struct {
	Type       string                 `json:"type"`
	ContentID  string                 `json:"contentId"`
	Kind       content.ContentKind    `json:"kind"`
	UserID     string                 `json:"userId,omitempty"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Event types emitted by the engine
const (
	EventContentFlagged  = "content.flagged"
	EventContentHidden   = "content.hidden"
	EventContentUnhidden = "content.unhidden"
	EventDuplicateFound  = "content.duplicate_found"
)

// EventPublisher defines the interface for publishing engine events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event ContentEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []ContentEvent) error
}

// MetricsRecorder defines the interface for emitting operational metrics
type MetricsRecorder interface {
	// Count increments a named counter
	Count(ctx context.Context, name string, value float64)

	// Duration records how long a named operation took
	Duration(ctx context.Context, name string, d time.Duration)
}
