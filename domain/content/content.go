package content

import "time"

// ContentKind distinguishes the two kinds of analyzable content
type ContentKind string

const (
	KindQuestion ContentKind = "question"
	KindAnswer   ContentKind = "answer"
)

// Question is the question record as stored in the content store.
// The engine only reads these; the store owns their lifecycle.
type Question struct {
	ID               string
	Title            string
	Description      string
	Tags             []string
	UserID           string
	Username         string
	Votes            int
	Answers          int
	AcceptedAnswerID string
	Hidden           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Answer is the answer record as stored in the content store
type Answer struct {
	ID         string
	QuestionID string
	Content    string
	UserID     string
	Username   string
	Votes      int
	IsAccepted bool
	Hidden     bool
	CreatedAt  time.Time
}

// Item is a kind-tagged view over a question or answer used by
// operations that analyze mixed corpora (moderation, topics)
type Item struct {
	ID        string
	Kind      ContentKind
	Title     string
	Body      string
	Tags      []string
	UserID    string
	CreatedAt time.Time
}

// ItemFromQuestion projects a question into the mixed-corpus view
func ItemFromQuestion(q Question) Item {
	return Item{
		ID:        q.ID,
		Kind:      KindQuestion,
		Title:     q.Title,
		Body:      q.Description,
		Tags:      q.Tags,
		UserID:    q.UserID,
		CreatedAt: q.CreatedAt,
	}
}

// ItemFromAnswer projects an answer into the mixed-corpus view
func ItemFromAnswer(a Answer) Item {
	return Item{
		ID:        a.ID,
		Kind:      KindAnswer,
		Body:      a.Content,
		UserID:    a.UserID,
		CreatedAt: a.CreatedAt,
	}
}

// HasAcceptedAnswer reports whether the question has an accepted answer
func (q Question) HasAcceptedAnswer() bool {
	return q.AcceptedAnswerID != ""
}

// AgeDays returns the age of the question in days at the given instant
func (q Question) AgeDays(now time.Time) float64 {
	return now.Sub(q.CreatedAt).Hours() / 24
}

// LastActivityDays returns days since the question was last touched
func (q Question) LastActivityDays(now time.Time) float64 {
	at := q.UpdatedAt
	if at.IsZero() {
		at = q.CreatedAt
	}
	return now.Sub(at).Hours() / 24
}
