package model

import "time"

type QuestionStatus string

const (
	QuestionOpen     QuestionStatus = "open"
	QuestionAnswered QuestionStatus = "answered"
)

type Moderation string

const (
	ModerationApproved    Moderation = "approved"
	ModerationNeedsReview Moderation = "needs_review"
)

// Question is an attendee-submitted question. Upvotes is a set of
// participant ids so a participant counts at most once.
type Question struct {
	ID             string
	Text           string
	AuthorAlias    string
	CreatedAt      time.Time
	Upvotes        map[string]struct{}
	Status         QuestionStatus
	Moderation     Moderation
	FlaggedReasons []string
}

// Flagged reports whether the question is still waiting on admin review.
func (q *Question) Flagged() bool {
	return q.Moderation == ModerationNeedsReview
}

// QuestionSnapshot is the client-facing view of a question. The raw voter
// set is replaced by its cardinality.
type QuestionSnapshot struct {
	ID             string         `json:"id"`
	Text           string         `json:"text"`
	AuthorAlias    string         `json:"authorAlias,omitempty"`
	CreatedAt      int64          `json:"createdAt"`
	Upvotes        int            `json:"upvotes"`
	Status         QuestionStatus `json:"status"`
	Moderation     Moderation     `json:"moderation"`
	FlaggedReasons []string       `json:"flaggedReasons"`
}
