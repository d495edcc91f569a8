package model

import "time"

type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionExpired SessionStatus = "expired"
)

// Session is a time-boxed Q&A room. It is owned by the store; callers only
// ever see snapshots.
type Session struct {
	ID           string
	AdminKey     string
	JoinPassword string
	Name         string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	Status       SessionStatus
	Questions    map[string]*Question
}

// SessionSnapshot is the client-facing view of a session. Questions are
// ranked (votes descending, then oldest first) and carry vote counts only.
type SessionSnapshot struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Status    SessionStatus      `json:"status"`
	CreatedAt int64              `json:"createdAt"`
	ExpiresAt int64              `json:"expiresAt"`
	Questions []QuestionSnapshot `json:"questions"`
}

// SessionSummary is the homepage listing entry for an active session.
type SessionSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt"`
}
