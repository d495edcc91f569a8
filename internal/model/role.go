package model

// Role is the closed set of connection roles. Handlers switch on it
// exhaustively; there is no third case.
type Role string

const (
	RoleAttendee Role = "attendee"
	RoleAdmin    Role = "admin"
)
