package model

// WebSocket message vocabulary. Declared here so both the gateway and the
// background services share one definition without importing the transport
// package.

// Client-to-server message types.
const (
	MsgQuestionAdd      = "question:add"
	MsgQuestionUpvote   = "question:upvote"
	MsgQuestionAnswered = "question:answered"
	MsgQuestionApprove  = "question:approve"
	MsgQuestionRemove   = "question:remove"
)

// Server-to-client message types.
const (
	MsgSessionUpdate     = "session:update"
	MsgSessionInactive   = "session:inactive"
	MsgQuestionError     = "question:error"
	MsgModerationFlagged = "moderation:flagged"
)
