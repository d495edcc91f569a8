package service

// Broadcaster fans messages out to the connections of a session room.
// Implemented by the ws hub; declared here so services don't import the
// transport package.
type Broadcaster interface {
	// BroadcastSession delivers to every connection joined to the session.
	BroadcastSession(sessionID, msgType string, payload interface{})
	// BroadcastAdmins delivers to the session's admin sub-room only.
	BroadcastAdmins(sessionID, msgType string, payload interface{})
}
