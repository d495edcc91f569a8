package ws_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"askboard/internal/model"
	"askboard/internal/transport/ws"
)

func newHubConn(sessionID string, role model.Role) *ws.Connection {
	return &ws.Connection{
		ID:            "conn-" + string(role) + "-" + sessionID,
		SessionID:     sessionID,
		ParticipantID: "p-" + string(role),
		Role:          role,
		Send:          make(chan []byte, 8),
	}
}

func recvEnvelope(t *testing.T, conn *ws.Connection) ws.Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "send channel closed")
		var msg ws.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return ws.Message{}
	}
}

func requireSilent(t *testing.T, conn *ws.Connection) {
	t.Helper()
	select {
	case data := <-conn.Send:
		t.Fatalf("unexpected message: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubBroadcastSession(t *testing.T) {
	hub := ws.NewHub()

	attendee := newHubConn("s1", model.RoleAttendee)
	admin := newHubConn("s1", model.RoleAdmin)
	outsider := newHubConn("s2", model.RoleAttendee)
	hub.Register(attendee)
	hub.Register(admin)
	hub.Register(outsider)

	hub.BroadcastSession("s1", model.MsgSessionUpdate, map[string]string{"id": "s1"})

	for _, conn := range []*ws.Connection{attendee, admin} {
		msg := recvEnvelope(t, conn)
		require.Equal(t, model.MsgSessionUpdate, msg.Type)
	}
	requireSilent(t, outsider)
}

func TestHubBroadcastAdmins(t *testing.T) {
	hub := ws.NewHub()

	attendee := newHubConn("s1", model.RoleAttendee)
	admin := newHubConn("s1", model.RoleAdmin)
	hub.Register(attendee)
	hub.Register(admin)

	hub.BroadcastAdmins("s1", model.MsgModerationFlagged, map[string]string{"questionId": "q1"})

	msg := recvEnvelope(t, admin)
	require.Equal(t, model.MsgModerationFlagged, msg.Type)
	requireSilent(t, attendee)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := ws.NewHub()

	conn := newHubConn("s1", model.RoleAttendee)
	hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		require.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	hub.BroadcastSession("s1", model.MsgSessionUpdate, nil)
}
