package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"askboard/internal/model"
	"askboard/internal/ratelimit"
	"askboard/internal/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// maxCredentialLength caps supplied secrets; anything longer is
	// pathological input, rejected before comparison.
	maxCredentialLength = 128
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// participantIDRE is the allowlist for caller-supplied participant ids.
// Anything else gets a generated per-connection fallback.
var participantIDRE = regexp.MustCompile(`^[a-zA-Z0-9-]{1,64}$`)

// Handler admits WebSocket connections and dispatches their messages to
// store operations, broadcasting the resulting state to the session room.
type Handler struct {
	hub             *Hub
	store           *store.Store
	questionLimiter ratelimit.Limiter
}

func NewHandler(hub *Hub, st *store.Store, questionLimiter ratelimit.Limiter) *Handler {
	return &Handler{
		hub:             hub,
		store:           st,
		questionLimiter: questionLimiter,
	}
}

// ServeWS handles GET /ws. Admission is a single synchronous decision run
// before the upgrade: session must exist and be active, credentials are
// length-capped and compared exactly, and a matching admin key wins over
// the password check.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sessionID := query.Get("sessionId")
	if sessionID == "" {
		rejectJSON(w, http.StatusBadRequest, "missing_session")
		return
	}

	adm, err := h.store.Admission(sessionID)
	if err != nil {
		rejectJSON(w, http.StatusNotFound, "session_not_found")
		return
	}
	if adm.Status != model.SessionActive {
		rejectJSON(w, http.StatusGone, "session_inactive")
		return
	}

	adminKey := strings.TrimSpace(query.Get("adminKey"))
	password := strings.TrimSpace(query.Get("password"))
	if len(adminKey) > maxCredentialLength || len(password) > maxCredentialLength {
		rejectJSON(w, http.StatusForbidden, "invalid_password")
		return
	}

	var role model.Role
	switch {
	case adminKey != "" && adminKey == adm.AdminKey:
		role = model.RoleAdmin
	case password != "" && password == adm.JoinPassword:
		role = model.RoleAttendee
	default:
		rejectJSON(w, http.StatusForbidden, "invalid_password")
		return
	}

	connID := uuid.NewString()
	participantID := strings.TrimSpace(query.Get("participantId"))
	if !participantIDRE.MatchString(participantID) {
		participantID = "conn-" + connID
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}

	// Re-fetch after the upgrade: the session may have expired in between,
	// in which case the connection is told and force-closed.
	snap, err := h.store.Snapshot(sessionID)
	if err != nil || snap.Status != model.SessionActive {
		if data, merr := marshalMessage(model.MsgSessionInactive, nil); merr == nil {
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			wsConn.WriteMessage(websocket.TextMessage, data)
		}
		wsConn.Close()
		return
	}

	conn := &Connection{
		ID:            connID,
		SessionID:     sessionID,
		ParticipantID: participantID,
		Role:          role,
		Send:          make(chan []byte, 256),
	}
	h.hub.Register(conn)

	// Fresh full snapshot straight to the newcomer.
	conn.send(model.MsgSessionUpdate, snap)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func rejectJSON(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": reason})
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws: read: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		h.dispatch(conn, &msg)
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type questionPayload struct {
	Text        string `json:"text"`
	AuthorAlias string `json:"authorAlias"`
	QuestionID  string `json:"questionId"`
}

type flaggedPayload struct {
	QuestionID string   `json:"questionId"`
	Text       string   `json:"text"`
	Reasons    []string `json:"reasons"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// dispatch routes one inbound message. Every handler fetches the session
// state fresh from the store; stale handles are never reused, so lazy
// expiry is re-evaluated per action.
func (h *Handler) dispatch(conn *Connection, msg *Message) {
	var payload questionPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return
		}
	}

	switch msg.Type {
	case model.MsgQuestionAdd:
		h.handleAdd(conn, payload)
	case model.MsgQuestionUpvote:
		h.handleUpvote(conn, payload)
	case model.MsgQuestionAnswered:
		h.handleAnswered(conn, payload)
	case model.MsgQuestionApprove:
		h.handleApprove(conn, payload)
	case model.MsgQuestionRemove:
		h.handleRemove(conn, payload)
	}
}

func (h *Handler) handleAdd(conn *Connection, payload questionPayload) {
	adm, err := h.store.Admission(conn.SessionID)
	if err != nil || adm.Status != model.SessionActive {
		conn.send(model.MsgSessionInactive, nil)
		return
	}

	if h.questionLimiter.Exceeded(context.Background(), conn.ID) {
		conn.send(model.MsgQuestionError, errorPayload{Message: "Too many questions submitted quickly. Please wait a moment."})
		return
	}

	snap, q, err := h.store.SubmitQuestion(conn.SessionID, payload.Text, payload.AuthorAlias)
	switch {
	case errors.Is(err, store.ErrEmptyQuestion):
		conn.send(model.MsgQuestionError, errorPayload{Message: "Question cannot be empty"})
		return
	case errors.Is(err, store.ErrQuestionTooLong):
		conn.send(model.MsgQuestionError, errorPayload{Message: "Question is too long"})
		return
	case err != nil:
		conn.send(model.MsgSessionInactive, nil)
		return
	}

	if q.Moderation == model.ModerationNeedsReview {
		log.Printf("moderation: flagged question %s in session %s: %s",
			q.ID, conn.SessionID, strings.Join(q.FlaggedReasons, "; "))
		h.hub.BroadcastAdmins(conn.SessionID, model.MsgModerationFlagged, flaggedPayload{
			QuestionID: q.ID,
			Text:       q.Text,
			Reasons:    q.FlaggedReasons,
		})
	}

	h.hub.BroadcastSession(conn.SessionID, model.MsgSessionUpdate, snap)
}

func (h *Handler) handleUpvote(conn *Connection, payload questionPayload) {
	if payload.QuestionID == "" {
		return
	}

	snap, err := h.store.Upvote(conn.SessionID, payload.QuestionID, conn.ParticipantID)
	if err != nil {
		conn.send(model.MsgSessionInactive, nil)
		return
	}

	// Rebroadcast even when the vote was ignored: one code path, and every
	// client converges on the same canonical ordering.
	h.hub.BroadcastSession(conn.SessionID, model.MsgSessionUpdate, snap)
}

func (h *Handler) handleAnswered(conn *Connection, payload questionPayload) {
	if conn.Role != model.RoleAdmin || payload.QuestionID == "" {
		return
	}

	snap, changed, err := h.store.MarkAnswered(conn.SessionID, payload.QuestionID)
	if err != nil || !changed {
		return
	}
	h.hub.BroadcastSession(conn.SessionID, model.MsgSessionUpdate, snap)
}

func (h *Handler) handleApprove(conn *Connection, payload questionPayload) {
	if conn.Role != model.RoleAdmin || payload.QuestionID == "" {
		return
	}

	snap, changed, err := h.store.Approve(conn.SessionID, payload.QuestionID)
	if err != nil || !changed {
		return
	}
	h.hub.BroadcastSession(conn.SessionID, model.MsgSessionUpdate, snap)
}

func (h *Handler) handleRemove(conn *Connection, payload questionPayload) {
	if conn.Role != model.RoleAdmin || payload.QuestionID == "" {
		return
	}

	snap, removed, err := h.store.RemoveQuestion(conn.SessionID, payload.QuestionID)
	if err != nil || !removed {
		return
	}
	h.hub.BroadcastSession(conn.SessionID, model.MsgSessionUpdate, snap)
}
