package ws

import (
	"encoding/json"
	"log"
	"sync"

	"askboard/internal/metrics"
	"askboard/internal/model"
)

// Message is the WebSocket envelope format, both directions. The type
// vocabulary lives in the model package.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connection is one admitted client. Role decides whether admin-only
// events reach it; ParticipantID is the upvote-deduplication key.
type Connection struct {
	ID            string
	SessionID     string
	ParticipantID string
	Role          model.Role
	Send          chan []byte
}

// send queues an envelope for this connection only, dropping it if the
// client can't keep up.
func (c *Connection) send(msgType string, payload interface{}) {
	data, err := marshalMessage(msgType, payload)
	if err != nil {
		log.Printf("ws: marshal %s: %v", msgType, err)
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

type broadcastMessage struct {
	sessionID  string
	adminsOnly bool
	data       []byte
}

// Hub manages room membership and fan-out. Every connection of a session
// shares the session room; admin connections additionally form the admin
// sub-room that receives moderation events.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *broadcastMessage
}

func NewHub() *Hub {
	h := &Hub{
		rooms:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *broadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.rooms[conn.SessionID] == nil {
				h.rooms[conn.SessionID] = make(map[*Connection]bool)
			}
			h.rooms[conn.SessionID][conn] = true
			h.mu.Unlock()
			metrics.WSConnections.Inc()
			log.Printf("ws: %s connected to session %s", conn.Role, conn.SessionID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[conn.SessionID]; ok && room[conn] {
				delete(room, conn)
				if len(room) == 0 {
					delete(h.rooms, conn.SessionID)
				}
				close(conn.Send)
				metrics.WSConnections.Dec()
				log.Printf("ws: %s disconnected from session %s", conn.Role, conn.SessionID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.rooms[msg.sessionID] {
				if msg.adminsOnly && conn.Role != model.RoleAdmin {
					continue
				}
				select {
				case conn.Send <- msg.data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register joins a connection to its session room.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection; it simply stops receiving broadcasts.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastSession sends to every connection in the session room
// (implements service.Broadcaster).
func (h *Hub) BroadcastSession(sessionID, msgType string, payload interface{}) {
	h.enqueue(sessionID, msgType, payload, false)
}

// BroadcastAdmins sends to the session's admin sub-room only (implements
// service.Broadcaster).
func (h *Hub) BroadcastAdmins(sessionID, msgType string, payload interface{}) {
	h.enqueue(sessionID, msgType, payload, true)
}

func (h *Hub) enqueue(sessionID, msgType string, payload interface{}, adminsOnly bool) {
	data, err := marshalMessage(msgType, payload)
	if err != nil {
		log.Printf("ws: marshal %s: %v", msgType, err)
		return
	}
	h.broadcast <- &broadcastMessage{
		sessionID:  sessionID,
		adminsOnly: adminsOnly,
		data:       data,
	}
}

func marshalMessage(msgType string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{
		Type:    msgType,
		Payload: body,
	})
}
