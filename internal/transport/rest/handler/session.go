package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"askboard/internal/model"
	"askboard/internal/ratelimit"
	"askboard/internal/store"
)

const maxCredentialLength = 128

var validate = validator.New()

// SessionHandler handles the session REST endpoints consumed by the
// homepage and the share links.
type SessionHandler struct {
	store           *store.Store
	creationLimiter ratelimit.Limiter
}

func NewSessionHandler(st *store.Store, creationLimiter ratelimit.Limiter) *SessionHandler {
	return &SessionHandler{
		store:           st,
		creationLimiter: creationLimiter,
	}
}

// CreateSessionRequest is the request body for creating a session.
// Duration bounds live here, at the edge; the store itself never fails.
type CreateSessionRequest struct {
	ExpiresInMinutes int    `json:"expiresInMinutes" validate:"required,min=5,max=480"`
	Name             string `json:"name" validate:"omitempty,max=200"`
}

// CreateSessionResponse returns the credentials and share paths for a new
// session. This is the only response that carries both secrets.
type CreateSessionResponse struct {
	SessionID    string `json:"sessionId"`
	AdminKey     string `json:"adminKey"`
	JoinPassword string `json:"joinPassword"`
	Name         string `json:"name"`
	ExpiresAt    int64  `json:"expiresAt"`
	AttendeePath string `json:"attendeePath"`
	AdminPath    string `json:"adminPath"`
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.creationLimiter.Exceeded(r.Context(), clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many sessions created from this address. Please wait a moment.")
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "expiresInMinutes must be between 5 and 480")
		return
	}

	created := h.store.CreateSession(req.ExpiresInMinutes, req.Name)

	writeJSON(w, http.StatusCreated, CreateSessionResponse{
		SessionID:    created.ID,
		AdminKey:     created.AdminKey,
		JoinPassword: created.JoinPassword,
		Name:         created.Name,
		ExpiresAt:    created.ExpiresAt.UnixMilli(),
		AttendeePath: attendeePath(created.ID, created.JoinPassword),
		AdminPath:    "/admin.html?sessionId=" + created.ID + "&key=" + created.AdminKey,
	})
}

// List handles GET /api/sessions.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": h.store.ListActive(),
	})
}

// GetAttendee handles GET /api/sessions/{id}. Requires the join password.
func (h *SessionHandler) GetAttendee(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snap, err := h.store.Snapshot(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if snap.Status != model.SessionActive {
		writeError(w, http.StatusGone, "session expired")
		return
	}

	adm, err := h.store.Admission(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	password := strings.TrimSpace(r.URL.Query().Get("password"))
	if password == "" || len(password) > maxCredentialLength || password != adm.JoinPassword {
		writeError(w, http.StatusForbidden, "invalid session password")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// adminSessionResponse is the admin fetch body: the snapshot plus join
// details so the presenter can reshare the attendee link.
type adminSessionResponse struct {
	*model.SessionSnapshot
	JoinPassword string `json:"joinPassword"`
	AttendeePath string `json:"attendeePath"`
}

// GetAdmin handles GET /api/sessions/{id}/admin. Requires the admin key and
// also works on expired sessions.
func (h *SessionHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snap, err := h.store.Snapshot(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	adm, err := h.store.Admission(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" || len(key) > maxCredentialLength || key != adm.AdminKey {
		writeError(w, http.StatusForbidden, "invalid admin key")
		return
	}

	writeJSON(w, http.StatusOK, adminSessionResponse{
		SessionSnapshot: snap,
		JoinPassword:    adm.JoinPassword,
		AttendeePath:    attendeePath(id, adm.JoinPassword),
	})
}

func attendeePath(sessionID, joinPassword string) string {
	return "/session.html?sessionId=" + sessionID + "&password=" + joinPassword
}

// clientKey extracts the rate-limiting key for a request: first
// X-Forwarded-For hop when present, else the remote address.
func clientKey(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		return strings.TrimSpace(strings.SplitN(forwarded, ",", 2)[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
