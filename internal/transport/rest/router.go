package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"askboard/internal/ratelimit"
	"askboard/internal/store"
	"askboard/internal/transport/rest/handler"
	"askboard/internal/transport/rest/middleware"
	"askboard/internal/transport/ws"
)

// Container holds all dependencies for the router.
type Container struct {
	Store           *store.Store
	CreationLimiter ratelimit.Limiter
	WSHandler       *ws.Handler
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(c.Store, c.CreationLimiter)

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", sessionHandler.List).Methods("GET")
	api.HandleFunc("/sessions", sessionHandler.Create).Methods("POST")
	api.HandleFunc("/sessions/{id}", sessionHandler.GetAttendee).Methods("GET")
	api.HandleFunc("/sessions/{id}/admin", sessionHandler.GetAdmin).Methods("GET")

	r.HandleFunc("/ws", c.WSHandler.ServeWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
