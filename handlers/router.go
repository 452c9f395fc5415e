package handlers

import (
    "net/http"

    "github.com/gorilla/mux"

    "github.com/circlearena/circlearena-backend/config"
    "github.com/circlearena/circlearena-backend/middleware"
    "github.com/circlearena/circlearena-backend/repository"
)

// Handler bundles the dependencies the HTTP and websocket endpoints need.
type Handler struct {
    cfg   *config.Config
    users *repository.UserStore
    hub   *Hub
}

func New(cfg *config.Config, users *repository.UserStore, hub *Hub) *Handler {
    return &Handler{cfg: cfg, users: users, hub: hub}
}

func (h *Handler) NewRouter() *mux.Router {
    r := mux.NewRouter()

    // Public routes
    r.HandleFunc("/api/register", h.Register).Methods("POST")
    r.HandleFunc("/api/login", h.Login).Methods("POST")
    r.HandleFunc("/api/logout", h.Logout).Methods("POST")
    r.HandleFunc("/ws/{token}", h.WsHandler)

    // Secured routes
    secured := r.PathPrefix("/api").Subrouter()
    secured.Use(middleware.JWTValidation(h.cfg.JWTSecret))
    secured.HandleFunc("/session", h.Session).Methods("GET")

    // Client pages and assets
    r.PathPrefix("/").Handler(http.FileServer(http.Dir(h.cfg.StaticDir)))

    return r
}
