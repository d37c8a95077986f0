// Package server exposes the HTTP surface: health, room administration,
// token issuance and the websocket endpoint.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prudhvinik1/tablesync/internal/dispatch"
	"github.com/prudhvinik1/tablesync/internal/room"
	"github.com/prudhvinik1/tablesync/internal/services"
	"github.com/prudhvinik1/tablesync/internal/transport/ws"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 64 << 10

type Server struct {
	auth     *services.AuthService
	registry *room.Registry
	router   *dispatch.Router
	hub      *ws.Hub
	validate *validator.Validate
}

func New(auth *services.AuthService, registry *room.Registry, router *dispatch.Router, hub *ws.Hub) *Server {
	return &Server{
		auth:     auth,
		registry: registry,
		router:   router,
		hub:      hub,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Post("/auth/token", s.issueToken)
	r.Get("/rooms", s.listRooms)
	r.Delete("/rooms/{roomID}", s.deleteRoom)
	r.Get("/ws", s.hub.ServeWS)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "OK",
		"store":  s.registry.Backend(),
	})
}

type tokenRequest struct {
	RoomID     string `json:"roomId" validate:"required,max=64"`
	UID        string `json:"uid" validate:"required,max=64"`
	Secret     string `json:"secret"`
	DMPassword string `json:"dmPassword,omitempty"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     bool      `json:"admin"`
}

// issueToken trades a room secret for a session token. A correct DM password
// makes it an admin token.
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	identity, err := s.auth.Authenticate(services.AuthRequest{
		RoomID: req.RoomID,
		UID:    req.UID,
		Secret: req.Secret,
	})
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	admin := false
	if req.DMPassword != "" {
		if !s.auth.VerifyDMPassword(req.DMPassword) {
			writeError(w, http.StatusUnauthorized, "invalid dm password")
			return
		}
		admin = true
	}

	token, expiresAt, err := s.auth.IssueToken(identity.UID, identity.RoomID, admin)
	if err != nil {
		log.Error().Err(err).Str("module", "server").Msg("failed to issue token")
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt, Admin: admin})
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"rooms": s.registry.ListRooms()})
}

func (s *Server) deleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	claims, err := s.bearer(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if !claims.Admin || (claims.RoomID != "" && claims.RoomID != roomID) {
		writeError(w, http.StatusForbidden, "admin token for this room required")
		return
	}

	var deleteErr error
	if err := s.hub.Do(r.Context(), func() { deleteErr = s.router.DeleteRoom(roomID) }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if errors.Is(deleteErr, room.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, deleteErr.Error())
		return
	}
	if deleteErr != nil {
		writeError(w, http.StatusInternalServerError, deleteErr.Error())
		return
	}

	log.Info().Str("module", "server").Str("room", roomID).Str("user", claims.UID).Msg("room deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) bearer(r *http.Request) (*services.TokenClaims, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, errors.New("missing bearer token")
	}
	return s.auth.VerifyToken(token)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Str("module", "server").Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
