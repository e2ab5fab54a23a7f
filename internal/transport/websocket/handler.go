package websocket

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"knightd/internal/config"
	"knightd/internal/core/auth"
	"knightd/internal/logger"
)

type Handler struct {
	hub      *Hub
	cfg      *config.Config
	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewHandler(hub *Hub, cfg *config.Config, log logger.Logger) *Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			allowed := slices.Contains(cfg.AllowedOrigins, origin)
			if !allowed {
				log.Warn("ws: origin rejected", "origin", origin)
			}

			return allowed
		},
	}

	return &Handler{
		hub:      hub,
		cfg:      cfg,
		upgrader: upgrader,
		log:      log,
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if authHeader := r.Header.Get("Authorization"); len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}

	if token == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := auth.VerifyToken(token, h.cfg.JWTSecret); err != nil {
		h.log.Warn("ws: jwt verification failed", "error", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws: upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, h.log)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.log.Info("ws: client connected", "remote_addr", conn.RemoteAddr())
}
