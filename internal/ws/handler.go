package ws

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type Handler struct {
	hub    *Hub
	logger zerolog.Logger
	userID func(c fiber.Ctx) (uuid.UUID, bool)
}

// NewHandler serves authenticated upgrades. userID reads the caller identity
// the auth middleware stored on the request.
func NewHandler(hub *Hub, logger zerolog.Logger, userID func(c fiber.Ctx) (uuid.UUID, bool)) *Handler {
	return &Handler{hub: hub, logger: logger, userID: userID}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) HandleNotificationsWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}
	userID, ok := h.userID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, userID)
	})
	return fiberHandler(c)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}
