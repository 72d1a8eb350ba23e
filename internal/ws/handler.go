package ws

import (
	"context"
	"net/http"
	"strings"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/usecase/notification"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (user.Actor, error)
}

type Handler struct {
	hub       *Hub
	auth      TokenAuthenticator
	authorize ConversationAuthorizer
	logger    *logging.Logger
}

func NewHandler(hub *Hub, auth TokenAuthenticator, authorize ConversationAuthorizer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{hub: hub, auth: auth, authorize: authorize, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.HandleWS)
}

// HandleWS upgrades an authenticated request. Browsers cannot set headers on
// a WebSocket handshake, so the token may also come as access_token.
func (h *Handler) HandleWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	token := c.Query("access_token")
	if token == "" {
		token = bearer(c.Get("Authorization"))
	}
	actor, err := h.auth.Authenticate(c.Context(), token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := NewClient(h.hub, conn, actor, h.authorize, h.logger, notification.Channel(actor.ID))
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

func bearer(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
