package v1

import (
	"mammy-coker-hub/internal/delivery/http/handler"
	"mammy-coker-hub/internal/delivery/http/middleware"
	"mammy-coker-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Jobs          *handler.JobsHandler
	Professionals *handler.ProfessionalsHandler
	Uploads       *handler.UploadsHandler
	Messages      *handler.MessagesHandler
	Notifications *handler.NotificationsHandler
	Functions     *handler.FunctionsHandler
	WS            *ws.Handler
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil || authMw == nil {
		return
	}

	authed := authMw.Middleware()
	optional := authMw.Optional()

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"), authed)
	}
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(r, authed, optional)
	}
	if h.Professionals != nil {
		h.Professionals.RegisterRoutes(r, authed, optional)
	}
	if h.Uploads != nil {
		h.Uploads.RegisterRoutes(r.Group("/uploads", authed))
	}
	if h.Messages != nil {
		h.Messages.RegisterRoutes(r, authed)
	}
	if h.Notifications != nil {
		h.Notifications.RegisterRoutes(r.Group("/notifications", authed))
	}
	if h.Functions != nil {
		h.Functions.RegisterRoutes(r.Group("/functions"), authed)
	}
	if h.WS != nil {
		h.WS.RegisterRoutes(r)
	}
}
