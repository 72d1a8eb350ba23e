package app

import (
	"context"
	"fmt"
	"strings"

	"mammy-coker-hub/internal/config"
	"mammy-coker-hub/internal/delivery/http/middleware"
	"mammy-coker-hub/internal/delivery/http/routes"
	"mammy-coker-hub/internal/infrastructure/storage"
	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/usecase/upload"
	"mammy-coker-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// bodyLimit leaves room for multipart framing around the largest upload.
const bodyLimit = upload.MaxSize + 1<<20

type Server struct {
	Fiber  *fiber.App
	hub    *ws.Hub
	relay  *ws.Relay
	logger *logging.Logger
}

func NewServer(cfg config.Config, logger *logging.Logger, registry *routes.Registry, store upload.Store, hub *ws.Hub, relay *ws.Relay) *Server {
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, cfg, logger)
	if disk, ok := store.(*storage.Disk); ok {
		f.Use(UploadsPrefix, static.New(disk.Root()))
	}
	registry.Register(f)

	return &Server{Fiber: f, hub: hub, relay: relay, logger: logger}
}

// Start runs the realtime hub and the broker relay until ctx is done.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)
	go s.relay.Run(ctx)
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *logging.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.CORS(cfg.App.CORSOrigins))
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
