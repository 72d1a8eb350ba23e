package handler

import (
	"context"
	"time"

	"mammy-coker-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type ClientCounter interface {
	ClientCount(ctx context.Context) int
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
	hub   ClientCounter
}

func NewHealthHandler(db, cache Pinger, hub ClientCounter) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, hub: hub}
}

type healthResponse struct {
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	WSClients int    `json:"ws_clients"`
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports 503 only when the database is down. The cache is optional.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := healthResponse{Database: check(ctx, h.db), Cache: check(ctx, h.cache)}
	if h.hub != nil {
		out.WSClients = h.hub.ClientCount(ctx)
	}

	if out.Database == "down" {
		return response.Error(c, fiber.StatusServiceUnavailable, "database unavailable", out)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
