package handler

import (
	"context"

	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type NotificationsHandler struct {
	svc NotificationService
}

func NewNotificationsHandler(svc NotificationService) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

func (h *NotificationsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/unread-count", h.UnreadCount)
	r.Post("/read-all", h.MarkAllRead)
	r.Patch("/:id/read", h.MarkRead)
}

func (h *NotificationsHandler) List(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Context(), a.ID, limit)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *NotificationsHandler) UnreadCount(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	n, err := h.svc.UnreadCount(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"unread": n})
}

func (h *NotificationsHandler) MarkRead(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.MarkRead(c.Context(), a.ID, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *NotificationsHandler) MarkAllRead(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	n, err := h.svc.MarkAllRead(c.Context(), a.ID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"marked": n})
}
