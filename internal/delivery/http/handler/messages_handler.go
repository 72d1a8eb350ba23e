package handler

import (
	"context"

	"mammy-coker-hub/internal/delivery/http/dto"
	"mammy-coker-hub/internal/domain/message"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MessageService interface {
	Conversations(ctx context.Context, actor user.Actor) ([]message.Summary, error)
	Start(ctx context.Context, actor user.Actor, otherID uuid.UUID) (message.Conversation, error)
	Messages(ctx context.Context, actor user.Actor, conversationID uuid.UUID) ([]message.Message, error)
	Send(ctx context.Context, actor user.Actor, conversationID uuid.UUID, content string) (message.Message, error)
	SendTo(ctx context.Context, actor user.Actor, recipientID uuid.UUID, content string) (message.Message, error)
	MarkRead(ctx context.Context, actor user.Actor, conversationID uuid.UUID) (int64, error)
}

type MessagesHandler struct {
	svc MessageService
}

func NewMessagesHandler(svc MessageService) *MessagesHandler {
	return &MessagesHandler{svc: svc}
}

func (h *MessagesHandler) RegisterRoutes(r fiber.Router, authed fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/conversations", authed, h.Conversations)
	r.Post("/conversations", authed, h.Start)
	r.Get("/conversations/:id/messages", authed, h.Messages)
	r.Post("/conversations/:id/messages", authed, h.Send)
	r.Post("/conversations/:id/read", authed, h.MarkRead)
	r.Post("/messages", authed, h.SendTo)
}

func (h *MessagesHandler) Conversations(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	items, err := h.svc.Conversations(c.Context(), a)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *MessagesHandler) Start(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.StartConversationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	conv, err := h.svc.Start(c.Context(), a, req.UserID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, conv)
}

func (h *MessagesHandler) Messages(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.Messages(c.Context(), a, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *MessagesHandler) Send(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SendMessageRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	m, err := h.svc.Send(c.Context(), a, id, req.Content)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Message sent", m)
}

func (h *MessagesHandler) SendTo(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.DirectMessageRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	m, err := h.svc.SendTo(c.Context(), a, req.RecipientID, req.Content)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Message sent", m)
}

func (h *MessagesHandler) MarkRead(c fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	n, err := h.svc.MarkRead(c.Context(), a, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"marked": n})
}
