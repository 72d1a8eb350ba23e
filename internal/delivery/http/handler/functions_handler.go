package handler

import (
	"context"

	"mammy-coker-hub/internal/delivery/http/dto"
	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/infrastructure/email"
	"mammy-coker-hub/internal/pkg/response"
	"mammy-coker-hub/internal/usecase/assistant"
	"mammy-coker-hub/internal/usecase/mailer"
	notifuc "mammy-coker-hub/internal/usecase/notification"

	"github.com/gofiber/fiber/v3"
)

type AssistantService interface {
	Ask(ctx context.Context, req assistant.Request) (assistant.Response, error)
}

type MailerService interface {
	Send(ctx context.Context, req mailer.Request) (email.Receipt, error)
}

type NotificationSender interface {
	Send(ctx context.Context, in notifuc.SendInput) (notification.Notification, error)
}

// FunctionsHandler serves the callable functions: ai-assistant,
// send-verification-email and send-notification.
type FunctionsHandler struct {
	assistant     AssistantService
	mailer        MailerService
	notifications NotificationSender
}

func NewFunctionsHandler(a AssistantService, m MailerService, n NotificationSender) *FunctionsHandler {
	return &FunctionsHandler{assistant: a, mailer: m, notifications: n}
}

func (h *FunctionsHandler) RegisterRoutes(r fiber.Router, authed fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/ai-assistant", authed, h.Assistant)
	r.Post("/send-verification-email", h.VerificationEmail)
	r.Post("/send-notification", authed, h.Notification)
}

func (h *FunctionsHandler) Assistant(c fiber.Ctx) error {
	var req dto.AssistantRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.assistant.Ask(c.Context(), assistant.Request{
		Prompt:  req.Prompt,
		Context: req.Context,
		Type:    assistant.RequestType(req.Type),
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *FunctionsHandler) VerificationEmail(c fiber.Ctx) error {
	var req dto.VerificationEmailRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	rec, err := h.mailer.Send(c.Context(), mailer.Request{
		Email:      req.Email,
		Type:       mailer.EmailType(req.Type),
		RedirectTo: req.RedirectTo,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Email sent", rec)
}

func (h *FunctionsHandler) Notification(c fiber.Ctx) error {
	var req dto.NotificationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	n, err := h.notifications.Send(c.Context(), notifuc.SendInput{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Data:    req.Data,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Notification sent", n)
}
