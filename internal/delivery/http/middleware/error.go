package middleware

import (
	"errors"

	"mammy-coker-hub/internal/domain/application"
	"mammy-coker-hub/internal/domain/job"
	"mammy-coker-hub/internal/domain/message"
	"mammy-coker-hub/internal/domain/notification"
	"mammy-coker-hub/internal/domain/professional"
	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/infrastructure/assistant"
	"mammy-coker-hub/internal/infrastructure/email"
	"mammy-coker-hub/internal/infrastructure/storage"
	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/pkg/response"
	"mammy-coker-hub/internal/usecase/auth"
	"mammy-coker-hub/internal/usecase/mailer"
	"mammy-coker-hub/internal/usecase/upload"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *logging.Logger
}

func NewErrorMiddleware(logger *logging.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered", "panic", r, "path", c.Path())
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError {
			m.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
		}
		return response.Error(c, status, msg, data)
	}
}

// sentinels maps domain errors to a status. The error text is the message.
var sentinels = []struct {
	err    error
	status int
}{
	{user.ErrNotFound, fiber.StatusNotFound},
	{job.ErrNotFound, fiber.StatusNotFound},
	{application.ErrNotFound, fiber.StatusNotFound},
	{professional.ErrNotFound, fiber.StatusNotFound},
	{professional.ErrEmployerNotFound, fiber.StatusNotFound},
	{professional.ErrCertificateNotFound, fiber.StatusNotFound},
	{message.ErrConversationNotFound, fiber.StatusNotFound},
	{notification.ErrNotFound, fiber.StatusNotFound},

	{auth.ErrNotAuthenticated, fiber.StatusUnauthorized},
	{user.ErrForbidden, fiber.StatusForbidden},
	{job.ErrNotOwner, fiber.StatusForbidden},
	{message.ErrNotParticipant, fiber.StatusForbidden},
	{upload.ErrNotYourFile, fiber.StatusForbidden},

	{application.ErrAlreadyApplied, fiber.StatusConflict},
	{application.ErrInvitationExists, fiber.StatusConflict},
	{application.ErrInvitationClosed, fiber.StatusConflict},
	{job.ErrClosed, fiber.StatusConflict},
	{user.ErrEmailTaken, fiber.StatusConflict},

	{job.ErrInvalidStatus, fiber.StatusBadRequest},
	{application.ErrInvalidStatus, fiber.StatusBadRequest},
	{notification.ErrInvalidType, fiber.StatusBadRequest},
	{message.ErrSelfConversation, fiber.StatusBadRequest},
	{message.ErrEmptyMessage, fiber.StatusBadRequest},
	{upload.ErrUnknownBucket, fiber.StatusBadRequest},
	{upload.ErrEmptyFile, fiber.StatusBadRequest},
	{upload.ErrTooLarge, fiber.StatusRequestEntityTooLarge},
	{upload.ErrUnsupportedType, fiber.StatusUnsupportedMediaType},

	{assistant.ErrNotConfigured, fiber.StatusServiceUnavailable},
	{email.ErrNotConfigured, fiber.StatusServiceUnavailable},
	{storage.ErrNotConfigured, fiber.StatusServiceUnavailable},
	{mailer.ErrNoActionLink, fiber.StatusBadGateway},
}

func normalizeError(err error) (int, string, interface{}) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode <= 0 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		status := appErr.StatusCode
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}

		if status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		return status, msg, appErr.Data
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return fiber.StatusUnprocessableEntity, "validation failed", map[string]string(fieldErrs)
	}

	if ae, ok := auth.AsError(err); ok {
		status := ae.Status
		if status <= 0 {
			status = fiber.StatusBadRequest
		}
		return status, ae.Message, nil
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.status, s.err.Error(), nil
		}
	}

	// Outbound API failures keep their own wording: the caller shows it.
	var aiErr *assistant.APIError
	if errors.As(err, &aiErr) {
		return fiber.StatusBadGateway, aiErr.Error(), nil
	}
	var mailErr *email.APIError
	if errors.As(err, &mailErr) {
		return fiber.StatusBadGateway, mailErr.Error(), nil
	}
	var storeErr *storage.Error
	if errors.As(err, &storeErr) {
		return fiber.StatusBadGateway, storeErr.Error(), nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 {
			status = fiber.StatusInternalServerError
		}

		if status >= 500 && status != fiber.StatusServiceUnavailable {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
