package auth

import (
	"errors"
	"net/http"
	"strings"

	"mammy-coker-hub/internal/identity"
)

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgAlreadyRegistered  = "An account with this email already exists"
	msgUnavailable        = "Authentication service is unavailable"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Error is what callers show the user. Status follows the provider's status
// when there is one.
type Error struct {
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// translate maps provider failures to user-facing messages. Two provider
// messages are reworded, every other message is passed through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	ie, ok := identity.AsError(err)
	if !ok {
		if errors.Is(err, identity.ErrOAuthUnsupported) {
			return &Error{Status: http.StatusBadRequest, Message: "This sign-in method is not available", Cause: err}
		}
		return &Error{Status: http.StatusBadGateway, Message: msgUnavailable, Cause: err}
	}

	status := ie.Status
	if status == 0 {
		status = http.StatusBadRequest
	}

	msg := ie.Message
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid login credentials"):
		msg = MsgInvalidCredentials
	case strings.Contains(lower, "already registered"):
		msg = MsgAlreadyRegistered
	}
	return &Error{Status: status, Message: msg, Cause: err}
}

// AsError unwraps the user-facing auth error, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
