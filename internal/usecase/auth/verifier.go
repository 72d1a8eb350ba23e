package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/pkg/jwt"
	"mammy-coker-hub/internal/pkg/logging"
)

var (
	ErrTokenExpired = &Error{Status: http.StatusUnauthorized, Message: "Token expired"}
	ErrTokenInvalid = &Error{Status: http.StatusUnauthorized, Message: "Invalid token"}
)

// Verifier turns an access token into the acting user without a round trip
// to the identity provider. Both providers sign with the configured secret.
type Verifier struct {
	tokens jwt.Service
	roles  user.RoleRepository
	logger *logging.Logger
}

func NewVerifier(tokens jwt.Service, roles user.RoleRepository, logger *logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Verifier{tokens: tokens, roles: roles, logger: logger}
}

// Authenticate validates token and looks up the role record. A missing or
// unreadable role record degrades to the default role.
func (v *Verifier) Authenticate(ctx context.Context, token string) (user.Actor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Actor{}, ErrNotAuthenticated
	}

	claims, err := v.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return user.Actor{}, ErrTokenExpired
		}
		return user.Actor{}, ErrTokenInvalid
	}
	if !jwt.IsAccessToken(claims) {
		return user.Actor{}, ErrTokenInvalid
	}
	id, err := claims.UserID()
	if err != nil {
		return user.Actor{}, ErrTokenInvalid
	}

	actor := user.Actor{ID: id, Email: claims.Email, Role: user.DefaultRole}
	role, err := v.roles.GetRole(ctx, id)
	switch {
	case err == nil:
		actor.Role = role
	case errors.Is(err, user.ErrRoleNotFound):
	default:
		v.logger.Warn("role lookup failed", "user_id", id, "error", err)
	}
	return actor, nil
}
