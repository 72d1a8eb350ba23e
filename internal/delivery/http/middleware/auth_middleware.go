package middleware

import (
	"context"
	"strings"

	"mammy-coker-hub/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxActorKey = "actor"
	CtxTokenKey = "access_token"
)

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (user.Actor, error)
}

type AuthMiddleware struct {
	auth TokenAuthenticator
}

func NewAuthMiddleware(auth TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Middleware rejects requests without a valid bearer token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		actor, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			return err
		}

		c.Locals(CtxActorKey, actor)
		c.Locals(CtxTokenKey, token)
		return c.Next()
	}
}

// Optional attaches the actor when a valid token is present and lets
// anonymous requests through.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c fiber.Ctx) error {
		if token, ok := bearerTokenFromHeader(c.Get("Authorization")); ok {
			if actor, err := m.auth.Authenticate(c.Context(), token); err == nil {
				c.Locals(CtxActorKey, actor)
				c.Locals(CtxTokenKey, token)
			}
		}
		return c.Next()
	}
}

// RequireRole must run after Middleware.
func RequireRole(roles ...user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		if !actor.Is(roles...) {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}
		return c.Next()
	}
}

func ActorFrom(c fiber.Ctx) (user.Actor, bool) {
	actor, ok := c.Locals(CtxActorKey).(user.Actor)
	return actor, ok
}

func TokenFrom(c fiber.Ctx) string {
	token, _ := c.Locals(CtxTokenKey).(string)
	return token
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

// BearerToken exposes header parsing to handlers that read the token
// without requiring it.
func BearerToken(c fiber.Ctx) string {
	token, _ := bearerTokenFromHeader(c.Get("Authorization"))
	return token
}
