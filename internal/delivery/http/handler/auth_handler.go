package handler

import (
	"context"

	"mammy-coker-hub/internal/delivery/http/dto"
	"mammy-coker-hub/internal/delivery/http/middleware"
	"mammy-coker-hub/internal/pkg/response"
	"mammy-coker-hub/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (auth.Result, error)
	SignUp(ctx context.Context, in auth.SignUpInput) (auth.Result, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPassword(ctx context.Context, email string) error
	SignInWithOAuth(provider string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (auth.Result, error)
	CurrentUser(ctx context.Context, accessToken string) (auth.ViewUser, error)
	UpdatePassword(ctx context.Context, accessToken, password, confirm string) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterRoutes mounts the auth routes. The session routes run behind authed.
func (h *AuthHandler) RegisterRoutes(r fiber.Router, authed fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/signin", h.SignIn)
	r.Post("/signup", h.SignUp)
	r.Post("/reset-password", h.ResetPassword)
	r.Post("/refresh", h.Refresh)
	r.Get("/oauth/:provider", h.OAuth)

	r.Post("/signout", authed, h.SignOut)
	r.Get("/me", authed, h.Me)
	r.Put("/password", authed, h.UpdatePassword)
}

func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var req dto.SignInRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.svc.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.svc.SignUp(c.Context(), auth.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		FullName:        req.FullName,
	})
	if err != nil {
		return err
	}

	msg := "Account created"
	if res.Session == nil {
		msg = "Check your email to confirm your account"
	}
	return response.Success(c, fiber.StatusCreated, msg, res)
}

func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	if err := h.svc.SignOut(c.Context(), middleware.TokenFrom(c)); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Signed out", nil)
}

func (h *AuthHandler) ResetPassword(c fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.svc.ResetPassword(c.Context(), req.Email); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Password reset email sent", nil)
}

func (h *AuthHandler) OAuth(c fiber.Ctx) error {
	provider := c.Params("provider")
	u, err := h.svc.SignInWithOAuth(provider)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.OAuthResponse{Provider: provider, URL: u})
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := h.svc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	u, err := h.svc.CurrentUser(c.Context(), middleware.TokenFrom(c))
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, u)
}

func (h *AuthHandler) UpdatePassword(c fiber.Ctx) error {
	var req dto.UpdatePasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.svc.UpdatePassword(c.Context(), middleware.TokenFrom(c), req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Password updated", nil)
}
