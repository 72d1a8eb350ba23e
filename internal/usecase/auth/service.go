package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/identity"
	"mammy-coker-hub/internal/pkg/logging"
)

// AuthMailer sends the branded auth emails. Any error makes the caller fall
// back to the provider's own delivery.
type AuthMailer interface {
	SendAuthEmail(ctx context.Context, email string, t identity.LinkType, redirectTo string) error
}

type ViewProfile struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// ViewUser is the signed-in user as the UI sees it.
type ViewUser struct {
	ID      uuid.UUID   `json:"id"`
	Email   string      `json:"email"`
	Role    user.Role   `json:"role"`
	Profile ViewProfile `json:"profile"`
}

type Result struct {
	User    ViewUser          `json:"user"`
	Session *identity.Session `json:"session,omitempty"`
}

type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
	FullName        string
}

type Service struct {
	provider  identity.Provider
	profiles  user.ProfileRepository
	roles     user.RoleRepository
	mailer    AuthMailer
	publicURL string
	logger    *logging.Logger

	lookupTimeout time.Duration
}

func NewService(provider identity.Provider, profiles user.ProfileRepository, roles user.RoleRepository, mailer AuthMailer, publicURL string, logger *logging.Logger) *Service {
	return &Service{
		provider:      provider,
		profiles:      profiles,
		roles:         roles,
		mailer:        mailer,
		publicURL:     strings.TrimRight(publicURL, "/"),
		logger:        logger,
		lookupTimeout: 3 * time.Second,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Result, error) {
	e := validation.Errors{}
	if !validation.IsEmail(email) {
		e.Add("email", "Please enter a valid email address")
	}
	if password == "" {
		e.Add("password", "Password is required")
	}
	if err := e.Err(); err != nil {
		return Result{}, err
	}

	sess, err := s.provider.SignInWithPassword(ctx, normalizeEmail(email), password)
	if err != nil {
		return Result{}, translate(err)
	}
	return Result{User: s.Enrich(ctx, sess.User), Session: &sess}, nil
}

func (in SignUpInput) Validate() error {
	e := validation.Errors{}
	if !validation.IsEmail(in.Email) {
		e.Add("email", "Please enter a valid email address")
	}
	if len(in.Password) < 8 {
		e.Add("password", "Password must be at least 8 characters")
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		e.Add("confirmPassword", "Passwords do not match")
	}
	if !validation.OneOf(in.Role, string(user.RoleProfessional), string(user.RoleEmployer)) {
		e.Add("role", "Please choose professional or employer")
	}
	return e.Err()
}

// SignUp registers the account and creates its profile and role rows. When
// the provider wants the address confirmed first, the result has no session.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	email := normalizeEmail(in.Email)
	role := user.Role(in.Role)
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = localPart(email)
	}

	u, sess, err := s.provider.SignUp(ctx, identity.SignUpParams{
		Email:      email,
		Password:   in.Password,
		Metadata:   map[string]any{"role": string(role), "full_name": name},
		RedirectTo: s.publicURL + "/",
	})
	if err != nil {
		return Result{}, translate(err)
	}

	if _, err := s.profiles.UpsertProfile(ctx, user.Profile{UserID: u.ID, Email: email, FullName: name}); err != nil {
		s.logger.Warn("create profile on signup failed", "user_id", u.ID, "error", err)
	}
	if err := s.roles.SetRole(ctx, u.ID, role); err != nil {
		s.logger.Warn("assign role on signup failed", "user_id", u.ID, "error", err)
	}

	return Result{
		User: ViewUser{
			ID:      u.ID,
			Email:   email,
			Role:    role,
			Profile: ViewProfile{Name: name},
		},
		Session: sess,
	}, nil
}

func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return nil
	}
	return translate(s.provider.SignOut(ctx, accessToken))
}

// ResetPassword sends the branded recovery email and falls back to the
// provider's default email when that fails.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	if !validation.IsEmail(email) {
		return validation.Errors{"email": "Please enter a valid email address"}
	}
	email = normalizeEmail(email)
	redirect := s.publicURL + "/reset-password"

	if s.mailer != nil {
		err := s.mailer.SendAuthEmail(ctx, email, identity.LinkRecovery, redirect)
		if err == nil {
			return nil
		}
		s.logger.Warn("custom recovery email failed, using provider default", "error", err)
	}

	return translate(s.provider.ResetPasswordForEmail(ctx, email, redirect))
}

// SignInWithOAuth returns the URL the browser must visit to sign in with a
// federated provider.
func (s *Service) SignInWithOAuth(provider string) (string, error) {
	p, err := identity.ParseOAuthProvider(provider)
	if err != nil {
		return "", translate(err)
	}
	u, err := s.provider.AuthorizeURL(p, s.publicURL+"/dashboard")
	if err != nil {
		return "", translate(err)
	}
	return u, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Result, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return Result{}, validation.Errors{"refresh_token": "Refresh token is required"}
	}
	sess, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		return Result{}, translate(err)
	}
	return Result{User: s.Enrich(ctx, sess.User), Session: &sess}, nil
}

func (s *Service) CurrentUser(ctx context.Context, accessToken string) (ViewUser, error) {
	if strings.TrimSpace(accessToken) == "" {
		return ViewUser{}, ErrNotAuthenticated
	}
	u, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return ViewUser{}, translate(err)
	}
	return s.Enrich(ctx, u), nil
}

func (s *Service) UpdatePassword(ctx context.Context, accessToken, password, confirm string) error {
	e := validation.Errors{}
	if len(password) < 8 {
		e.Add("password", "Password must be at least 8 characters")
	}
	if confirm != "" && confirm != password {
		e.Add("confirmPassword", "Passwords do not match")
	}
	if err := e.Err(); err != nil {
		return err
	}
	_, err := s.provider.UpdatePassword(ctx, accessToken, password)
	return translate(err)
}

// Enrich merges the profile and role records into the view model. Both reads
// run concurrently and any failure degrades to defaults.
func (s *Service) Enrich(ctx context.Context, u identity.User) ViewUser {
	v := ViewUser{
		ID:      u.ID,
		Email:   u.Email,
		Role:    user.DefaultRole,
		Profile: ViewProfile{Name: localPart(u.Email)},
	}
	if r, ok := user.ParseRole(u.MetadataString("role")); ok {
		v.Role = r
	}

	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	var (
		profile user.Profile
		role    user.Role
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.GetProfile(gctx, u.ID)
		if err != nil {
			if !errors.Is(err, user.ErrNotFound) {
				s.logger.Warn("profile lookup failed", "user_id", u.ID, "error", err)
			}
			return nil
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		r, err := s.roles.GetRole(gctx, u.ID)
		if err != nil {
			if !errors.Is(err, user.ErrRoleNotFound) {
				s.logger.Warn("role lookup failed", "user_id", u.ID, "error", err)
			}
			return nil
		}
		role = r
		return nil
	})
	_ = g.Wait()

	if role != "" {
		v.Role = role
	}
	if name := strings.TrimSpace(profile.FullName); name != "" {
		v.Profile.Name = name
	}
	v.Profile.Avatar = profile.AvatarURL
	return v
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
