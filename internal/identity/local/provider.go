// Package local is a self-contained identity provider backed by the users
// table. It issues HMAC tokens and is meant for development, tests and
// single-node deployments; OAuth sign-in is not available.
package local

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/identity"
	jwtpkg "mammy-coker-hub/internal/pkg/jwt"
	"mammy-coker-hub/internal/pkg/logging"
)

const minPasswordLength = 8

type Provider struct {
	users     user.CredentialRepository
	tokens    jwtpkg.Service
	publicURL string
	logger    *logging.Logger
	now       func() time.Time
}

func New(users user.CredentialRepository, tokens jwtpkg.Service, publicURL string, logger *logging.Logger) *Provider {
	return &Provider{
		users:     users,
		tokens:    tokens,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

var (
	errInvalidCredentials = &identity.Error{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: identity.MsgInvalidCredentials}
	errAlreadyRegistered  = &identity.Error{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: identity.MsgAlreadyRegistered}
	errInvalidToken       = &identity.Error{Status: http.StatusUnauthorized, Code: "bad_jwt", Message: identity.MsgInvalidToken}
	errWeakPassword       = &identity.Error{Status: http.StatusUnprocessableEntity, Code: "weak_password", Message: identity.MsgWeakPassword}
	errUserNotFound       = &identity.Error{Status: http.StatusNotFound, Code: "user_not_found", Message: "User not found"}
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (identity.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return identity.Session{}, errInvalidCredentials
	}

	c, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return identity.Session{}, errInvalidCredentials
		}
		return identity.Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return identity.Session{}, errInvalidCredentials
	}

	return p.issue(c, nil)
}

func (p *Provider) SignUp(ctx context.Context, in identity.SignUpParams) (identity.User, *identity.Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return identity.User{}, nil, &identity.Error{Status: http.StatusUnprocessableEntity, Code: "validation_failed", Message: "Email is required"}
	}
	if len(strings.TrimSpace(in.Password)) < minPasswordLength {
		return identity.User{}, nil, errWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return identity.User{}, nil, err
	}

	now := p.now().UTC()
	c := user.Credential{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.users.Create(ctx, c); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return identity.User{}, nil, errAlreadyRegistered
		}
		return identity.User{}, nil, err
	}

	s, err := p.issue(c, in.Metadata)
	if err != nil {
		return identity.User{}, nil, err
	}
	return s.User, &s, nil
}

// SignOut only checks the token; issued tokens stay valid until they expire.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	if _, err := p.validate(accessToken, jwtpkg.IsAccessToken); err != nil {
		return err
	}
	return nil
}

func (p *Provider) Refresh(ctx context.Context, refreshToken string) (identity.Session, error) {
	id, err := p.validate(refreshToken, jwtpkg.IsRefreshToken)
	if err != nil {
		return identity.Session{}, err
	}
	c, err := p.credential(ctx, id)
	if err != nil {
		return identity.Session{}, err
	}
	return p.issue(c, nil)
}

func (p *Provider) GetUser(ctx context.Context, accessToken string) (identity.User, error) {
	id, err := p.validate(accessToken, jwtpkg.IsAccessToken)
	if err != nil {
		return identity.User{}, err
	}
	c, err := p.credential(ctx, id)
	if err != nil {
		return identity.User{}, err
	}
	return toUser(c, nil), nil
}

// UpdatePassword accepts an access token or a recovery token from a reset link.
func (p *Provider) UpdatePassword(ctx context.Context, accessToken, password string) (identity.User, error) {
	id, err := p.validate(accessToken, func(c jwtpkg.Claims) bool {
		return jwtpkg.IsAccessToken(c) || jwtpkg.IsRecoveryToken(c)
	})
	if err != nil {
		return identity.User{}, err
	}
	if len(strings.TrimSpace(password)) < minPasswordLength {
		return identity.User{}, errWeakPassword
	}

	c, err := p.credential(ctx, id)
	if err != nil {
		return identity.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return identity.User{}, err
	}
	if err := p.users.UpdatePasswordHash(ctx, id, string(hash)); err != nil {
		return identity.User{}, err
	}
	return toUser(c, nil), nil
}

// ResetPasswordForEmail has no mail transport of its own: the recovery link
// is written to the log. Unknown addresses succeed silently.
func (p *Provider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	link, err := p.GenerateLink(ctx, identity.LinkRecovery, email, redirectTo)
	if err != nil {
		var ie *identity.Error
		if errors.As(err, &ie) && ie.Status == http.StatusNotFound {
			return nil
		}
		return err
	}
	p.logger.Info("password recovery link issued", "email", link.Email, "link", link.ActionLink)
	return nil
}

func (p *Provider) AuthorizeURL(provider identity.OAuthProvider, redirectTo string) (string, error) {
	return "", identity.ErrOAuthUnsupported
}

// GenerateLink builds "<redirect>#access_token=...&type=..." for an existing
// account. Recovery links carry a short-lived recovery token.
func (p *Provider) GenerateLink(ctx context.Context, t identity.LinkType, email, redirectTo string) (identity.Link, error) {
	switch t {
	case identity.LinkSignup, identity.LinkInvite, identity.LinkRecovery, identity.LinkMagicLink:
	default:
		return identity.Link{}, identity.ErrInvalidLinkType
	}

	c, err := p.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return identity.Link{}, errUserNotFound
		}
		return identity.Link{}, err
	}

	var token string
	if t == identity.LinkRecovery {
		token, err = p.tokens.GenerateRecoveryToken(c.ID, c.Email)
	} else {
		token, err = p.tokens.GenerateAccessToken(c.ID, c.Email)
	}
	if err != nil {
		return identity.Link{}, err
	}

	base := strings.TrimSpace(redirectTo)
	if base == "" {
		base = p.publicURL + "/"
	}
	frag := url.Values{}
	frag.Set("access_token", token)
	frag.Set("type", string(t))

	return identity.Link{Type: t, Email: c.Email, ActionLink: base + "#" + frag.Encode()}, nil
}

func (p *Provider) validate(token string, accept func(jwtpkg.Claims) bool) (uuid.UUID, error) {
	claims, err := p.tokens.ValidateToken(strings.TrimSpace(token))
	if err != nil || !accept(claims) {
		return uuid.Nil, errInvalidToken
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, errInvalidToken
	}
	return id, nil
}

func (p *Provider) credential(ctx context.Context, id uuid.UUID) (user.Credential, error) {
	c, err := p.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Credential{}, errUserNotFound
		}
		return user.Credential{}, err
	}
	return c, nil
}

func (p *Provider) issue(c user.Credential, metadata map[string]any) (identity.Session, error) {
	access, err := p.tokens.GenerateAccessToken(c.ID, c.Email)
	if err != nil {
		return identity.Session{}, err
	}
	refresh, err := p.tokens.GenerateRefreshToken(c.ID)
	if err != nil {
		return identity.Session{}, err
	}

	ttl := p.tokens.AccessExpiresIn()
	return identity.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(ttl.Seconds()),
		ExpiresAt:    p.now().UTC().Add(ttl),
		User:         toUser(c, metadata),
	}, nil
}

func toUser(c user.Credential, metadata map[string]any) identity.User {
	created := c.CreatedAt
	return identity.User{
		ID:               c.ID,
		Email:            c.Email,
		Metadata:         metadata,
		EmailConfirmedAt: &created,
		CreatedAt:        c.CreatedAt,
	}
}

var _ identity.Provider = (*Provider)(nil)
