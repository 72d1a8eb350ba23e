// Package identity describes the external identity provider the API delegates
// sign-in, session issuance and password recovery to.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOAuthUnsupported = errors.New("oauth provider not supported")
	ErrInvalidLinkType  = errors.New("invalid link type")
)

type User struct {
	ID               uuid.UUID      `json:"id"`
	Email            string         `json:"email"`
	Metadata         map[string]any `json:"user_metadata,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// MetadataString returns a string value from the user's metadata, or "".
func (u User) MetadataString(key string) string {
	if u.Metadata == nil {
		return ""
	}
	s, _ := u.Metadata[key].(string)
	return s
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

type OAuthProvider string

const (
	OAuthGoogle  OAuthProvider = "google"
	OAuthGitHub  OAuthProvider = "github"
	OAuthTwitter OAuthProvider = "twitter"
)

// ParseOAuthProvider accepts the provider names the UI offers; "x" is an
// alias for twitter.
func ParseOAuthProvider(s string) (OAuthProvider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google":
		return OAuthGoogle, nil
	case "github":
		return OAuthGitHub, nil
	case "twitter", "x":
		return OAuthTwitter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrOAuthUnsupported, s)
	}
}

type LinkType string

const (
	LinkSignup    LinkType = "signup"
	LinkInvite    LinkType = "invite"
	LinkRecovery  LinkType = "recovery"
	LinkMagicLink LinkType = "magiclink"
)

type Link struct {
	Type       LinkType `json:"type"`
	Email      string   `json:"email"`
	ActionLink string   `json:"action_link"`
}

type SignUpParams struct {
	Email      string
	Password   string
	Metadata   map[string]any
	RedirectTo string
}

// Provider is implemented by the hosted client and the local store.
//
// SignUp returns a nil session when the provider requires the address to be
// confirmed before the first sign-in.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, p SignUpParams) (User, *Session, error)
	SignOut(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	GetUser(ctx context.Context, accessToken string) (User, error)
	UpdatePassword(ctx context.Context, accessToken, password string) (User, error)
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	AuthorizeURL(provider OAuthProvider, redirectTo string) (string, error)
	GenerateLink(ctx context.Context, t LinkType, email, redirectTo string) (Link, error)
}

// Error is the provider's error shape. Message is meant to be shown to users.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity: %s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("identity: %s (%d)", e.Message, e.Status)
}

// Provider error messages the API layer recognises.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgAlreadyRegistered  = "User already registered"
	MsgInvalidToken       = "Invalid or expired token"
	MsgWeakPassword       = "Password should be at least 8 characters"
)

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
