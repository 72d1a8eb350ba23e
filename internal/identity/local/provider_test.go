package local

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/identity"
	jwtpkg "mammy-coker-hub/internal/pkg/jwt"
)

type fakeCredentials struct {
	mu   sync.Mutex
	byID map[uuid.UUID]user.Credential
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{byID: map[uuid.UUID]user.Credential{}}
}

func (f *fakeCredentials) Create(_ context.Context, c user.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == c.Email {
			return user.ErrEmailTaken
		}
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCredentials) GetByID(_ context.Context, id uuid.UUID) (user.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return user.Credential{}, user.ErrNotFound
	}
	return c, nil
}

func (f *fakeCredentials) GetByEmail(_ context.Context, email string) (user.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return user.Credential{}, user.ErrNotFound
}

func (f *fakeCredentials) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	c.PasswordHash = hash
	f.byID[id] = c
	return nil
}

func newProvider() *Provider {
	tokens := jwtpkg.NewHMACService("access", "refresh", time.Hour, 24*time.Hour)
	return New(newFakeCredentials(), tokens, "http://app.local", nil)
}

func identityError(t *testing.T, err error) *identity.Error {
	t.Helper()
	e, ok := identity.AsError(err)
	if !ok {
		t.Fatalf("expected *identity.Error, got %T (%v)", err, err)
	}
	return e
}

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	p := newProvider()

	u, s, err := p.SignUp(ctx, identity.SignUpParams{Email: " New@Example.com ", Password: "password1", Metadata: map[string]any{"role": "employer"}})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if s == nil || s.AccessToken == "" || u.Email != "new@example.com" {
		t.Fatalf("unexpected sign up result %+v %+v", u, s)
	}
	if u.MetadataString("role") != "employer" {
		t.Fatalf("expected metadata to be echoed")
	}

	got, err := p.SignInWithPassword(ctx, "new@example.com", "password1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if got.User.ID != u.ID {
		t.Fatalf("signed in as %s, want %s", got.User.ID, u.ID)
	}

	fetched, err := p.GetUser(ctx, got.AccessToken)
	if err != nil || fetched.ID != u.ID {
		t.Fatalf("get user: %v %+v", err, fetched)
	}
}

func TestSignUpDuplicate(t *testing.T) {
	ctx := context.Background()
	p := newProvider()
	_, _, _ = p.SignUp(ctx, identity.SignUpParams{Email: "a@b.com", Password: "password1"})

	_, _, err := p.SignUp(ctx, identity.SignUpParams{Email: "a@b.com", Password: "password2"})
	if e := identityError(t, err); e.Message != identity.MsgAlreadyRegistered {
		t.Fatalf("unexpected message %q", e.Message)
	}
}

func TestSignUpWeakPassword(t *testing.T) {
	_, _, err := newProvider().SignUp(context.Background(), identity.SignUpParams{Email: "a@b.com", Password: "short"})
	if e := identityError(t, err); e.Code != "weak_password" {
		t.Fatalf("unexpected code %q", e.Code)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	p := newProvider()
	_, _, _ = p.SignUp(ctx, identity.SignUpParams{Email: "a@b.com", Password: "password1"})

	for _, pw := range []string{"password2", ""} {
		_, err := p.SignInWithPassword(ctx, "a@b.com", pw)
		if e := identityError(t, err); e.Message != identity.MsgInvalidCredentials {
			t.Fatalf("unexpected message %q", e.Message)
		}
	}
	_, err := p.SignInWithPassword(ctx, "nobody@b.com", "password1")
	if e := identityError(t, err); e.Message != identity.MsgInvalidCredentials {
		t.Fatalf("unknown email should look like bad credentials, got %q", e.Message)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	p := newProvider()
	_, s, _ := p.SignUp(ctx, identity.SignUpParams{Email: "a@b.com", Password: "password1"})

	if _, err := p.Refresh(ctx, s.AccessToken); err == nil {
		t.Fatalf("expected access token to be rejected for refresh")
	}
	next, err := p.Refresh(ctx, s.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.User.ID != s.User.ID {
		t.Fatalf("refresh returned another user")
	}
}

func TestRecoveryLinkUpdatesPassword(t *testing.T) {
	ctx := context.Background()
	p := newProvider()
	_, _, _ = p.SignUp(ctx, identity.SignUpParams{Email: "a@b.com", Password: "password1"})

	link, err := p.GenerateLink(ctx, identity.LinkRecovery, "a@b.com", "http://app.local/reset-password")
	if err != nil {
		t.Fatalf("generate link: %v", err)
	}
	if !strings.HasPrefix(link.ActionLink, "http://app.local/reset-password#") {
		t.Fatalf("unexpected link %s", link.ActionLink)
	}
	frag, _ := url.ParseQuery(link.ActionLink[strings.Index(link.ActionLink, "#")+1:])
	if frag.Get("type") != "recovery" {
		t.Fatalf("unexpected link type %q", frag.Get("type"))
	}

	if _, err := p.UpdatePassword(ctx, frag.Get("access_token"), "newpassword"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := p.SignInWithPassword(ctx, "a@b.com", "newpassword"); err != nil {
		t.Fatalf("sign in with new password: %v", err)
	}
}

func TestResetPasswordUnknownEmailIsSilent(t *testing.T) {
	if err := newProvider().ResetPasswordForEmail(context.Background(), "ghost@b.com", ""); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestOAuthUnsupported(t *testing.T) {
	if _, err := newProvider().AuthorizeURL(identity.OAuthGoogle, ""); !errors.Is(err, identity.ErrOAuthUnsupported) {
		t.Fatalf("expected ErrOAuthUnsupported, got %v", err)
	}
}
