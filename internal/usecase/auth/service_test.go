package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/identity"
)

type fakeProvider struct {
	identity.Provider

	signInErr  error
	signUpErr  error
	resetErr   error
	resetCalls int
	user       identity.User
	noSession  bool
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, email, _ string) (identity.Session, error) {
	if f.signInErr != nil {
		return identity.Session{}, f.signInErr
	}
	return identity.Session{AccessToken: "at", RefreshToken: "rt", User: f.user}, nil
}

func (f *fakeProvider) SignUp(_ context.Context, p identity.SignUpParams) (identity.User, *identity.Session, error) {
	if f.signUpErr != nil {
		return identity.User{}, nil, f.signUpErr
	}
	u := identity.User{ID: f.user.ID, Email: p.Email, Metadata: p.Metadata}
	if f.noSession {
		return u, nil, nil
	}
	return u, &identity.Session{AccessToken: "at", User: u}, nil
}

func (f *fakeProvider) SignOut(context.Context, string) error { return nil }

func (f *fakeProvider) Refresh(_ context.Context, rt string) (identity.Session, error) {
	return identity.Session{AccessToken: "at2", RefreshToken: "rt2", User: f.user}, nil
}

func (f *fakeProvider) GetUser(_ context.Context, token string) (identity.User, error) {
	if token != "at" && token != "at2" {
		return identity.User{}, &identity.Error{Status: http.StatusUnauthorized, Message: identity.MsgInvalidToken}
	}
	return f.user, nil
}

func (f *fakeProvider) ResetPasswordForEmail(context.Context, string, string) error {
	f.resetCalls++
	return f.resetErr
}

func (f *fakeProvider) AuthorizeURL(p identity.OAuthProvider, redirectTo string) (string, error) {
	return "https://id.example/authorize?provider=" + string(p), nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]user.Profile
	err      error
}

func (f *fakeProfiles) GetProfile(_ context.Context, id uuid.UUID) (user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return user.Profile{}, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return user.Profile{}, user.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, p user.Profile) (user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profiles == nil {
		f.profiles = map[uuid.UUID]user.Profile{}
	}
	f.profiles[p.UserID] = p
	return p, nil
}

type fakeRoles struct {
	mu    sync.Mutex
	roles map[uuid.UUID]user.Role
	err   error
}

func (f *fakeRoles) GetRole(_ context.Context, id uuid.UUID) (user.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	r, ok := f.roles[id]
	if !ok {
		return "", user.ErrRoleNotFound
	}
	return r, nil
}

func (f *fakeRoles) SetRole(_ context.Context, id uuid.UUID, r user.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roles == nil {
		f.roles = map[uuid.UUID]user.Role{}
	}
	f.roles[id] = r
	return nil
}

type fakeMailer struct {
	err   error
	calls int
}

func (f *fakeMailer) SendAuthEmail(context.Context, string, identity.LinkType, string) error {
	f.calls++
	return f.err
}

type fixture struct {
	svc      *Service
	provider *fakeProvider
	profiles *fakeProfiles
	roles    *fakeRoles
	mailer   *fakeMailer
}

func newFixture() fixture {
	id := uuid.New()
	f := fixture{
		provider: &fakeProvider{user: identity.User{ID: id, Email: "jane.doe@example.com"}},
		profiles: &fakeProfiles{},
		roles:    &fakeRoles{},
		mailer:   &fakeMailer{},
	}
	f.svc = NewService(f.provider, f.profiles, f.roles, f.mailer, "http://app.local/", nil)
	return f
}

func TestSignIn_SubstitutesInvalidCredentials(t *testing.T) {
	f := newFixture()
	f.provider.signInErr = &identity.Error{Status: http.StatusBadRequest, Message: identity.MsgInvalidCredentials}

	_, err := f.svc.SignIn(context.Background(), "jane.doe@example.com", "wrong")
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *auth.Error, got %T", err)
	}
	if e.Message != MsgInvalidCredentials || e.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error %+v", e)
	}
}

func TestSignUp_SubstitutesAlreadyRegistered(t *testing.T) {
	f := newFixture()
	f.provider.signUpErr = &identity.Error{Status: http.StatusUnprocessableEntity, Message: identity.MsgAlreadyRegistered}

	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "jane.doe@example.com", Password: "password1", Role: "employer"})
	e, ok := AsError(err)
	if !ok || e.Message != MsgAlreadyRegistered {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestProviderMessagePassesThrough(t *testing.T) {
	f := newFixture()
	f.provider.signInErr = &identity.Error{Status: http.StatusTooManyRequests, Message: "Email rate limit exceeded"}

	_, err := f.svc.SignIn(context.Background(), "jane.doe@example.com", "pw")
	e, ok := AsError(err)
	if !ok || e.Message != "Email rate limit exceeded" || e.Status != http.StatusTooManyRequests {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestTransportFailureIsWrapped(t *testing.T) {
	f := newFixture()
	cause := errors.New("dial tcp: connection refused")
	f.provider.signInErr = cause

	_, err := f.svc.SignIn(context.Background(), "jane.doe@example.com", "pw")
	e, ok := AsError(err)
	if !ok || e.Status != http.StatusBadGateway {
		t.Fatalf("unexpected error %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved")
	}
}

func TestSignIn_ValidatesInput(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignIn(context.Background(), "not-an-email", "")
	var ve validation.Errors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, ok := ve["email"]; !ok {
		t.Fatalf("expected email error, got %v", ve)
	}
	if _, ok := ve["password"]; !ok {
		t.Fatalf("expected password error, got %v", ve)
	}
}

func TestSignIn_EnrichesFromProfileAndRole(t *testing.T) {
	f := newFixture()
	id := f.provider.user.ID
	_, _ = f.profiles.UpsertProfile(context.Background(), user.Profile{UserID: id, FullName: "Jane Doe", AvatarURL: "http://cdn/a.png"})
	_ = f.roles.SetRole(context.Background(), id, user.RoleEmployer)

	res, err := f.svc.SignIn(context.Background(), "jane.doe@example.com", "pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if res.User.Role != user.RoleEmployer || res.User.Profile.Name != "Jane Doe" || res.User.Profile.Avatar != "http://cdn/a.png" {
		t.Fatalf("unexpected user %+v", res.User)
	}
	if res.Session == nil || res.Session.AccessToken != "at" {
		t.Fatalf("expected session")
	}
}

func TestSignIn_LookupFailuresDegrade(t *testing.T) {
	f := newFixture()
	f.profiles.err = errors.New("db down")
	f.roles.err = errors.New("db down")

	res, err := f.svc.SignIn(context.Background(), "jane.doe@example.com", "pw")
	if err != nil {
		t.Fatalf("sign in must not fail on lookups: %v", err)
	}
	if res.User.Role != user.DefaultRole {
		t.Fatalf("expected default role, got %s", res.User.Role)
	}
	if res.User.Profile.Name != "jane.doe" {
		t.Fatalf("expected email local part, got %q", res.User.Profile.Name)
	}
}

func TestSignUp_CreatesProfileAndRole(t *testing.T) {
	f := newFixture()
	f.provider.noSession = true

	res, err := f.svc.SignUp(context.Background(), SignUpInput{
		Email:           "Jane.Doe@Example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		Role:            "employer",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if res.Session != nil {
		t.Fatalf("expected no session while confirmation is pending")
	}
	id := f.provider.user.ID
	if got, _ := f.roles.GetRole(context.Background(), id); got != user.RoleEmployer {
		t.Fatalf("role not stored, got %q", got)
	}
	p, err := f.profiles.GetProfile(context.Background(), id)
	if err != nil || p.FullName != "jane.doe" || p.Email != "jane.doe@example.com" {
		t.Fatalf("profile not stored: %+v %v", p, err)
	}
}

func TestSignUp_Validation(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "a@b.com", Password: "password1", ConfirmPassword: "password2", Role: "admin"})
	var ve validation.Errors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"confirmPassword", "role"} {
		if _, ok := ve[field]; !ok {
			t.Errorf("expected %s error", field)
		}
	}
}

func TestResetPassword_FallsBackToProvider(t *testing.T) {
	f := newFixture()
	f.mailer.err = errors.New("email api down")

	if err := f.svc.ResetPassword(context.Background(), "jane.doe@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if f.mailer.calls != 1 || f.provider.resetCalls != 1 {
		t.Fatalf("expected mailer then provider, got %d/%d", f.mailer.calls, f.provider.resetCalls)
	}
}

func TestResetPassword_CustomMailerSucceeds(t *testing.T) {
	f := newFixture()
	if err := f.svc.ResetPassword(context.Background(), "jane.doe@example.com"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if f.provider.resetCalls != 0 {
		t.Fatalf("provider default should not be used")
	}
}

func TestSignInWithOAuth(t *testing.T) {
	f := newFixture()
	u, err := f.svc.SignInWithOAuth("X")
	if err != nil {
		t.Fatalf("oauth: %v", err)
	}
	if u != "https://id.example/authorize?provider=twitter" {
		t.Fatalf("unexpected url %s", u)
	}
	if _, err := f.svc.SignInWithOAuth("myspace"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
