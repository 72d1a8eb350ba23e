package gotrue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mammy-coker-hub/internal/identity"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "anon", "service", nil)
}

func TestSignInWithPassword(t *testing.T) {
	id := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get("apikey") != "anon" {
			t.Errorf("missing apikey header")
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.com" || body["password"] != "secret123" {
			t.Errorf("unexpected body %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at",
			"refresh_token": "rt",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user":          map[string]any{"id": id, "email": "a@b.com"},
		})
	})

	s, err := c.SignInWithPassword(context.Background(), "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if s.AccessToken != "at" || s.RefreshToken != "rt" || s.User.ID != id {
		t.Fatalf("unexpected session %+v", s)
	}
	if s.ExpiresAt.IsZero() {
		t.Fatalf("expected expiry to be set")
	}
}

func TestProviderErrorIsDecoded(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignInWithPassword(context.Background(), "a@b.com", "wrong")
	e, ok := identity.AsError(err)
	if !ok {
		t.Fatalf("expected *identity.Error, got %T", err)
	}
	if e.Status != http.StatusBadRequest || e.Message != identity.MsgInvalidCredentials {
		t.Fatalf("unexpected error %+v", e)
	}
}

func TestSignUpWithoutSessionWhenConfirmationRequired(t *testing.T) {
	id := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/signup") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("redirect_to") != "http://app/" {
			t.Errorf("missing redirect_to")
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		data, _ := body["data"].(map[string]any)
		if data["role"] != "employer" {
			t.Errorf("expected role metadata, got %v", body["data"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "email": "new@b.com"})
	})

	u, s, err := c.SignUp(context.Background(), identity.SignUpParams{
		Email:      "new@b.com",
		Password:   "password1",
		Metadata:   map[string]any{"role": "employer"},
		RedirectTo: "http://app/",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil session")
	}
	if u.ID != id || u.Email != "new@b.com" {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestSignUpWithSession(t *testing.T) {
	id := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at",
			"expires_in":   60,
			"user":         map[string]any{"id": id, "email": "new@b.com"},
		})
	})

	u, s, err := c.SignUp(context.Background(), identity.SignUpParams{Email: "new@b.com", Password: "password1"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if s == nil || s.AccessToken != "at" || u.ID != id {
		t.Fatalf("unexpected result %+v %+v", u, s)
	}
}

func TestGenerateLinkUsesServiceKey(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/admin/generate_link" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer service" {
			t.Errorf("expected service key bearer, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"properties": map[string]any{"action_link": "https://id.example/verify?token=x"},
		})
	})

	l, err := c.GenerateLink(context.Background(), identity.LinkRecovery, "a@b.com", "")
	if err != nil {
		t.Fatalf("generate link: %v", err)
	}
	if l.ActionLink != "https://id.example/verify?token=x" {
		t.Fatalf("unexpected link %+v", l)
	}

	if _, err := c.GenerateLink(context.Background(), identity.LinkType("bogus"), "a@b.com", ""); !errors.Is(err, identity.ErrInvalidLinkType) {
		t.Fatalf("expected ErrInvalidLinkType, got %v", err)
	}
}

func TestAuthorizeURL(t *testing.T) {
	c := New("https://id.example", "anon", "", nil)

	got, err := c.AuthorizeURL(identity.OAuthGitHub, "https://app/dashboard")
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	want := "https://id.example/auth/v1/authorize?provider=github&redirect_to=https%3A%2F%2Fapp%2Fdashboard"
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}

	if _, err := c.AuthorizeURL("myspace", ""); !errors.Is(err, identity.ErrOAuthUnsupported) {
		t.Fatalf("expected ErrOAuthUnsupported, got %v", err)
	}
}
