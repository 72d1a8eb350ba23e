package auth

import (
	"context"
	"reflect"
	"testing"

	"mammy-coker-hub/internal/identity"
)

func TestClient_EventsAndState(t *testing.T) {
	f := newFixture()
	c := NewClient(f.svc)

	if !c.Loading() {
		t.Fatalf("client should be loading before Init")
	}

	var events []Event
	unsubscribe := c.OnAuthStateChange(func(ev Event, _ State) {
		events = append(events, ev)
	})

	ctx := context.Background()
	c.Init(ctx, nil)
	if c.Loading() || c.User() != nil {
		t.Fatalf("unexpected state after empty Init: %+v", c.State())
	}

	if err := c.SignIn(ctx, "jane.doe@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if c.User() == nil || c.Session().AccessToken != "at" {
		t.Fatalf("expected signed-in state")
	}

	if err := c.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if c.Session().AccessToken != "at2" {
		t.Fatalf("expected refreshed token")
	}

	if err := c.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if c.User() != nil || c.Session() != nil {
		t.Fatalf("expected cleared state")
	}

	want := []Event{EventInitialSession, EventSignedIn, EventTokenRefreshed, EventSignedOut}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}

	unsubscribe()
	unsubscribe()
	_ = c.SignIn(ctx, "jane.doe@example.com", "pw")
	if len(events) != len(want) {
		t.Fatalf("listener called after unsubscribe")
	}
}

func TestClient_InitDropsRejectedSession(t *testing.T) {
	f := newFixture()
	c := NewClient(f.svc)

	c.Init(context.Background(), &identity.Session{AccessToken: "stale"})
	if c.User() != nil || c.Loading() {
		t.Fatalf("expected empty, loaded state: %+v", c.State())
	}

	c.Init(context.Background(), &identity.Session{AccessToken: "at", RefreshToken: "rt"})
	if c.User() == nil || c.User().ID != f.provider.user.ID {
		t.Fatalf("expected restored user")
	}
}

func TestClient_FailedSignInKeepsState(t *testing.T) {
	f := newFixture()
	f.provider.signInErr = &identity.Error{Status: 400, Message: identity.MsgInvalidCredentials}
	c := NewClient(f.svc)
	c.Init(context.Background(), nil)

	if err := c.SignIn(context.Background(), "jane.doe@example.com", "bad"); err == nil {
		t.Fatalf("expected error")
	}
	if c.User() != nil {
		t.Fatalf("state should be unchanged")
	}
	if err := c.Refresh(context.Background()); err != ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
