package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/identity"
	"mammy-coker-hub/internal/infrastructure/email"
)

type fakeLinks struct {
	gotType     identity.LinkType
	gotRedirect string
	link        string
	err         error
}

func (f *fakeLinks) GenerateLink(_ context.Context, t identity.LinkType, addr, redirectTo string) (identity.Link, error) {
	f.gotType = t
	f.gotRedirect = redirectTo
	if f.err != nil {
		return identity.Link{}, f.err
	}
	return identity.Link{Type: t, Email: addr, ActionLink: f.link}, nil
}

type fakeSender struct {
	sent []email.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m email.Message) (email.Receipt, error) {
	if f.err != nil {
		return email.Receipt{}, f.err
	}
	f.sent = append(f.sent, m)
	return email.Receipt{ID: "msg_1"}, nil
}

func newTestService(links *fakeLinks, sender *fakeSender) *Service {
	s := NewService(links, sender, "Mammy Coker Hub", "", "https://hub.example.sl/", nil)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestSend_Recovery(t *testing.T) {
	links := &fakeLinks{link: "https://id.example/verify?token=abc&type=recovery"}
	sender := &fakeSender{}
	svc := newTestService(links, sender)

	rec, err := svc.Send(context.Background(), Request{Email: " Aminata@Example.com ", Type: TypeRecovery, RedirectTo: "https://hub.example.sl/reset-password"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.ID != "msg_1" || links.gotType != identity.LinkRecovery || links.gotRedirect != "https://hub.example.sl/reset-password" {
		t.Fatalf("unexpected call rec=%+v type=%s redirect=%s", rec, links.gotType, links.gotRedirect)
	}

	m := sender.sent[0]
	if m.From != "Mammy Coker Hub <onboarding@resend.dev>" || m.To[0] != "aminata@example.com" {
		t.Fatalf("unexpected envelope %+v", m)
	}
	if m.Subject != "Mammy Coker Hub - Reset Your Password" {
		t.Fatalf("unexpected subject %q", m.Subject)
	}
	if !strings.Contains(m.HTML, "Reset Password") || !strings.Contains(m.HTML, "2026 Mammy Coker Hub") {
		t.Fatalf("unexpected body")
	}
	if !strings.Contains(m.HTML, "token=abc&amp;type=recovery") {
		t.Fatalf("expected the action link in the body")
	}
}

func TestSend_UnknownTypeUsesSignupAndInviteLink(t *testing.T) {
	links := &fakeLinks{link: "https://id.example/verify?token=x"}
	sender := &fakeSender{}
	svc := newTestService(links, sender)

	if _, err := svc.Send(context.Background(), Request{Email: "a@b.sl", Type: "welcome"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if links.gotType != identity.LinkInvite {
		t.Fatalf("expected invite link, got %s", links.gotType)
	}
	if links.gotRedirect != "https://hub.example.sl/auth" {
		t.Fatalf("expected default redirect, got %q", links.gotRedirect)
	}
	if sender.sent[0].Subject != "Welcome to Mammy Coker Hub - Verify Your Email" {
		t.Fatalf("unexpected subject %q", sender.sent[0].Subject)
	}
}

func TestSend_Failures(t *testing.T) {
	ctx := context.Background()

	var fe validation.Errors
	if _, err := newTestService(&fakeLinks{}, &fakeSender{}).Send(ctx, Request{Email: "nope"}); !errors.As(err, &fe) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if _, err := newTestService(&fakeLinks{}, &fakeSender{}).Send(ctx, Request{Email: "a@b.sl"}); !errors.Is(err, ErrNoActionLink) {
		t.Fatalf("expected ErrNoActionLink, got %v", err)
	}
	sendErr := errors.New("Invalid to field")
	if _, err := newTestService(&fakeLinks{link: "https://x"}, &fakeSender{err: sendErr}).Send(ctx, Request{Email: "a@b.sl"}); !errors.Is(err, sendErr) {
		t.Fatalf("expected sender error, got %v", err)
	}
}

func TestSendAuthEmail_MapsLinkType(t *testing.T) {
	links := &fakeLinks{link: "https://x"}
	sender := &fakeSender{}
	svc := newTestService(links, sender)

	if err := svc.SendAuthEmail(context.Background(), "a@b.sl", identity.LinkMagicLink, ""); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if links.gotType != identity.LinkMagicLink || sender.sent[0].Subject != "Mammy Coker Hub - Your Login Link" {
		t.Fatalf("unexpected mapping type=%s subject=%q", links.gotType, sender.sent[0].Subject)
	}
}
