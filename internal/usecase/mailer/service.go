// Package mailer sends the branded account emails: signup verification,
// password recovery and magic links.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"strings"
	"time"

	"mammy-coker-hub/internal/domain/validation"
	"mammy-coker-hub/internal/identity"
	"mammy-coker-hub/internal/infrastructure/email"
	"mammy-coker-hub/internal/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var authTemplate = template.Must(template.ParseFS(templateFS, "templates/auth.html"))

var ErrNoActionLink = errors.New("failed to generate confirmation URL")

type EmailType string

const (
	TypeSignup    EmailType = "signup"
	TypeRecovery  EmailType = "recovery"
	TypeMagicLink EmailType = "magiclink"
)

type content struct {
	subject string
	title   string
	heading string
	body    string
	button  string
	ignore  string
}

var contents = map[EmailType]content{
	TypeSignup: {
		subject: "Welcome to %s - Verify Your Email",
		title:   "Verify Your Email",
		heading: "Welcome aboard!",
		body:    "Thank you for signing up. To complete your registration and start exploring opportunities, please verify your email address.",
		button:  "Verify My Email",
		ignore:  "If you didn't create an account, you can safely ignore this email.",
	},
	TypeRecovery: {
		subject: "%s - Reset Your Password",
		title:   "Reset Your Password",
		heading: "Reset Your Password",
		body:    "We received a request to reset your password. Click the button below to create a new password.",
		button:  "Reset Password",
		ignore:  "If you didn't request a password reset, you can safely ignore this email.",
	},
	TypeMagicLink: {
		subject: "%s - Your Login Link",
		title:   "Login Link",
		heading: "Login to Your Account",
		body:    "Click the button below to securely log in to your account.",
		button:  "Log In",
		ignore:  "If you didn't request this link, you can safely ignore this email.",
	},
}

// normalize maps an unknown type to signup.
func normalize(t EmailType) EmailType {
	if _, ok := contents[t]; ok {
		return t
	}
	return TypeSignup
}

// linkType is the identity link generated for each email. Signup uses an
// invite link, which confirms the address when followed.
func linkType(t EmailType) identity.LinkType {
	switch t {
	case TypeRecovery:
		return identity.LinkRecovery
	case TypeMagicLink:
		return identity.LinkMagicLink
	default:
		return identity.LinkInvite
	}
}

type LinkGenerator interface {
	GenerateLink(ctx context.Context, t identity.LinkType, email, redirectTo string) (identity.Link, error)
}

type Sender interface {
	Send(ctx context.Context, m email.Message) (email.Receipt, error)
}

type Rendered struct {
	Subject string
	HTML    string
}

// Render produces the subject and HTML body for t.
func Render(t EmailType, actionURL, appName string, year int) (Rendered, error) {
	c := contents[normalize(t)]
	var buf bytes.Buffer
	err := authTemplate.Execute(&buf, map[string]any{
		"AppName":   appName,
		"Title":     c.title,
		"Heading":   c.heading,
		"Body":      c.body,
		"Button":    c.button,
		"Ignore":    c.ignore,
		"ActionURL": template.URL(actionURL),
		"Year":      year,
	})
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Subject: strings.Replace(c.subject, "%s", appName, 1), HTML: buf.String()}, nil
}

type Request struct {
	Email      string    `json:"email"`
	Type       EmailType `json:"type"`
	RedirectTo string    `json:"redirectTo,omitempty"`
}

type Service struct {
	links           LinkGenerator
	sender          Sender
	appName         string
	fromAddress     string
	defaultRedirect string
	logger          *logging.Logger
	now             func() time.Time
}

func NewService(links LinkGenerator, sender Sender, appName, fromAddress, publicURL string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	if appName == "" {
		appName = "Mammy Coker Hub"
	}
	if fromAddress == "" {
		fromAddress = "onboarding@resend.dev"
	}
	return &Service{
		links:           links,
		sender:          sender,
		appName:         appName,
		fromAddress:     fromAddress,
		defaultRedirect: strings.TrimRight(publicURL, "/") + "/auth",
		logger:          logger.With("component", "mailer"),
		now:             time.Now,
	}
}

// Send generates the action link, renders the email and delivers it.
func (s *Service) Send(ctx context.Context, req Request) (email.Receipt, error) {
	addr := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsEmail(addr) {
		return email.Receipt{}, validation.Errors{"email": "Please enter a valid email address"}
	}
	t := normalize(req.Type)
	redirect := strings.TrimSpace(req.RedirectTo)
	if redirect == "" {
		redirect = s.defaultRedirect
	}

	link, err := s.links.GenerateLink(ctx, linkType(t), addr, redirect)
	if err != nil {
		s.logger.Error("generate link failed", "type", t, "error", err)
		return email.Receipt{}, err
	}
	if link.ActionLink == "" {
		return email.Receipt{}, ErrNoActionLink
	}

	r, err := Render(t, link.ActionLink, s.appName, s.now().Year())
	if err != nil {
		return email.Receipt{}, err
	}

	s.logger.Info("sending email", "type", t, "to", addr)
	rec, err := s.sender.Send(ctx, email.Message{
		From:    s.appName + " <" + s.fromAddress + ">",
		To:      []string{addr},
		Subject: r.Subject,
		HTML:    r.HTML,
	})
	if err != nil {
		s.logger.Error("send email failed", "type", t, "error", err)
		return email.Receipt{}, err
	}
	return rec, nil
}

// SendAuthEmail lets the auth service send through the branded templates.
func (s *Service) SendAuthEmail(ctx context.Context, addr string, t identity.LinkType, redirectTo string) error {
	et := TypeSignup
	switch t {
	case identity.LinkRecovery:
		et = TypeRecovery
	case identity.LinkMagicLink:
		et = TypeMagicLink
	}
	_, err := s.Send(ctx, Request{Email: addr, Type: et, RedirectTo: redirectTo})
	return err
}
