// Package gotrue talks to a hosted GoTrue-compatible auth REST API.
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mammy-coker-hub/internal/identity"
	"mammy-coker-hub/internal/pkg/logging"
)

type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
	logger     *logging.Logger
	now        func() time.Time
}

func New(baseURL, anonKey, serviceKey string, logger *logging.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/auth/v1",
		anonKey:    anonKey,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	User         identity.User `json:"user"`
}

func (c *Client) session(t tokenResponse) identity.Session {
	exp := c.now().Add(time.Duration(t.ExpiresIn) * time.Second)
	if t.ExpiresAt > 0 {
		exp = time.Unix(t.ExpiresAt, 0)
	}
	return identity.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
		ExpiresAt:    exp.UTC(),
		User:         t.User,
	}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (identity.Session, error) {
	var out tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &out); err != nil {
		return identity.Session{}, err
	}
	return c.session(out), nil
}

// signupResponse is either a full session or, with confirmations enabled,
// the bare user object.
type signupResponse struct {
	tokenResponse
	identity.User
}

func (c *Client) SignUp(ctx context.Context, p identity.SignUpParams) (identity.User, *identity.Session, error) {
	body := map[string]any{
		"email":    p.Email,
		"password": p.Password,
		"data":     p.Metadata,
	}
	path := "/signup"
	if p.RedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(p.RedirectTo)
	}

	var out signupResponse
	if err := c.do(ctx, http.MethodPost, path, "", body, &out); err != nil {
		return identity.User{}, nil, err
	}
	if out.AccessToken == "" {
		return out.User, nil, nil
	}
	s := c.session(out.tokenResponse)
	return s.User, &s, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (identity.Session, error) {
	var out tokenResponse
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &out); err != nil {
		return identity.Session{}, err
	}
	return c.session(out), nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (identity.User, error) {
	var out identity.User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &out); err != nil {
		return identity.User{}, err
	}
	return out, nil
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) (identity.User, error) {
	var out identity.User
	body := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodPut, "/user", accessToken, body, &out); err != nil {
		return identity.User{}, err
	}
	return out, nil
}

func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.do(ctx, http.MethodPost, path, "", map[string]string{"email": email}, nil)
}

// AuthorizeURL builds the redirect that starts an OAuth sign-in; the browser
// follows it, so no request is made here.
func (c *Client) AuthorizeURL(provider identity.OAuthProvider, redirectTo string) (string, error) {
	if _, err := identity.ParseOAuthProvider(string(provider)); err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("provider", string(provider))
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/authorize?" + q.Encode(), nil
}

// GenerateLink calls the admin endpoint and needs the service key.
func (c *Client) GenerateLink(ctx context.Context, t identity.LinkType, email, redirectTo string) (identity.Link, error) {
	switch t {
	case identity.LinkSignup, identity.LinkInvite, identity.LinkRecovery, identity.LinkMagicLink:
	default:
		return identity.Link{}, identity.ErrInvalidLinkType
	}
	if c.serviceKey == "" {
		return identity.Link{}, &identity.Error{Status: http.StatusUnauthorized, Message: "service key not configured"}
	}

	body := map[string]any{"type": t, "email": email}
	if redirectTo != "" {
		body["redirect_to"] = redirectTo
	}

	var out struct {
		ActionLink string `json:"action_link"`
		Properties struct {
			ActionLink string `json:"action_link"`
		} `json:"properties"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/generate_link", c.serviceKey, body, &out); err != nil {
		return identity.Link{}, err
	}

	link := out.ActionLink
	if link == "" {
		link = out.Properties.ActionLink
	}
	return identity.Link{Type: t, Email: email, ActionLink: link}, nil
}

type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e errorBody) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in any, out any) error {
	endpoint := c.baseURL + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var eb errorBody
		_ = json.Unmarshal(rb, &eb)
		msg := eb.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		code := eb.ErrorCode
		if code == "" {
			if s, ok := eb.Code.(string); ok {
				code = s
			}
		}
		c.logger.Debug("identity request failed", "method", method, "path", path, "status", resp.StatusCode, "message", msg)
		return &identity.Error{Status: resp.StatusCode, Code: code, Message: msg}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ identity.Provider = (*Client)(nil)
