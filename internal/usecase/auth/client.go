package auth

import (
	"context"
	"sync"

	"mammy-coker-hub/internal/identity"
)

type Event string

const (
	EventInitialSession Event = "INITIAL_SESSION"
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// State is a snapshot of the client's session. Loading stays true until Init
// has run.
type State struct {
	User    *ViewUser
	Session *identity.Session
	Loading bool
}

type Listener func(Event, State)

// Authenticator is the part of Service the client drives.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Result, error)
	SignUp(ctx context.Context, in SignUpInput) (Result, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPassword(ctx context.Context, email string) error
	SignInWithOAuth(provider string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (Result, error)
	CurrentUser(ctx context.Context, accessToken string) (ViewUser, error)
}

// Client holds one user's session and tells listeners when it changes. It is
// passed explicitly to whatever needs the current user.
type Client struct {
	auth Authenticator

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

func NewClient(a Authenticator) *Client {
	return &Client{
		auth:      a,
		state:     State{Loading: true},
		listeners: make(map[int]Listener),
	}
}

func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) User() *ViewUser { return c.State().User }

func (c *Client) Session() *identity.Session { return c.State().Session }

func (c *Client) Loading() bool { return c.State().Loading }

// OnAuthStateChange registers l and returns a func that removes it.
func (c *Client) OnAuthStateChange(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Init restores a stored session, if any. A session the provider no longer
// accepts is dropped rather than reported.
func (c *Client) Init(ctx context.Context, stored *identity.Session) {
	next := State{}
	if stored != nil && stored.AccessToken != "" {
		if u, err := c.auth.CurrentUser(ctx, stored.AccessToken); err == nil {
			s := *stored
			next = State{User: &u, Session: &s}
		}
	}
	c.set(EventInitialSession, next)
}

func (c *Client) SignIn(ctx context.Context, email, password string) error {
	res, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	c.set(EventSignedIn, State{User: &res.User, Session: res.Session})
	return nil
}

func (c *Client) SignUp(ctx context.Context, in SignUpInput) error {
	res, err := c.auth.SignUp(ctx, in)
	if err != nil {
		return err
	}
	if res.Session != nil {
		c.set(EventSignedIn, State{User: &res.User, Session: res.Session})
	}
	return nil
}

// SignOut always clears the local session, even when the provider call fails.
func (c *Client) SignOut(ctx context.Context) error {
	var token string
	if s := c.Session(); s != nil {
		token = s.AccessToken
	}
	err := c.auth.SignOut(ctx, token)
	c.set(EventSignedOut, State{})
	return err
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.auth.ResetPassword(ctx, email)
}

func (c *Client) SignInWithOAuth(provider string) (string, error) {
	return c.auth.SignInWithOAuth(provider)
}

func (c *Client) Refresh(ctx context.Context) error {
	s := c.Session()
	if s == nil || s.RefreshToken == "" {
		return ErrNotAuthenticated
	}
	res, err := c.auth.Refresh(ctx, s.RefreshToken)
	if err != nil {
		return err
	}
	c.set(EventTokenRefreshed, State{User: &res.User, Session: res.Session})
	return nil
}

func (c *Client) set(ev Event, st State) {
	st.Loading = false

	c.mu.Lock()
	c.state = st
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()

	for _, l := range ls {
		l(ev, st)
	}
}

var _ Authenticator = (*Service)(nil)
