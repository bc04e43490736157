package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dzungnguyen14/aiowallet-app/internal/credentials"
	"github.com/dzungnguyen14/aiowallet-app/internal/gateway"
)

var (
	// ErrInvalidCredentials is returned when the API rejects a login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession is returned by operations that need a logged-in user.
	ErrNoSession = errors.New("no active session")
)

// Session is the logged-in identity the other slices are gated on.
type Session struct {
	UserID        string
	DisplayName   string
	HasCredential bool
}

// Gateway is the request capability the manager needs.
type Gateway interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Manager owns the auth slice: the current session and the persisted
// credential token. Login failures leave both untouched.
type Manager struct {
	mu      sync.Mutex
	gw      Gateway
	creds   credentials.Store
	session *Session
	notify  func()
}

func NewManager(gw Gateway, creds credentials.Store, notify func()) *Manager {
	return &Manager{gw: gw, creds: creds, notify: notify}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// Login exchanges credentials for a token, persists the token and installs
// the session. On failure the previous session, if any, stays as it was.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	var res loginResponse
	err := m.gw.Do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &res)
	if err != nil {
		var se *gateway.StatusError
		if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
			if se.Message == "" {
				return Session{}, ErrInvalidCredentials
			}
			return Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, se.Message)
		}
		return Session{}, err
	}

	userID, name := res.User.ID, res.User.Name
	if userID == "" {
		// Older API builds return only the token; identity lives in
		// its claims.
		userID, name = claimsFromToken(res.Token)
	}

	if err := m.creds.Set(res.Token); err != nil {
		log.Printf("auth: failed to persist credential: %v", err)
	}

	session := Session{UserID: userID, DisplayName: name, HasCredential: true}
	m.mu.Lock()
	m.session = &session
	m.mu.Unlock()
	m.changed()
	return session, nil
}

// Restore rebuilds a session from a previously persisted token, if one
// exists. Used at startup so the user stays logged in between runs.
func (m *Manager) Restore() (Session, bool) {
	token, ok := m.creds.Get()
	if !ok {
		return Session{}, false
	}
	userID, name := claimsFromToken(token)
	if userID == "" {
		return Session{}, false
	}
	session := Session{UserID: userID, DisplayName: name, HasCredential: true}
	m.mu.Lock()
	m.session = &session
	m.mu.Unlock()
	m.changed()
	return session, true
}

// Logout drops the session and deletes the persisted credential. Safe to
// call repeatedly.
func (m *Manager) Logout() {
	m.mu.Lock()
	had := m.session != nil
	m.session = nil
	m.mu.Unlock()

	if err := m.creds.Delete(); err != nil {
		log.Printf("auth: failed to delete credential: %v", err)
	}
	if had {
		m.changed()
	}
}

// Current returns the active session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return Session{}, false
	}
	return *m.session, true
}

// Invalidate tears down the session after the gateway saw a 401. The
// credential itself is already gone by the time this runs; only the
// in-memory session is left to clear. Idempotent.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	had := m.session != nil
	m.session = nil
	m.mu.Unlock()
	if had {
		m.changed()
	}
}

func (m *Manager) changed() {
	if m.notify != nil {
		m.notify()
	}
}

// claimsFromToken decodes the token payload without verifying the
// signature. The client has no secret; trust comes from the server having
// issued the token over TLS.
func claimsFromToken(token string) (userID, name string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", ""
	}
	userID, _ = claims["user_id"].(string)
	name, _ = claims["name"].(string)
	return userID, name
}
