package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/innkeep/innkeep/pkg/client"
	"github.com/innkeep/innkeep/pkg/domain"
)

// ErrInvalidCredentials means the API refused the username and password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// resolveAttempts bounds how often a user id lookup restarts after the
// session is replaced under it.
const resolveAttempts = 2

// API is the part of the dispatcher the Manager calls.
type API interface {
	Login(ctx context.Context, req client.LoginRequest) (*client.LoginResponse, error)
	Register(ctx context.Context, req client.RegisterRequest) (*client.RegisterResponse, error)
	CurrentUser(ctx context.Context, opts ...client.RequestOption) (*domain.User, error)
}

// Manager runs the session lifecycle on top of a Store.
type Manager struct {
	store  *Store
	api    API
	logger *slog.Logger
	group  singleflight.Group
}

// NewManager wires a Manager. A nil logger discards output.
func NewManager(store *Store, api API, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: store, api: api, logger: logger}
}

// Store returns the underlying store.
func (m *Manager) Store() *Store {
	return m.store
}

// Login exchanges username and password for a token and caches it. On any
// failure the stored session is left as it was.
func (m *Manager) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	resp, err := m.api.Login(ctx, client.LoginRequest{Username: username, Password: password})
	if err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) || client.IsStatus(err, http.StatusForbidden) {
			m.logger.InfoContext(ctx, "login rejected", "username", username)
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		m.logger.InfoContext(ctx, "login returned no token", "username", username)
		return domain.Identity{}, ErrInvalidCredentials
	}

	id := domain.Identity{Username: username, UserID: resp.UserID.String()}
	if err := m.store.Set(resp.Token, id); err != nil {
		return domain.Identity{}, err
	}
	m.logger.InfoContext(ctx, "logged in", "username", username, "user_id", id.UserID)
	return id, nil
}

// Logout forgets the credential locally. The API is not contacted.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.logger.Info("logged out")
	return nil
}

// Register creates an account and returns the API's answer unchanged. It
// does not sign in.
func (m *Manager) Register(ctx context.Context, req client.RegisterRequest) (*client.RegisterResponse, error) {
	resp, err := m.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	m.logger.InfoContext(ctx, "registered", "username", req.Username)
	return resp, nil
}

// CurrentIdentity returns the cached identity without contacting the API.
func (m *Manager) CurrentIdentity() (domain.Identity, bool) {
	return m.store.Identity()
}

// Authenticated reports whether a credential is cached.
func (m *Manager) Authenticated() bool {
	return m.store.Authenticated()
}

// ResolveUserID returns the user id of the current session, asking the API
// once if it is not cached yet. Concurrent callers of the same session share
// a single request, which runs under the first caller's context. A result
// that arrives after the session was replaced is discarded and the lookup
// runs again for the new session.
func (m *Manager) ResolveUserID(ctx context.Context) (string, error) {
	for range resolveAttempts {
		token, id := m.store.snapshot()
		if token == "" {
			return "", ErrNotAuthenticated
		}
		if id.UserID != "" {
			return id.UserID, nil
		}

		v, err, _ := m.group.Do("user-id:"+token, func() (any, error) {
			u, err := m.api.CurrentUser(ctx)
			if err != nil {
				return "", fmt.Errorf("resolve user id: %w", err)
			}
			userID := u.ID.String()
			if err := m.store.SetUserIDIf(token, userID); err != nil && !errors.Is(err, ErrSessionChanged) && !errors.Is(err, ErrNotAuthenticated) {
				return "", err
			}
			return userID, nil
		})
		if err != nil {
			return "", err
		}
		if m.store.Credential() == token {
			return v.(string), nil
		}
		m.logger.Debug("session changed during user id lookup, retrying")
	}
	return "", fmt.Errorf("resolve user id: %w", ErrSessionChanged)
}

// Claims is what can be read from a JWT credential without verifying it.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carried an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// TokenClaims decodes the cached token for display. The signature is not
// checked and the result never affects whether the session is valid.
// Opaque tokens report false.
func (m *Manager) TokenClaims() (Claims, bool) {
	raw := m.store.Credential()
	if raw == "" {
		return Claims{}, false
	}
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &rc); err != nil {
		return Claims{}, false
	}
	c := Claims{Subject: rc.Subject, Issuer: rc.Issuer}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, true
}
