// Package session derives the authenticated identity and role from the
// persisted credentials and exposes the login and logout transitions.
//
// States: Loading (initial) -> Authenticated | Unauthenticated. Login moves
// any state to Authenticated (or Unauthenticated when the identity cannot
// be resolved); Logout moves any state to Unauthenticated. A Manager never
// returns to Loading.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/companyadmin/internal/client/models"
	"github.com/dmitrijs2005/companyadmin/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/companyadmin/internal/common"
	"github.com/dmitrijs2005/companyadmin/internal/logging"
)

type Status int

const (
	StatusLoading Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is an immutable snapshot of the session.
type State struct {
	Status Status
	User   *models.User
	Role   models.Role
}

func (s State) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// ErrNoAccessToken is returned by the current-user fetch when nothing is persisted.
var ErrNoAccessToken = errors.New("no access token")

// UserFetcher resolves the identity behind the persisted access credential.
type UserFetcher interface {
	Me(ctx context.Context) (*models.User, error)
}

// HeaderSetter is the part of the gateway the session drives.
type HeaderSetter interface {
	SetDefaultHeader(key, value string)
	DeleteDefaultHeader(key string)
}

type Manager struct {
	store   credentials.Store
	headers HeaderSetter
	users   UserFetcher
	logger  logging.Logger

	mu        sync.RWMutex
	state     State
	listeners []func(State)
}

func NewManager(store credentials.Store, headers HeaderSetter, users UserFetcher, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Manager{
		store:   store,
		headers: headers,
		users:   users,
		logger:  logger,
		state:   State{Status: StatusLoading},
	}
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// OnChange registers fn to be called after every transition.
func (m *Manager) OnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Init resolves the session from persisted credentials. A failed resolution
// leaves the session unauthenticated; it is not reported as an error.
func (m *Manager) Init(ctx context.Context) State {
	access, err := m.store.Get(ctx, common.AccessTokenKey)
	if err != nil {
		m.logger.Warn(ctx, "failed to read access credential", "error", err)
	}
	if access == "" {
		m.clear(ctx)
		return m.Snapshot()
	}

	m.headers.SetDefaultHeader(common.AuthorizationHeaderName, common.BearerPrefix+access)

	user, err := m.fetchCurrentUser(ctx)
	if err != nil {
		m.logger.Info(ctx, "stored session could not be resolved", "error", err)
		m.clear(ctx)
		return m.Snapshot()
	}

	m.authenticate(user)
	return m.Snapshot()
}

// Login persists the credential pair and resolves the identity behind it.
// On failure the credentials are cleared and the session ends up
// unauthenticated.
func (m *Manager) Login(ctx context.Context, access, refresh string) error {
	if err := credentials.SavePair(ctx, m.store, access, refresh); err != nil {
		m.clear(ctx)
		return fmt.Errorf("persist credentials: %w", err)
	}
	m.headers.SetDefaultHeader(common.AuthorizationHeaderName, common.BearerPrefix+access)

	user, err := m.fetchCurrentUser(ctx)
	if err != nil {
		m.clear(ctx)
		return fmt.Errorf("resolve current user: %w", err)
	}

	m.authenticate(user)
	m.logger.Info(ctx, "logged in", "email", user.Email, "role", user.Role.String())
	return nil
}

// Logout clears credentials and identity. It is idempotent.
func (m *Manager) Logout(ctx context.Context) {
	m.clear(ctx)
}

func (m *Manager) fetchCurrentUser(ctx context.Context) (*models.User, error) {
	access, err := m.store.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return nil, err
	}
	if access == "" {
		return nil, ErrNoAccessToken
	}

	user, err := m.users.Me(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Role.Valid() {
		return nil, errors.New("no user data")
	}
	return user, nil
}

func (m *Manager) authenticate(user *models.User) {
	m.transition(State{Status: StatusAuthenticated, User: user, Role: user.Role})
}

func (m *Manager) clear(ctx context.Context) {
	if err := credentials.ClearPair(ctx, m.store); err != nil {
		m.logger.Error(ctx, "failed to clear credentials", "error", err)
	}
	m.headers.DeleteDefaultHeader(common.AuthorizationHeaderName)
	m.transition(State{Status: StatusUnauthenticated})
}

func (m *Manager) transition(next State) {
	m.mu.Lock()
	m.state = next
	listeners := append([]func(State){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}
