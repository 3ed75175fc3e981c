package session

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

var (
	ErrLoginInProgress      = stderrors.New("login already in progress")
	ErrAlreadyAuthenticated = stderrors.New("already authenticated")
	ErrNotAuthenticated     = stderrors.New("not authenticated")
)

const msgLoginFailed = "Login failed"

// Manager owns the session. Every change goes through one of its transitions.
type Manager struct {
	mu    sync.RWMutex
	state Session

	store  *tokenstore.Store
	api    AuthAPI
	logger zerolog.Logger

	listenersMu sync.RWMutex
	listeners   map[int]func(Session)
	nextID      int
}

type Option func(*Manager)

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager hydrates the session from store.
func NewManager(store *tokenstore.Store, api AuthAPI, opts ...Option) *Manager {
	m := &Manager{
		state:     anonymous(),
		store:     store,
		api:       api,
		logger:    zerolog.Nop(),
		listeners: make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.hydrate(context.Background())
	return m
}

func (m *Manager) hydrate(ctx context.Context) {
	rec := m.store.Load(ctx)
	if rec.AccessToken() == "" {
		return
	}
	m.state = Session{
		Status:          StatusAuthenticated,
		User:            rec.User,
		AccessToken:     rec.AccessToken(),
		RefreshToken:    rec.RefreshToken(),
		Permissions:     rec.Permissions,
		UserType:        rec.UserType,
		IsAuthenticated: true,
	}
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// CheckPermission reports whether the current session holds name.
func (m *Manager) CheckPermission(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.HasPermission(name)
}

// Subscribe registers fn for every session change and returns its cancel func.
func (m *Manager) Subscribe(fn func(Session)) func() {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.listenersMu.Lock()
		defer m.listenersMu.Unlock()
		delete(m.listeners, id)
	}
}

// Login moves anonymous or error to authenticating, then to authenticated on success
// or to error on failure. A failed login leaves the token store untouched.
func (m *Manager) Login(ctx context.Context, creds users.Credentials) (Session, error) {
	m.mu.Lock()
	switch m.state.Status {
	case StatusAuthenticating:
		m.mu.Unlock()
		return Session{}, ErrLoginInProgress
	case StatusAuthenticated:
		m.mu.Unlock()
		return Session{}, ErrAlreadyAuthenticated
	}
	m.state = anonymous()
	m.state.Status = StatusAuthenticating
	m.state.IsLoading = true
	snap := m.state.clone()
	m.mu.Unlock()
	m.publish(snap)

	if err := creds.Validate(); err != nil {
		return m.fail(err.Error()), err
	}

	res, err := m.api.Login(ctx, creds)
	if err != nil {
		msg := msgLoginFailed
		if gateway.KindOf(err) != 0 {
			msg = gateway.Message(err)
		}
		m.logger.Info().Str("email", creds.Email).Str("reason", msg).Msg("login failed")
		return m.fail(msg), err
	}
	if res.UserType == "" {
		res.UserType = creds.UserType
	}

	rec := tokenstore.Record{
		Token:       &oauth2.Token{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken, TokenType: "Bearer"},
		User:        &res.User,
		Permissions: res.Permissions,
		UserType:    res.UserType,
	}
	if err := m.store.Save(ctx, rec); err != nil {
		m.logger.Error().Err(err).Msg("could not persist session")
		return m.fail(msgLoginFailed), err
	}

	m.mu.Lock()
	m.state = Session{
		Status:          StatusAuthenticated,
		User:            rec.User,
		AccessToken:     res.AccessToken,
		RefreshToken:    res.RefreshToken,
		Permissions:     rec.Permissions,
		UserType:        res.UserType,
		IsAuthenticated: true,
	}
	snap = m.state.clone()
	m.mu.Unlock()
	m.logger.Info().Int64("user_id", res.User.ID).Str("user_type", string(res.UserType)).Msg("logged in")
	m.publish(snap)
	return snap, nil
}

func (m *Manager) fail(msg string) Session {
	m.mu.Lock()
	m.state = anonymous()
	m.state.Status = StatusError
	m.state.LastError = msg
	snap := m.state.clone()
	m.mu.Unlock()
	m.publish(snap)
	return snap
}

// Logout tells the server best-effort, then always clears the store and the session.
func (m *Manager) Logout(ctx context.Context) {
	if m.Snapshot().AccessToken != "" {
		if err := m.api.Logout(ctx); err != nil {
			m.logger.Warn().Err(err).Msg("logout request failed, clearing session anyway")
		}
	}
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error().Err(err).Msg("could not clear token store")
	}
	m.reset()
}

// TokensRefreshed keeps the in-memory tokens in step with the store after the gateway
// has refreshed them. Ignored unless authenticated.
func (m *Manager) TokensRefreshed(accessToken, refreshToken string) {
	m.mu.Lock()
	if !m.state.IsAuthenticated || accessToken == "" {
		m.mu.Unlock()
		return
	}
	m.state.AccessToken = accessToken
	if refreshToken != "" {
		m.state.RefreshToken = refreshToken
	}
	snap := m.state.clone()
	m.mu.Unlock()
	m.publish(snap)
}

// ForceLogout resets the in-memory session after the gateway has already cleared the
// store. Safe to call from any state.
func (m *Manager) ForceLogout() {
	m.logger.Info().Msg("session expired")
	m.reset()
}

func (m *Manager) reset() {
	m.mu.Lock()
	m.state = anonymous()
	snap := m.state.clone()
	m.mu.Unlock()
	m.publish(snap)
}

// ClearError dismisses a login failure message.
func (m *Manager) ClearError() {
	m.mu.Lock()
	if m.state.Status != StatusError {
		m.mu.Unlock()
		return
	}
	m.state.Status = StatusAnonymous
	m.state.LastError = ""
	snap := m.state.clone()
	m.mu.Unlock()
	m.publish(snap)
}

// ReplaceUser swaps the whole profile, in the store and in memory.
func (m *Manager) ReplaceUser(ctx context.Context, u users.User) error {
	if !m.Snapshot().IsAuthenticated {
		return ErrNotAuthenticated
	}
	if err := m.store.UpdateUser(ctx, &u); err != nil {
		return err
	}

	m.mu.Lock()
	if !m.state.IsAuthenticated {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	m.state.User = &u
	snap := m.state.clone()
	m.mu.Unlock()
	m.publish(snap)
	return nil
}

// RefreshProfile reloads the current user from the API.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	if !m.Snapshot().IsAuthenticated {
		return ErrNotAuthenticated
	}
	u, err := m.api.Me(ctx)
	if err != nil {
		return err
	}
	return m.ReplaceUser(ctx, u)
}

func (m *Manager) publish(s Session) {
	m.listenersMu.RLock()
	fns := make([]func(Session), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.listenersMu.RUnlock()
	for _, fn := range fns {
		fn(s.clone())
	}
}
