// Package session owns the authentication state of the client.
//
// Manager is the single writer of the session; readers take snapshots.
// Remote and storage failures never escape as panics: they are recorded in
// the session's LastError and returned to the caller.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
	"github.com/MrSnakeDoc/linkveo/internal/logger"
)

// Fallback messages used when the server gives none.
const (
	MsgLoginFailed        = "login failed"
	MsgRegistrationFailed = "registration failed"
	MsgSessionExpired     = "session expired, please log in again"
)

// Authenticator is the remote Auth Service.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.Credentials, error)
	Register(ctx context.Context, email, username, password string) (domain.User, error)
}

// CredentialStore is the durable token/profile record.
type CredentialStore interface {
	Save(ctx context.Context, creds domain.Credentials) error
	Load(ctx context.Context) (domain.Credentials, bool)
	Clear(ctx context.Context) error
}

type Manager struct {
	auth   Authenticator
	store  CredentialStore
	logger logger.Logger

	// suffix returns the random registration username suffix in [0, n).
	suffix func(n int) int

	// persist orders every change of the durable record with the matching
	// change in memory, so both always hold the same user.
	persist sync.Mutex

	mu        sync.RWMutex
	token     string
	user      *domain.User
	inflight  int
	lastError string

	// gen changes whenever the session is ended. A login that started in an
	// older generation is dropped instead of committed.
	gen uint64
}

func NewManager(auth Authenticator, store CredentialStore, log logger.Logger) *Manager {
	return &Manager{
		auth:   auth,
		store:  store,
		logger: log.With(logger.Component("session")),
		suffix: rand.Intn,
	}
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() domain.Session {
	s := domain.Session{
		Token:         m.token,
		Authenticated: m.token != "",
		Loading:       m.inflight > 0,
		LastError:     m.lastError,
	}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

// Token returns the bearer token of the current session, if any.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// begin marks an operation in flight, clears the previous error and
// returns the current generation.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight++
	m.lastError = ""
	return m.gen
}

// fail ends an operation with a user-facing error message.
func (m *Manager) fail(err error, fallback string) domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--
	m.lastError = domain.UserMessage(err, fallback)
	return m.snapshotLocked()
}

// Login authenticates against the Auth Service. On failure the prior
// session, in memory and on disk, is left as it was. A login overtaken by
// Logout or Expire is discarded and reported as not authenticated.
func (m *Manager) Login(ctx context.Context, email, password string) (domain.Session, error) {
	gen := m.begin()

	creds, err := m.auth.Login(ctx, email, password)
	if err != nil {
		m.logger.Warn("login failed", logger.Error(err))
		return m.fail(err, MsgLoginFailed), err
	}

	m.persist.Lock()
	defer m.persist.Unlock()

	if m.generation() != gen {
		m.logger.Info("login discarded, session ended while it was in flight")
		m.mu.Lock()
		defer m.mu.Unlock()
		m.inflight--
		return m.snapshotLocked(), fmt.Errorf("login superseded by logout: %w", domain.ErrNotAuthenticated)
	}

	if err := m.store.Save(ctx, creds); err != nil {
		// The session still works until the process exits.
		m.logger.Warn("failed to persist credentials", logger.Error(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--
	m.token = creds.Token
	u := creds.User
	m.user = &u

	m.logger.Info("logged in", logger.Int64("user_id", u.ID))
	return m.snapshotLocked(), nil
}

func (m *Manager) generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}

// Register validates the password rules locally, then creates the account.
// It does not log in.
func (m *Manager) Register(ctx context.Context, email, password, confirmation string) (domain.User, error) {
	if err := domain.ValidateRegistration(password, confirmation); err != nil {
		m.mu.Lock()
		m.lastError = domain.UserMessage(err, MsgRegistrationFailed)
		m.mu.Unlock()
		return domain.User{}, err
	}

	m.begin()

	user, err := m.auth.Register(ctx, email, m.deriveUsername(email), password)
	if err != nil {
		m.logger.Warn("registration failed", logger.Error(err))
		m.fail(err, MsgRegistrationFailed)
		return domain.User{}, err
	}

	m.mu.Lock()
	m.inflight--
	m.mu.Unlock()

	m.logger.Info("registered", logger.Int64("user_id", user.ID))
	return user, nil
}

// Logout ends the session locally. No remote call is made and it cannot
// fail; a storage error is only logged.
func (m *Manager) Logout(ctx context.Context) {
	m.end(ctx, "")
	m.logger.Info("logged out")
}

// Expire ends a session the server no longer accepts.
func (m *Manager) Expire(ctx context.Context) {
	m.end(ctx, MsgSessionExpired)
	m.logger.Info("session expired")
}

// end clears memory and the durable record and starts a new generation.
func (m *Manager) end(ctx context.Context, reason string) {
	m.persist.Lock()
	defer m.persist.Unlock()

	m.mu.Lock()
	m.gen++
	m.clearLocked()
	m.lastError = reason
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear stored credentials", logger.Error(err))
	}
}

// Restore loads the stored credentials. The token is trusted until a
// remote call rejects it.
func (m *Manager) Restore(ctx context.Context) domain.Session {
	m.persist.Lock()
	defer m.persist.Unlock()

	creds, ok := m.store.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if !ok {
		m.clearLocked()
		return m.snapshotLocked()
	}
	m.token = creds.Token
	u := creds.User
	m.user = &u

	m.logger.Debug("session restored", logger.Int64("user_id", u.ID))
	return m.snapshotLocked()
}

func (m *Manager) clearLocked() {
	m.token = ""
	m.user = nil
}

// deriveUsername returns the local part of email plus a 0-999 suffix,
// ex: "alice@example.com" -> "alice417".
func (m *Manager) deriveUsername(email string) string {
	local := email
	if i := strings.LastIndex(email, "@"); i >= 0 {
		local = email[:i]
	}
	return local + strconv.Itoa(m.suffix(1000))
}
