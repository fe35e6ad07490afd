package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/warfront/internal/dependencies/clock"
	"github.com/mcoot/warfront/internal/dependencies/random"
	"github.com/mcoot/warfront/internal/model"
)

// tokenBytes is the entropy of a session token
const tokenBytes = 32

// AccountChecker reports whether a session's account still exists
type AccountChecker interface {
	AccountExists(ctx context.Context, username string) (bool, error)
}

// Config holds configuration for the session manager
type Config struct {
	Duration time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Duration: 7 * 24 * time.Hour,
	}
}

// Manager issues, resolves and revokes session tokens
type Manager struct {
	store    Store
	accounts AccountChecker
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	duration time.Duration
}

// NewManager creates a new session Manager
func NewManager(store Store, accounts AccountChecker, clock clock.Clock, random random.Random, logger *slog.Logger, cfg Config) *Manager {
	if cfg.Duration == 0 {
		cfg.Duration = DefaultConfig().Duration
	}
	return &Manager{
		store:    store,
		accounts: accounts,
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("component", "session-manager")),
		duration: cfg.Duration,
	}
}

// Login issues a fresh session for username
func (m *Manager) Login(ctx context.Context, username string) (*Session, error) {
	now := m.clock.Now()
	sess := &Session{
		Token:     m.random.Token(tokenBytes),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.duration),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// CurrentUser resolves token to a username. A session whose account has
// disappeared is revoked and reported as invalid.
func (m *Manager) CurrentUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", model.ErrInvalidSession
	}
	sess, err := m.store.Get(ctx, token)
	if err != nil {
		return "", err
	}

	exists, err := m.accounts.AccountExists(ctx, sess.Username)
	if err != nil {
		return "", err
	}
	if !exists {
		m.logger.Info("revoking session for missing account", slog.String("username", sess.Username))
		if err := m.store.Delete(ctx, token); err != nil {
			return "", err
		}
		return "", model.ErrInvalidSession
	}
	return sess.Username, nil
}

// Logout revokes token; unknown tokens are ignored
func (m *Manager) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// CleanExpired sweeps expired sessions from the store
func (m *Manager) CleanExpired(ctx context.Context) int {
	n, err := m.store.CleanExpired(ctx)
	if err != nil {
		m.logger.Error("session sweep failed", slog.String("error", err.Error()))
		return 0
	}
	if n > 0 {
		m.logger.Debug("expired sessions removed", slog.Int("count", n))
	}
	return n
}

// IsInvalidSession reports whether err means "no valid session"
func IsInvalidSession(err error) bool {
	return errors.Is(err, model.ErrInvalidSession)
}
