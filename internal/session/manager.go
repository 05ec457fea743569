// Package session owns the console's authentication token: acquiring it
// from the collaborator, persisting it in a durable key-value store and
// restoring it when the process starts.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Authenticator exchanges credentials for a token
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Manager defines the interface for session management operations
type Manager interface {
	// Restore reads the token from the store; a non-empty token is trusted
	// without validation.
	Restore(ctx context.Context) (string, bool, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
	Token() string
	Authenticated() bool
}

// manager implements Manager interface
type manager struct {
	mu     sync.RWMutex
	token  string
	store  Store
	key    string
	auth   Authenticator
	logger *slog.Logger
}

// NewManager creates a new session manager. The token starts empty until
// Restore or Login.
func NewManager(store Store, key string, auth Authenticator, logger *slog.Logger) Manager {
	if key == "" {
		key = DefaultTokenKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &manager{
		store:  store,
		key:    key,
		auth:   auth,
		logger: logger,
	}
}

func (m *manager) Restore(ctx context.Context) (string, bool, error) {
	token, err := m.store.Get(ctx, m.key)
	if errors.Is(err, ErrNotFound) {
		m.logger.Info("No stored session token")
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session token: %w", err)
	}
	if token == "" {
		return "", false, nil
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	m.logger.Info("Restored session token from store")
	return token, true, nil
}

// Login does not retry; on any failure the session stays as it was.
func (m *manager) Login(ctx context.Context, username, password string) (string, error) {
	token, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn("Login failed", "username", username, "error", err)
		return "", err
	}

	if err := m.store.Set(ctx, m.key, token); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	m.logger.Info("Login succeeded", "username", username)
	return token, nil
}

func (m *manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}

	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()

	m.logger.Info("Logged out")
	return nil
}

func (m *manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *manager) Authenticated() bool {
	return m.Token() != ""
}
