package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yndnr/famcheck-go/internal/core/domain"
	"github.com/yndnr/famcheck-go/internal/telemetry/logger"
)

// Storage is the subset of the storage facade the Manager needs.
type Storage interface {
	Save(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, out any) bool
	Delete(ctx context.Context, key string) error
	SaveSecure(ctx context.Context, key, value string) error
	GetSecure(ctx context.Context, key string) (string, bool)
	DeleteSecure(ctx context.Context, key string) error
}

// Keys names the three storage entries of a session.
type Keys struct {
	Token    string `koanf:"token" yaml:"token" json:"token"`
	Username string `koanf:"username" yaml:"username" json:"username"`
	IsAdmin  string `koanf:"is_admin" yaml:"is_admin" json:"is_admin"`
}

// DefaultKeys returns the entry names used by earlier releases.
func DefaultKeys() Keys {
	return Keys{
		Token:    "sessionToken",
		Username: "sessionUsername",
		IsAdmin:  "sessionIsAdmin",
	}
}

// Validate checks that all key names are set and distinct.
func (k Keys) Validate() error {
	if k.Token == "" || k.Username == "" || k.IsAdmin == "" {
		return errors.New("session keys must not be empty")
	}
	if k.Username == k.IsAdmin {
		return fmt.Errorf("session keys must be distinct: %q", k.Username)
	}
	return nil
}

// Manager saves, loads and clears the session.
//
// Operations on one Manager are serialized. Two Managers over the same
// storage are not coordinated.
type Manager struct {
	mu     sync.Mutex
	store  Storage
	keys   Keys
	logger logger.Logger
}

// NewManager creates a Manager. Empty key names fall back to DefaultKeys.
func NewManager(store Storage, keys Keys, log logger.Logger) *Manager {
	def := DefaultKeys()
	if keys.Token == "" {
		keys.Token = def.Token
	}
	if keys.Username == "" {
		keys.Username = def.Username
	}
	if keys.IsAdmin == "" {
		keys.IsAdmin = def.IsAdmin
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Manager{
		store:  store,
		keys:   keys,
		logger: log.With("component", "session"),
	}
}

// Keys returns the entry names in use.
func (m *Manager) Keys() Keys {
	return m.keys
}

// SaveSession overwrites the stored session with s.
//
// Every field is written even if an earlier write fails; the returned error
// joins all failures. A partial write reads back as absent.
func (m *Manager) SaveSession(ctx context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := errors.Join(
		m.store.Save(ctx, m.keys.Username, s.Username),
		m.store.Save(ctx, m.keys.IsAdmin, s.IsAdmin),
		m.store.SaveSecure(ctx, m.keys.Token, s.Token),
	)
	if err != nil {
		m.logger.Error("session save incomplete", "username", s.Username, "error", err)
		return fmt.Errorf("save session: %w", err)
	}

	m.logger.Debug("session saved", "username", s.Username, "is_admin", s.IsAdmin)
	return nil
}

// GetSession returns the stored session. It reports false unless all three
// entries are present and readable.
func (m *Manager) GetSession(ctx context.Context) (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		s       domain.Session
		missing []string
	)
	if !m.store.Get(ctx, m.keys.Username, &s.Username) {
		missing = append(missing, m.keys.Username)
	}
	if !m.store.Get(ctx, m.keys.IsAdmin, &s.IsAdmin) {
		missing = append(missing, m.keys.IsAdmin)
	}
	token, ok := m.store.GetSecure(ctx, m.keys.Token)
	if !ok {
		missing = append(missing, m.keys.Token)
	}
	s.Token = token

	switch len(missing) {
	case 0:
		return s, true
	case 3:
		m.logger.Debug("no stored session")
	default:
		m.logger.Warn("partial session ignored", "missing", missing)
	}
	return domain.Session{}, false
}

// ClearSession deletes all session entries. Clearing an absent session is
// not an error.
func (m *Manager) ClearSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := errors.Join(
		m.store.Delete(ctx, m.keys.Username),
		m.store.Delete(ctx, m.keys.IsAdmin),
		m.store.DeleteSecure(ctx, m.keys.Token),
	)
	if err != nil {
		m.logger.Error("session clear incomplete", "error", err)
		return fmt.Errorf("clear session: %w", err)
	}

	m.logger.Debug("session cleared")
	return nil
}
