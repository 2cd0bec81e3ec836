package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/overtimestaff/marketboard/internal/access"
)

// Errors
var (
	ErrInvalidRole    = errors.New("invalid session role")
	ErrMissingUserID  = errors.New("session user has no id")
	ErrNotInitialized = errors.New("session not initialized")
)

// Role is the role stored with a session.
type Role string

const (
	RoleUnset   Role = ""
	RoleWorker  Role = "worker"
	RoleAgency  Role = "agency"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role. The unset role is valid.
func (r Role) Valid() bool {
	switch r {
	case RoleUnset, RoleWorker, RoleAgency, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// AccessRole maps the session role onto the route policy's roles.
func (r Role) AccessRole() access.Role {
	switch r {
	case RoleWorker:
		return access.RoleShiftWorker
	case RoleAgency:
		return access.RoleAgency
	case RoleCompany:
		return access.RoleCompany
	case RoleAdmin:
		return access.RolePlatformAdmin
	}
	return ""
}

// User is the signed-in user.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Validate checks the user before it is stored.
func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrMissingUserID
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, u.Role)
	}
	return nil
}

// Phase is the session lifecycle phase.
type Phase int

const (
	PhaseNew Phase = iota
	PhaseInit
	PhaseAuthenticated
	PhaseCleared
)

func (p Phase) String() string {
	switch p {
	case PhaseNew:
		return "new"
	case PhaseInit:
		return "init"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseCleared:
		return "cleared"
	}
	return "unknown"
}

// persisted is the stored envelope.
type persisted struct {
	State struct {
		User *User `json:"user"`
	} `json:"state"`
	Version int `json:"version"`
}

// Manager owns the current session.
type Manager struct {
	store  Store
	key    string
	logger *slog.Logger

	mu    sync.RWMutex
	phase Phase
	user  *User
}

// NewManager creates a session manager persisting under key.
func NewManager(store Store, key string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Init restores a persisted session, if any.
func (m *Manager) Init(ctx context.Context) error {
	data, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.phase = PhaseInit
	m.user = nil

	if !ok {
		return nil
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		m.logger.Warn("discarding unreadable session", "error", err)
		return nil
	}
	if p.State.User == nil {
		return nil
	}
	if err := p.State.User.Validate(); err != nil {
		m.logger.Warn("discarding invalid session", "error", err)
		return nil
	}

	m.user = p.State.User
	m.phase = PhaseAuthenticated
	m.logger.Info("session restored", "user_id", m.user.ID, "role", m.user.Role)
	return nil
}

// SetUser authenticates the session and persists it.
func (m *Manager) SetUser(ctx context.Context, u User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseNew {
		return ErrNotInitialized
	}

	var p persisted
	p.State.User = &u
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := m.store.Put(ctx, m.key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	m.user = &u
	m.phase = PhaseAuthenticated
	m.logger.Info("session authenticated", "user_id", u.ID, "role", u.Role)
	return nil
}

// Clear signs the user out and removes the persisted session.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseNew {
		return ErrNotInitialized
	}
	if err := m.store.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	m.user = nil
	m.phase = PhaseCleared
	m.logger.Info("session cleared")
	return nil
}

// Current returns the signed-in user.
func (m *Manager) Current() (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return User{}, false
	}
	return *m.user, true
}

// Phase returns the lifecycle phase.
func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}
