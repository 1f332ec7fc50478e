// Package session holds the authenticated session: the bearer token and the
// current user. The session lives in memory and in durable storage at the
// same time, and every change goes through Authenticate or Clear so the two
// never diverge.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/matheus3301/wppdash/internal/bus"
	"github.com/matheus3301/wppdash/internal/model"
	"github.com/matheus3301/wppdash/internal/status"
	"go.uber.org/zap"
)

// Durable storage keys.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// DefaultUserName is shown when no user is loaded.
const DefaultUserName = "Utilisateur"

// Storage is the durable key/value store backing the session.
type Storage interface {
	Get(key string) (string, bool, error)
	SetAll(entries map[string]string) error
	Delete(keys ...string) error
}

// Session is the client's authentication context. It is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	storage Storage
	machine *status.Machine
	bus     *bus.Bus
	logger  *zap.Logger

	token string
	user  *model.User
}

// Load reconstructs the session from durable storage. An unreadable user
// entry is treated as absent.
func Load(storage Storage, b *bus.Bus, logger *zap.Logger) (*Session, error) {
	token, _, err := storage.Get(TokenKey)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	rawUser, ok, err := storage.Get(UserKey)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	var user *model.User
	if ok {
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			logger.Warn("ignoring unreadable stored user", zap.Error(err))
			user = nil
		}
	}

	initial := status.Anonymous
	if token != "" {
		initial = status.Authenticated
	}

	return &Session{
		storage: storage,
		machine: status.NewMachine(initial, b),
		bus:     b,
		logger:  logger,
		token:   token,
		user:    user,
	}, nil
}

// Token returns the bearer token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user, or nil when none is stored.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UserName returns the current user's name or DefaultUserName.
func (s *Session) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.Name == "" {
		return DefaultUserName
	}
	return s.user.Name
}

// IsAuthenticated reports whether a token is present.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// State returns the current authentication state.
func (s *Session) State() status.State {
	return s.machine.Current()
}

// Authenticate records user and token, durable storage first. Both keys are
// written together; on a storage error neither storage nor memory changes.
func (s *Session) Authenticate(user *model.User, token string) error {
	if token == "" {
		return errors.New("authenticate: empty token")
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetAll(map[string]string{UserKey: string(raw), TokenKey: token}); err != nil {
		return err
	}
	s.user = user
	s.token = token
	return s.machine.Transition(status.Authenticated)
}

// Clear removes the session from durable storage and memory. Clearing an
// anonymous session only scrubs storage.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.storage.Delete(TokenKey, UserKey)
	s.token = ""
	s.user = nil
	if s.machine.Current() == status.Authenticated {
		if terr := s.machine.Transition(status.Anonymous); terr != nil {
			err = errors.Join(err, terr)
		}
	}
	s.bus.Emit(bus.SessionCleared, nil)
	return err
}
