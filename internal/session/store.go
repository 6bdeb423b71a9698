// Package session owns the authenticated session: the persisted bearer
// token and the identity it resolves to. All mutation goes through the
// Store; token and user are updated together under one lock.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
)

var (
	// ErrNoToken is returned when an operation needs a stored credential
	// and none is present.
	ErrNoToken = errors.New("no token stored")
)

// State describes what the store knows about the current session.
type State int

const (
	// StateResolving means a persisted token exists but identity
	// resolution has not completed; callers must treat the session as
	// indeterminate, not unauthenticated.
	StateResolving State = iota
	StateAnonymous
	StateAuthenticated
)

// Snapshot is an atomic view of the session.
type Snapshot struct {
	Token string
	User  *auth.User
	State State
}

// IdentityResolver exchanges a token for the user record it authorizes.
type IdentityResolver interface {
	Me(ctx context.Context, token string) (*auth.User, error)
}

// Store holds the current session. Resolution failures are terminal for
// that token: it is discarded and the caller must re-authenticate.
type Store struct {
	mu       sync.RWMutex
	token    string
	user     *auth.User
	state    State
	storage  TokenStorage
	resolver IdentityResolver
	log      *zap.Logger
}

// NewStore loads any persisted token. When one exists the store starts in
// StateResolving; Bootstrap must run before the session is trusted.
func NewStore(storage TokenStorage, resolver IdentityResolver, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	token, err := storage.Read()
	if err != nil {
		return nil, err
	}

	state := StateAnonymous
	if token != "" {
		state = StateResolving
	}

	return &Store{
		token:    token,
		state:    state,
		storage:  storage,
		resolver: resolver,
		log:      log,
	}, nil
}

// Bootstrap resolves the persisted token, if any. A failed resolution
// discards the token; the store ends up anonymous rather than erroring
// the caller, matching process-start semantics.
func (s *Store) Bootstrap(ctx context.Context) {
	s.mu.RLock()
	token := s.token
	state := s.state
	s.mu.RUnlock()

	if state != StateResolving {
		return
	}

	user, err := s.resolver.Me(ctx, token)
	if err != nil {
		s.log.Info("persisted token rejected, clearing", zap.Error(err))
		s.discard()
		return
	}
	s.commit(token, user)
}

// SetToken persists the credential and resolves the identity it grants.
// On any resolution failure the token is discarded and the error returned.
func (s *Store) SetToken(ctx context.Context, token string) (*auth.User, error) {
	if err := s.storage.Write(token); err != nil {
		return nil, err
	}

	user, err := s.resolver.Me(ctx, token)
	if err != nil {
		s.discard()
		return nil, err
	}

	s.commit(token, user)
	return user, nil
}

// ClearToken removes the credential and the resolved identity. Always
// succeeds locally; storage removal failures are logged only.
func (s *Store) ClearToken() {
	if err := s.storage.Clear(); err != nil {
		s.log.Warn("clearing persisted token failed", zap.Error(err))
	}
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
}

// Token returns the current credential, or ErrNoToken.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Snapshot returns an atomic view of the session.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, User: s.user, State: s.state}
}

func (s *Store) commit(token string, user *auth.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.state = StateAuthenticated
	s.mu.Unlock()
}

func (s *Store) discard() {
	if err := s.storage.Clear(); err != nil {
		s.log.Warn("clearing persisted token failed", zap.Error(err))
	}
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.state = StateAnonymous
	s.mu.Unlock()
}
