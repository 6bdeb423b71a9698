// Package auth implements the stub server's account store and the
// /auth endpoints of the Onimo contract.
package auth

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmodel "github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
)

var (
	// ErrDuplicateAccount is returned when the email or phone is taken.
	ErrDuplicateAccount = errors.New("an account with this email or phone already exists")
	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCode is returned for a wrong or stale verification/reset code.
	ErrInvalidCode = errors.New("invalid or expired code")
	// ErrNotVerified is returned when an unverified account tries to log in.
	ErrNotVerified = errors.New("email not verified")
	// ErrInvalidToken is returned when a bearer token resolves to nothing.
	ErrInvalidToken = errors.New("invalid token")
)

type account struct {
	user         authmodel.User
	passwordHash []byte
}

// Store keeps accounts, pending codes and issued tokens in memory.
type Store struct {
	mu         sync.Mutex
	users      map[string]*account // by user id
	byEmail    map[string]string   // email -> user id
	byPhone    map[string]string   // phone -> user id
	codes      map[string]string   // user id -> verification code
	resetCodes map[string]string   // email -> reset code
	tokens     map[string]string   // bearer token -> user id
}

// NewStore creates an empty account store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*account),
		byEmail:    make(map[string]string),
		byPhone:    make(map[string]string),
		codes:      make(map[string]string),
		resetCodes: make(map[string]string),
		tokens:     make(map[string]string),
	}
}

// Register creates an unverified account and returns the user id plus the
// 6-digit verification code (the stub logs it instead of mailing it).
func (s *Store) Register(name, email, phone, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return "", "", ErrDuplicateAccount
	}
	if phone != "" {
		if _, ok := s.byPhone[phone]; ok {
			return "", "", ErrDuplicateAccount
		}
	}

	id := uuid.NewString()
	s.users[id] = &account{
		user: authmodel.User{
			ID:    id,
			Name:  strings.TrimSpace(name),
			Email: email,
			Phone: phone,
		},
		passwordHash: hash,
	}
	s.byEmail[email] = id
	if phone != "" {
		s.byPhone[phone] = id
	}

	code := newCode()
	s.codes[id] = code
	return id, code, nil
}

// ConfirmEmail verifies the registration code, marks the account verified
// and issues a bearer token.
func (s *Store) ConfirmEmail(userID, code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.users[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	if expected, ok := s.codes[userID]; !ok || expected != code {
		return "", ErrInvalidCode
	}

	delete(s.codes, userID)
	acct.user.Verified = true
	return s.issueToken(userID), nil
}

// Login checks credentials by email or phone and issues a bearer token.
func (s *Store) Login(emailOrPhone, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(emailOrPhone))]
	if !ok {
		id, ok = s.byPhone[strings.TrimSpace(emailOrPhone)]
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	acct := s.users[id]
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if !acct.user.Verified {
		return "", ErrNotVerified
	}
	return s.issueToken(id), nil
}

// GoogleLogin accepts any non-empty provider token and signs in a derived
// account, creating it on first use. The stub does not validate the token
// against Google.
func (s *Store) GoogleLogin(idToken string) (string, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return "", ErrInvalidCredentials
	}

	email := fmt.Sprintf("google-%x@example.com", shortHash(idToken))

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		id = uuid.NewString()
		s.users[id] = &account{
			user: authmodel.User{
				ID:       id,
				Name:     "Google User",
				Email:    email,
				Verified: true,
			},
		}
		s.byEmail[email] = id
	}
	return s.issueToken(id), nil
}

// StartReset generates a reset code for the account's email.
func (s *Store) StartReset(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; !ok {
		return "", ErrUserNotFound
	}

	code := newCode()
	s.resetCodes[email] = code
	return code, nil
}

// ResetPassword sets a new password when the reset code matches. All
// previously issued tokens for the account are revoked.
func (s *Store) ResetPassword(email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return ErrUserNotFound
	}
	if expected, ok := s.resetCodes[email]; !ok || expected != code {
		return ErrInvalidCode
	}

	delete(s.resetCodes, email)
	s.users[id].passwordHash = hash

	for token, owner := range s.tokens {
		if owner == id {
			delete(s.tokens, token)
		}
	}
	return nil
}

// UserForToken resolves a bearer token to its user record.
func (s *Store) UserForToken(token string) (authmodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokens[token]
	if !ok {
		return authmodel.User{}, ErrInvalidToken
	}
	return s.users[id].user, nil
}

// issueToken mints a bearer token for the user. Caller holds the lock.
func (s *Store) issueToken(userID string) string {
	token := uuid.NewString()
	s.tokens[token] = userID
	return token
}

func newCode() string {
	return fmt.Sprintf("%06d", rand.IntN(1_000_000))
}

func shortHash(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
