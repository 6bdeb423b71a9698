// Package auth implements the authentication operations: each one calls
// the remote service, mutates the session store on success, and returns
// the failure to the caller otherwise. Screen transitions are decided by
// the caller from the returned outcome, never inside an operation.
package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/session"
)

var (
	ErrMissingCredentials = errors.New("identifier and password are required")
	ErrMissingEmail       = errors.New("email is required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrMissingContext     = errors.New("missing registration context")
)

// API is the slice of the chat service client the operations need.
type API interface {
	Login(ctx context.Context, emailOrPhone, password string) (string, error)
	Register(ctx context.Context, name, email, phone, password string) (string, error)
	GoogleLogin(ctx context.Context, idToken string) (string, error)
	VerifyEmail(ctx context.Context, userID, code string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// Service wires the API client to the session store.
type Service struct {
	api     API
	session *session.Store
	log     *zap.Logger
}

// NewService creates the auth operations service.
func NewService(api API, sess *session.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, session: sess, log: log}
}

// Login exchanges credentials for a token, stores it and resolves the
// identity. The session is untouched on failure.
func (s *Service) Login(ctx context.Context, emailOrPhone, password string) (*auth.User, error) {
	if strings.TrimSpace(emailOrPhone) == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	token, err := s.api.Login(ctx, emailOrPhone, password)
	if err != nil {
		return nil, err
	}

	user, err := s.session.SetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	s.log.Info("login succeeded", zap.String("user", user.ID))
	return user, nil
}

// Register creates an unverified account. No session mutation: the email
// must be verified before a token is issued.
func (s *Service) Register(ctx context.Context, name, email, phone, password string) (string, error) {
	return s.api.Register(ctx, name, email, phone, password)
}

// GoogleLogin authenticates with an identity-provider token.
func (s *Service) GoogleLogin(ctx context.Context, idToken string) (*auth.User, error) {
	token, err := s.api.GoogleLogin(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return s.session.SetToken(ctx, token)
}

// VerifyEmail confirms the 6-digit code sent at registration and signs
// the user in with the returned token.
func (s *Service) VerifyEmail(ctx context.Context, userID, code string) (*auth.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingContext
	}

	token, err := s.api.VerifyEmail(ctx, userID, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	return s.session.SetToken(ctx, token)
}

// ForgotPassword dispatches a reset code. No session mutation.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrMissingEmail
	}
	return s.api.ForgotPassword(ctx, email)
}

// ResetPassword sets a new password from a reset code. The confirmation
// mismatch is rejected locally, before any network call.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword, confirm string) error {
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if strings.TrimSpace(email) == "" {
		return ErrMissingEmail
	}
	return s.api.ResetPassword(ctx, email, strings.TrimSpace(code), newPassword)
}

// Logout clears the session. Idempotent, always succeeds locally.
func (s *Service) Logout() {
	s.session.ClearToken()
	s.log.Info("logged out")
}
