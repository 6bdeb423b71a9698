package tui

import (
	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/chat"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/session"
)

// Messages emitted by commands. Screen transitions happen in App.Update
// based on these outcomes; the services themselves never navigate.
type (
	sessionReadyMsg struct{ snapshot session.Snapshot }

	loggedInMsg   struct{ user *auth.User }
	registeredMsg struct {
		userID string
		email  string
	}
	resetCodeSentMsg struct{ email string }
	passwordResetMsg struct{}

	// authFailedMsg carries the user-facing notice for a failed auth
	// operation; the session was left untouched.
	authFailedMsg struct{ notice string }

	feedLoadedMsg struct{ exchanges []chat.Exchange }
	submittedMsg  struct{}
	feedFailedMsg struct {
		notice       string
		unauthorized bool
	}
)
