package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
	authservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/auth"
	chatservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/chat"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/session"
)

func testApp(t *testing.T) App {
	t.Helper()
	sess, err := session.NewStore(session.NewMemoryStorage(), nopResolver{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authSvc := authservice.NewService(nil, sess, nil)
	feed := chatservice.NewFeed(&nopChatAPI{}, sess, nil)
	a := NewApp(authSvc, feed, sess, nil)
	a.current = screenLogin
	return a
}

func updateApp(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	model, _ := a.Update(msg)
	next, ok := model.(App)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return next
}

func TestLoginUsableAgainAfterLogout(t *testing.T) {
	a := testApp(t)

	// A successful sign-in leaves the login screen mid-submit when the
	// app transitions away from it.
	a.login.submitting = true
	a = updateApp(t, a, loggedInMsg{user: &auth.User{ID: "u1", Name: "Test"}})
	if a.current != screenDashboard {
		t.Fatalf("expected dashboard, got screen %d", a.current)
	}

	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyCtrlL})
	if a.current != screenLogin {
		t.Fatalf("expected login screen after logout, got screen %d", a.current)
	}
	if a.login.submitting {
		t.Fatal("login screen must accept input again after logout")
	}

	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if got := a.login.form.value(loginFieldIdentifier); got != "x" {
		t.Fatalf("expected typed input to reach the form, got %q", got)
	}
}

func TestLoginUsableAfterSessionExpiry(t *testing.T) {
	a := testApp(t)
	a.login.submitting = true
	a = updateApp(t, a, loggedInMsg{user: &auth.User{ID: "u1"}})

	a = updateApp(t, a, feedFailedMsg{notice: "invalid token", unauthorized: true})
	if a.current != screenLogin {
		t.Fatalf("expected redirect to login, got screen %d", a.current)
	}
	if a.login.submitting {
		t.Fatal("login screen must accept input after an expiry redirect")
	}
	if snap := a.sess.Snapshot(); snap.Token != "" || snap.User != nil {
		t.Fatalf("expected cleared session, got %+v", snap)
	}
}

func TestRegisterScreenFreshOnEachVisit(t *testing.T) {
	a := testApp(t)

	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyCtrlN})
	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b', 'o', 'b'}})
	if got := a.register.form.value(registerFieldName); got != "bob" {
		t.Fatalf("expected typed name, got %q", got)
	}

	// After the code is sent the screen transitions away mid-submit.
	a.register.submitting = true
	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyCtrlN})

	if a.register.submitting {
		t.Fatal("register screen must accept input on a fresh visit")
	}
	if got := a.register.form.value(registerFieldName); got != "" {
		t.Fatalf("expected blank form on a fresh visit, got %q", got)
	}
}

func TestForgotScreenFreshAfterCodeSent(t *testing.T) {
	a := testApp(t)

	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyCtrlP})
	a.forgot.submitting = true
	a = updateApp(t, a, resetCodeSentMsg{email: "u@test.com"})
	if a.current != screenReset {
		t.Fatalf("expected reset screen, got screen %d", a.current)
	}

	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	a = updateApp(t, a, tea.KeyMsg{Type: tea.KeyCtrlP})
	if a.forgot.submitting {
		t.Fatal("forgot screen must accept input on a fresh visit")
	}
	if got := a.forgot.form.value(0); got != "" {
		t.Fatalf("expected blank form on a fresh visit, got %q", got)
	}
}
