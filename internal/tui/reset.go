package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/api"
	authservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/auth"
)

// resetModel sets a new password with the emailed code. The email is
// carried over from the forgot-password screen.
type resetModel struct {
	form       form
	email      string
	submitting bool
	styles     Styles
	auth       *authservice.Service
}

const (
	resetFieldCode = iota
	resetFieldPassword
	resetFieldConfirm
)

func newResetModel(auth *authservice.Service, styles Styles) resetModel {
	return resetModel{
		form: newForm(
			textField("6-digit code", 6),
			passwordField("New password"),
			passwordField("Confirm new password"),
		),
		styles: styles,
		auth:   auth,
	}
}

// begin arms the screen with the email from the forgot-password flow.
func (m resetModel) begin(email string) resetModel {
	m.email = email
	m.form.reset()
	m.submitting = false
	return m
}

func (m resetModel) Update(msg tea.Msg) (resetModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyTab, tea.KeyDown:
			return m, m.form.cycle(1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.form.cycle(-1)
		case tea.KeyEnter:
			return m.submit()
		}
	case authFailedMsg:
		m.submitting = false
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m resetModel) submit() (resetModel, tea.Cmd) {
	code := strings.TrimSpace(m.form.value(resetFieldCode))
	password := m.form.value(resetFieldPassword)
	confirm := m.form.value(resetFieldConfirm)

	// The mismatch check happens here, before any network call.
	if password != confirm {
		return m, func() tea.Msg {
			return authFailedMsg{notice: "Passwords do not match"}
		}
	}
	if code == "" || password == "" {
		return m, func() tea.Msg {
			return authFailedMsg{notice: "Code and new password are required"}
		}
	}

	m.submitting = true
	svc := m.auth
	email := m.email
	return m, func() tea.Msg {
		if err := svc.ResetPassword(context.Background(), email, code, password, confirm); err != nil {
			return authFailedMsg{notice: api.UserMessage(err, "Password reset failed")}
		}
		return passwordResetMsg{}
	}
}

func (m resetModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Reset password"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Code sent to " + m.email))
	b.WriteString("\n\n")
	labels := []string{"Reset code", "New password", "Confirm new password"}
	for i, label := range labels {
		b.WriteString(m.styles.Label.Render(label) + "\n")
		b.WriteString(m.form.inputs[i].View() + "\n\n")
	}
	if m.submitting {
		b.WriteString(m.styles.Hint.Render("Resetting..."))
	} else {
		b.WriteString(m.styles.Hint.Render("enter: reset password · esc: back to sign in"))
	}
	return m.styles.FormBox.Render(b.String())
}
