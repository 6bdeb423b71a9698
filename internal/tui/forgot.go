package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/api"
	authservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/auth"
)

type forgotModel struct {
	form       form
	submitting bool
	styles     Styles
	auth       *authservice.Service
}

func newForgotModel(auth *authservice.Service, styles Styles) forgotModel {
	return forgotModel{
		form:   newForm(textField("Email", 254)),
		styles: styles,
		auth:   auth,
	}
}

// reset blanks the form for a fresh visit to the screen.
func (m forgotModel) reset() forgotModel {
	m.form.reset()
	m.submitting = false
	return m
}

func (m forgotModel) Update(msg tea.Msg) (forgotModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	case authFailedMsg:
		m.submitting = false
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m forgotModel) submit() (forgotModel, tea.Cmd) {
	email := strings.TrimSpace(m.form.value(0))
	if email == "" {
		return m, func() tea.Msg {
			return authFailedMsg{notice: "Email is required"}
		}
	}

	m.submitting = true
	svc := m.auth
	return m, func() tea.Msg {
		if err := svc.ForgotPassword(context.Background(), email); err != nil {
			return authFailedMsg{notice: api.UserMessage(err, "Failed to send reset code")}
		}
		return resetCodeSentMsg{email: email}
	}
}

func (m forgotModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Forgot password"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("We'll email you a reset code"))
	b.WriteString("\n\n")
	b.WriteString(m.form.inputs[0].View() + "\n\n")
	if m.submitting {
		b.WriteString(m.styles.Hint.Render("Sending..."))
	} else {
		b.WriteString(m.styles.Hint.Render("enter: send code · esc: back to sign in"))
	}
	return m.styles.FormBox.Render(b.String())
}
