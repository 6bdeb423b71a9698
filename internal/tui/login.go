package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/api"
	authservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/auth"
)

type loginModel struct {
	form       form
	submitting bool
	styles     Styles
	auth       *authservice.Service
}

const (
	loginFieldIdentifier = iota
	loginFieldPassword
)

func newLoginModel(auth *authservice.Service, styles Styles) loginModel {
	return loginModel{
		form:   newForm(textField("Email or phone", 254), passwordField("Password")),
		styles: styles,
		auth:   auth,
	}
}

// reset blanks the form for a fresh visit to the screen.
func (m loginModel) reset() loginModel {
	m.form.reset()
	m.submitting = false
	return m
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
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

func (m loginModel) submit() (loginModel, tea.Cmd) {
	identifier := strings.TrimSpace(m.form.value(loginFieldIdentifier))
	password := m.form.value(loginFieldPassword)
	if identifier == "" || password == "" {
		return m, func() tea.Msg {
			return authFailedMsg{notice: "Enter your email or phone and password"}
		}
	}

	m.submitting = true
	svc := m.auth
	return m, func() tea.Msg {
		user, err := svc.Login(context.Background(), identifier, password)
		if err != nil {
			return authFailedMsg{notice: api.UserMessage(err, "Login failed")}
		}
		return loggedInMsg{user: user}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Sign in to Onimo"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Label.Render("Email or phone") + "\n")
	b.WriteString(m.form.inputs[loginFieldIdentifier].View() + "\n\n")
	b.WriteString(m.styles.Label.Render("Password") + "\n")
	b.WriteString(m.form.inputs[loginFieldPassword].View() + "\n\n")
	if m.submitting {
		b.WriteString(m.styles.Hint.Render("Signing in..."))
	} else {
		b.WriteString(m.styles.Hint.Render("enter: sign in · ctrl+n: create account · ctrl+p: forgot password"))
	}
	return m.styles.FormBox.Render(b.String())
}
