package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/api"
	authservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/auth"
)

type registerModel struct {
	form       form
	submitting bool
	styles     Styles
	auth       *authservice.Service
}

const (
	registerFieldName = iota
	registerFieldEmail
	registerFieldPhone
	registerFieldPassword
	registerFieldConfirm
)

func newRegisterModel(auth *authservice.Service, styles Styles) registerModel {
	return registerModel{
		form: newForm(
			textField("Full name", 100),
			textField("Email", 254),
			textField("Phone", 20),
			passwordField("Password"),
			passwordField("Confirm password"),
		),
		styles: styles,
		auth:   auth,
	}
}

// reset blanks the form for a fresh visit to the screen.
func (m registerModel) reset() registerModel {
	m.form.reset()
	m.submitting = false
	return m
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
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

func (m registerModel) submit() (registerModel, tea.Cmd) {
	name := strings.TrimSpace(m.form.value(registerFieldName))
	email := strings.TrimSpace(m.form.value(registerFieldEmail))
	phone := strings.TrimSpace(m.form.value(registerFieldPhone))
	password := m.form.value(registerFieldPassword)
	confirm := m.form.value(registerFieldConfirm)

	// Local validation never reaches the network.
	if name == "" || email == "" || password == "" {
		return m, func() tea.Msg {
			return authFailedMsg{notice: "Name, email and password are required"}
		}
	}
	if password != confirm {
		return m, func() tea.Msg {
			return authFailedMsg{notice: "Passwords do not match"}
		}
	}

	m.submitting = true
	svc := m.auth
	return m, func() tea.Msg {
		userID, err := svc.Register(context.Background(), name, email, phone, password)
		if err != nil {
			return authFailedMsg{notice: api.UserMessage(err, "Registration failed")}
		}
		return registeredMsg{userID: userID, email: email}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Create your Onimo account"))
	b.WriteString("\n\n")
	labels := []string{"Full name", "Email", "Phone (optional)", "Password", "Confirm password"}
	for i, label := range labels {
		b.WriteString(m.styles.Label.Render(label) + "\n")
		b.WriteString(m.form.inputs[i].View() + "\n\n")
	}
	if m.submitting {
		b.WriteString(m.styles.Hint.Render("Creating account..."))
	} else {
		b.WriteString(m.styles.Hint.Render("enter: register · esc: back to sign in"))
	}
	return m.styles.FormBox.Render(b.String())
}
