package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/api"
	authservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/auth"
)

// verifyModel asks for the 6-digit code mailed at registration. It is
// only reachable with the userID carried over from a registration; the
// app never shows it without that context.
type verifyModel struct {
	form       form
	userID     string
	email      string
	submitting bool
	styles     Styles
	auth       *authservice.Service
}

func newVerifyModel(auth *authservice.Service, styles Styles) verifyModel {
	code := textField("6-digit code", 6)
	return verifyModel{
		form:   newForm(code),
		styles: styles,
		auth:   auth,
	}
}

// begin arms the screen with the registration context.
func (m verifyModel) begin(userID, email string) verifyModel {
	m.userID = userID
	m.email = email
	m.form.reset()
	m.submitting = false
	return m
}

func (m verifyModel) Update(msg tea.Msg) (verifyModel, tea.Cmd) {
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

func (m verifyModel) submit() (verifyModel, tea.Cmd) {
	code := strings.TrimSpace(m.form.value(0))
	if len(code) != 6 {
		return m, func() tea.Msg {
			return authFailedMsg{notice: "Enter the 6-digit code from your email"}
		}
	}

	m.submitting = true
	svc := m.auth
	userID := m.userID
	return m, func() tea.Msg {
		user, err := svc.VerifyEmail(context.Background(), userID, code)
		if err != nil {
			return authFailedMsg{notice: api.UserMessage(err, "Email verification failed")}
		}
		return loggedInMsg{user: user}
	}
}

func (m verifyModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Verify your email"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("We sent a 6-digit code to " + m.email))
	b.WriteString("\n\n")
	b.WriteString(m.form.inputs[0].View() + "\n\n")
	if m.submitting {
		b.WriteString(m.styles.Hint.Render("Verifying..."))
	} else {
		b.WriteString(m.styles.Hint.Render("enter: verify · esc: back to sign in"))
	}
	return m.styles.FormBox.Render(b.String())
}
