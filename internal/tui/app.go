// Package tui is the terminal front end: auth screens and the chat
// dashboard. It owns all screen transitions; the underlying services only
// report outcomes.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	authservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/auth"
	chatservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/chat"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/session"
)

type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenRegister
	screenVerify
	screenForgot
	screenReset
	screenDashboard
)

// App is the root bubbletea model.
type App struct {
	auth    *authservice.Service
	sess    *session.Store
	styles  Styles
	log     *zap.Logger
	current screen

	login     loginModel
	register  registerModel
	verify    verifyModel
	forgot    forgotModel
	reset     resetModel
	dashboard dashboardModel

	notice    string
	noticeErr bool
	width     int
	height    int
}

// NewApp wires the screens to the services.
func NewApp(auth *authservice.Service, feed *chatservice.Feed, sess *session.Store, log *zap.Logger) App {
	if log == nil {
		log = zap.NewNop()
	}
	styles := DefaultStyles()
	return App{
		auth:      auth,
		sess:      sess,
		styles:    styles,
		log:       log,
		current:   screenLoading,
		login:     newLoginModel(auth, styles),
		register:  newRegisterModel(auth, styles),
		verify:    newVerifyModel(auth, styles),
		forgot:    newForgotModel(auth, styles),
		reset:     newResetModel(auth, styles),
		dashboard: newDashboardModel(feed, styles),
	}
}

// Init resolves any persisted token before the first screen is chosen;
// until then the session is indeterminate, not unauthenticated.
func (a App) Init() tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		sess.Bootstrap(context.Background())
		return sessionReadyMsg{snapshot: sess.Snapshot()}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return a, tea.Quit
		case tea.KeyEsc:
			if a.current == screenRegister || a.current == screenVerify ||
				a.current == screenForgot || a.current == screenReset {
				a.current = screenLogin
				a.login = a.login.reset()
				a.notice = ""
				return a, nil
			}
		case tea.KeyCtrlN:
			if a.current == screenLogin {
				a.current = screenRegister
				a.register = a.register.reset()
				a.notice = ""
				return a, nil
			}
		case tea.KeyCtrlP:
			if a.current == screenLogin {
				a.current = screenForgot
				a.forgot = a.forgot.reset()
				a.notice = ""
				return a, nil
			}
		case tea.KeyCtrlL:
			if a.current == screenDashboard {
				a.auth.Logout()
				a.current = screenLogin
				a.login = a.login.reset()
				a.setNotice("Logged out", false)
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case sessionReadyMsg:
		if msg.snapshot.State == session.StateAuthenticated {
			a.current = screenDashboard
			var cmd tea.Cmd
			a.dashboard, cmd = a.dashboard.begin(msg.snapshot.User)
			return a, cmd
		}
		a.current = screenLogin
		return a, nil

	case loggedInMsg:
		a.current = screenDashboard
		a.setNotice("Welcome back, "+msg.user.Name, false)
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.begin(msg.user)
		return a, cmd

	case registeredMsg:
		a.current = screenVerify
		a.verify = a.verify.begin(msg.userID, msg.email)
		a.setNotice("Check your email for the verification code", false)
		return a, nil

	case resetCodeSentMsg:
		a.current = screenReset
		a.reset = a.reset.begin(msg.email)
		a.setNotice("Reset code sent to your email", false)
		return a, nil

	case passwordResetMsg:
		a.current = screenLogin
		a.login = a.login.reset()
		a.setNotice("Password reset, sign in with your new password", false)
		return a, nil

	case authFailedMsg:
		a.setNotice(msg.notice, true)
		// fall through to the active screen so it can clear its
		// submitting state.

	case feedFailedMsg:
		if msg.unauthorized {
			// Token rejected mid-session: clear it and go back to login.
			a.auth.Logout()
			a.current = screenLogin
			a.login = a.login.reset()
			a.setNotice("Session expired, please sign in again", true)
			return a, nil
		}
		a.setNotice(msg.notice, true)
	}

	return a.updateScreen(msg)
}

func (a App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.current {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
	case screenRegister:
		a.register, cmd = a.register.Update(msg)
	case screenVerify:
		a.verify, cmd = a.verify.Update(msg)
	case screenForgot:
		a.forgot, cmd = a.forgot.Update(msg)
	case screenReset:
		a.reset, cmd = a.reset.Update(msg)
	case screenDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	}
	return a, cmd
}

func (a *App) setNotice(text string, isErr bool) {
	a.notice = text
	a.noticeErr = isErr
}

func (a App) View() string {
	var body string
	switch a.current {
	case screenLoading:
		body = a.styles.Hint.Render("Restoring session...")
	case screenLogin:
		body = a.login.View()
	case screenRegister:
		body = a.register.View()
	case screenVerify:
		body = a.verify.View()
	case screenForgot:
		body = a.forgot.View()
	case screenReset:
		body = a.reset.View()
	case screenDashboard:
		body = a.dashboard.View()
	}

	if a.notice != "" {
		style := a.styles.Notice
		if a.noticeErr {
			style = a.styles.Error
		}
		body += "\n" + style.Render(a.notice)
	}
	return body
}
