package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alamin17ui/onimo-chat-auth-core/internal/api"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/auth"
	"github.com/alamin17ui/onimo-chat-auth-core/internal/model/chat"
	chatservice "github.com/alamin17ui/onimo-chat-auth-core/internal/service/chat"
)

// dashboardModel renders the exchange history and the message input.
// While a submission is pending the input is disabled, so at most one
// submission is ever in flight from this screen.
type dashboardModel struct {
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    Styles
	feed      *chatservice.Feed
	user      *auth.User
	exchanges []chat.Exchange
	loading   bool
	sending   bool
	ready     bool
	width     int
	height    int
}

func newDashboardModel(feed *chatservice.Feed, styles Styles) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	return dashboardModel{
		input:    ti,
		viewport: vp,
		spinner:  sp,
		styles:   styles,
		feed:     feed,
	}
}

// begin arms the dashboard for the signed-in user and kicks off the
// initial feed load.
func (m dashboardModel) begin(user *auth.User) (dashboardModel, tea.Cmd) {
	m.user = user
	m.loading = true
	m.exchanges = nil
	m.input.SetValue("")
	return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)
}

func (m dashboardModel) refreshCmd() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		exchanges, err := feed.Refresh(context.Background())
		if err != nil {
			return feedFailedMsg{
				notice:       api.UserMessage(err, "Failed to fetch chats"),
				unauthorized: api.IsUnauthorized(err) || errors.Is(err, chatservice.ErrNotAuthed),
			}
		}
		return feedLoadedMsg{exchanges: exchanges}
	}
}

func (m dashboardModel) submitCmd(text string) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		if _, err := feed.Submit(context.Background(), text); err != nil {
			return feedFailedMsg{
				notice:       api.UserMessage(err, "Failed to send message"),
				unauthorized: api.IsUnauthorized(err) || errors.Is(err, chatservice.ErrNotAuthed),
			}
		}
		return submittedMsg{}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			// Submit affordance is off while a send is pending.
			if m.sending {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			// The input keeps the text until the service accepts it, so a
			// failed send loses nothing.
			m.sending = true
			return m, tea.Batch(m.submitCmd(text), m.spinner.Tick)
		case tea.KeyCtrlR:
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)
			}
			return m, nil
		}

		var cmd tea.Cmd
		if !m.sending {
			m.input, cmd = m.input.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerHeight := 3
		footerHeight := 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.input.Width = msg.Width - 6
		m.viewport.SetContent(m.renderHistory())
		return m, nil

	case spinner.TickMsg:
		if m.loading || m.sending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case feedLoadedMsg:
		m.loading = false
		m.exchanges = msg.exchanges
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case submittedMsg:
		// The created exchange is not spliced in; re-fetch the full list.
		m.sending = false
		m.loading = true
		m.input.SetValue("")
		return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)

	case feedFailedMsg:
		m.loading = false
		m.sending = false
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m dashboardModel) renderHistory() string {
	if len(m.exchanges) == 0 {
		return m.styles.Hint.Render("Start a conversation, ask me anything!")
	}

	var b strings.Builder
	for _, ex := range m.exchanges {
		ts := m.styles.Timestamp.Render(ex.CreatedAt.Local().Format("15:04"))
		b.WriteString(fmt.Sprintf("%s %s\n", m.styles.UserMsg.Render("You:"), ex.Message))
		b.WriteString(fmt.Sprintf("%s %s %s\n\n", m.styles.BotMsg.Render("Onimo:"), ex.Answer, ts))
	}
	return b.String()
}

func (m dashboardModel) View() string {
	name := ""
	if m.user != nil {
		name = m.user.Name
	}
	header := m.styles.Title.Render("Onimo") + "  " + m.styles.Subtitle.Render(name)

	status := ""
	switch {
	case m.sending:
		status = m.spinner.View() + " waiting for reply..."
	case m.loading:
		status = m.spinner.View() + " loading chats..."
	}

	footer := m.input.View() + "\n" +
		m.styles.Hint.Render("enter: send · ctrl+r: refresh · ctrl+l: sign out · ctrl+c: quit")

	return header + "\n\n" + m.viewport.View() + "\n" + status + "\n" + footer
}
