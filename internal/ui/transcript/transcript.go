// Package transcript renders the chat history with a loading indicator
// while a request is outstanding.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/keys"
	"github.com/zjrosen/airdesk/internal/ui/markdown"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

const userLabel = "You"

// Renderer turns assistant markdown into styled text.
type Renderer interface {
	Render(id, text string, width int) string
}

var _ Renderer = (*markdown.Cache)(nil)

// Render draws every displayable message: a role label followed by the
// wrapped content. Control messages such as the seat map directive are
// skipped. A nil renderer shows assistant text as plain wrapped text.
func Render(messages []domain.Message, width int, r Renderer) string {
	var b strings.Builder
	for _, msg := range messages {
		if !msg.Renderable() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}

		if msg.Role == domain.RoleUser {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.BubbleUserColor).Bold(true).Render(userLabel))
			b.WriteString("\n")
			b.WriteString(styles.Wrap(msg.Content, width))
			continue
		}

		label := msg.Agent
		if label == "" {
			label = "Assistant"
		}
		b.WriteString(styles.AgentLabelStyle.Render(label))
		b.WriteString("\n")
		if r != nil {
			b.WriteString(r.Render(msg.ID, msg.Content, width))
		} else {
			b.WriteString(styles.Wrap(msg.Content, width))
		}
	}
	return b.String()
}

// Model is the scrollable transcript.
type Model struct {
	renderer Renderer
	viewport viewport.Model
	spinner  spinner.Model
	messages []domain.Message
	pending  bool
	width    int
	height   int
}

// New creates an empty transcript.
func New(r Renderer) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.SpinnerStyle
	return Model{renderer: r, spinner: sp, viewport: viewport.New(0, 0)}
}

// SetSize sets the visible area.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-1, 1)
	return m.refresh(true)
}

// SetMessages replaces the transcript. New messages scroll into view when
// the user had not scrolled away from the bottom. Entering the pending state
// starts the spinner.
func (m Model) SetMessages(messages []domain.Message, pending bool) (Model, tea.Cmd) {
	follow := m.viewport.AtBottom() || (len(messages) > len(m.messages) && messages[len(messages)-1].Role == domain.RoleUser)
	startSpinner := pending && !m.pending

	m.messages = messages
	m.pending = pending
	m = m.refresh(follow)
	if startSpinner {
		return m, m.spinner.Tick
	}
	return m, nil
}

// Pending reports whether the loading indicator is shown.
func (m Model) Pending() bool {
	return m.pending
}

// Update advances the spinner and handles scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Console.ScrollUp):
			m.viewport.HalfPageUp()
		case key.Matches(msg, keys.Console.ScrollDown):
			m.viewport.HalfPageDown()
		}
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the transcript and, while pending, the loading line below it.
func (m Model) View() string {
	status := ""
	if m.pending {
		status = m.spinner.View() + " " + styles.MutedStyle.Render("Waiting for the agents…")
	}
	return m.viewport.View() + "\n" + status
}

func (m Model) refresh(follow bool) Model {
	content := Render(m.messages, max(m.width-1, 10), m.renderer)
	if content == "" {
		content = styles.MutedStyle.Render("Say hello to start the conversation.")
	}
	m.viewport.SetContent(content)
	if follow {
		m.viewport.GotoBottom()
	}
	return m
}
