// Package toaster shows short-lived notifications in the top-right corner.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/airdesk/internal/ui/overlay"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

// Style picks the border color and icon of a toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// DefaultDuration is how long a toast stays up when shown with Notify.
const DefaultDuration = 4 * time.Second

// DismissMsg hides the toast it was scheduled for. A newer toast bumps the
// sequence so stale timers leave it alone.
type DismissMsg struct {
	Seq int
}

// Model holds at most one visible toast.
type Model struct {
	message string
	style   Style
	visible bool
	seq     int
}

// New creates an empty toaster.
func New() Model {
	return Model{}
}

// Show displays message, replacing any current toast.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m
}

// Notify shows message and schedules its dismissal after DefaultDuration.
func (m Model) Notify(message string, style Style) (Model, tea.Cmd) {
	m = m.Show(message, style)
	return m, m.ScheduleDismiss(DefaultDuration)
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.visible
}

// ScheduleDismiss returns a command that dismisses the current toast after d.
func (m Model) ScheduleDismiss(d time.Duration) tea.Cmd {
	seq := m.seq
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{Seq: seq}
	})
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.Seq == m.seq {
		return m.Hide()
	}
	return m
}

// View renders the toast box, or "" when hidden.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	var (
		border lipgloss.AdaptiveColor
		icon   string
	)
	switch m.style {
	case StyleError:
		border, icon = styles.ToastBorderErrorColor, "✗"
	case StyleInfo:
		border, icon = styles.ToastBorderInfoColor, "i"
	case StyleWarn:
		border, icon = styles.ToastBorderWarnColor, "!"
	default:
		border, icon = styles.ToastBorderSuccessColor, "✓"
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(icon + " " + m.message)
}

// Overlay draws the toast over bg.
func (m Model) Overlay(bg string, width, height int) string {
	fg := m.View()
	if fg == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.TopRight,
		PadX:     1,
		PadY:     1,
	}, fg, bg)
}
