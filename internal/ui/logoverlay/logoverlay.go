// Package logoverlay shows the recent log tail on top of the console.
package logoverlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/airdesk/internal/log"
	"github.com/zjrosen/airdesk/internal/ui/overlay"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

const (
	maxViewportHeight = 25
	minViewportHeight = 5
	maxBoxWidth       = 160
	minBoxWidth       = 40
	tailSize          = 500
)

// CloseMsg is sent when the overlay closes itself.
type CloseMsg struct{}

// levelKeys maps filter keys to the minimum level they select.
var levelKeys = []struct {
	key   string
	label string
	level log.Level
}{
	{"d", "Debug", log.LevelDebug},
	{"i", "Info", log.LevelInfo},
	{"w", "Warn", log.LevelWarn},
	{"e", "Error", log.LevelError},
}

// Model is the overlay state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden overlay showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// Visible reports whether the overlay is open.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle opens or closes the overlay.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.Refresh()
	}
}

// SetSize records the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.Refresh()
}

// Refresh reloads the log tail, keeping the scroll pinned to the bottom
// when it was already there.
func (m *Model) Refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	atBottom := m.viewport.AtBottom() || m.viewport.Height == 0

	w := m.boxWidth() - 2
	h := max(min(maxViewportHeight, m.height-6), minViewportHeight)
	if m.viewport.Width != w || m.viewport.Height != h {
		m.viewport = viewport.New(w, h)
	}
	m.viewport.SetContent(m.content(w))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// Update handles keys while the overlay is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "c":
		log.Clear()
		m.Refresh()
	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	case "ctrl+x", "esc":
		m.visible = false
		return m, func() tea.Msg { return CloseMsg{} }
	default:
		for _, lk := range levelKeys {
			if key.String() == lk.key {
				m.minLevel = lk.level
				m.Refresh()
			}
		}
	}
	return m, nil
}

// View renders the overlay box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	w := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", w))
	title := styles.SectionTitleStyle.PaddingLeft(1).Render("Logs")

	body := strings.Join([]string{title, divider, m.viewport.View(), divider, m.hints()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Width(w).
		Render(body)
}

// Overlay centers the box over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height}, m.View(), bg)
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, maxBoxWidth), minBoxWidth)
}

func (m Model) content(width int) string {
	var lines []string
	for _, entry := range log.Recent(tailSize) {
		level, ok := entryLevel(entry)
		if ok && level < m.minLevel {
			continue
		}
		lines = append(lines, colorize(styles.TruncateString(entry, width), level, ok))
	}
	if len(lines) == 0 {
		return styles.MutedStyle.Italic(true).Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

func entryLevel(entry string) (log.Level, bool) {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l, true
		}
	}
	return log.LevelDebug, false
}

func colorize(entry string, level log.Level, known bool) string {
	color := styles.TextPrimaryColor
	if known {
		switch level {
		case log.LevelError:
			color = styles.StatusErrorColor
		case log.LevelWarn:
			color = styles.StatusWarningColor
		case log.LevelInfo:
			color = styles.ToastBorderInfoColor
		default:
			color = styles.TextMutedColor
		}
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

func (m Model) hints() string {
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)
	parts := []string{styles.MutedStyle.Render("[c] Clear")}
	for _, lk := range levelKeys {
		label := "[" + lk.key + "] " + lk.label
		if lk.level == m.minLevel {
			parts = append(parts, active.Render(label))
		} else {
			parts = append(parts, styles.MutedStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}
