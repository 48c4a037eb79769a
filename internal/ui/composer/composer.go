// Package composer is the multi-line message input at the bottom of the
// console.
package composer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/airdesk/internal/keys"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

// MaxLength caps a single message, counted in user-perceived characters.
const MaxLength = 2000

const inputHeight = 3

// SubmitMsg carries the trimmed text the user sent.
type SubmitMsg struct {
	Text string
}

// Model wraps a textarea.
type Model struct {
	input textarea.Model
	width int
}

// New creates a focused composer.
func New() Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about seats, flight status, baggage…"
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = keys.Console.Newline
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()
	return Model{input: ta}
}

// SetWidth sets the outer width.
func (m Model) SetWidth(width int) Model {
	m.width = width
	m.input.SetWidth(max(width, 10))
	return m
}

// Height is the number of lines View returns.
func (m Model) Height() int {
	return inputHeight + 1
}

// Focus gives the composer keyboard focus.
func (m Model) Focus() (Model, tea.Cmd) {
	return m, m.input.Focus()
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.input.Blur()
	return m
}

// Focused reports whether the composer has focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Value returns the raw input.
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the input.
func (m Model) SetValue(s string) Model {
	m.input.SetValue(s)
	return m
}

// Length counts grapheme clusters, so an emoji with modifiers counts once.
func (m Model) Length() int {
	return uniseg.GraphemeClusterCount(m.input.Value())
}

// Update sends on enter and forwards everything else to the textarea.
// Blank input and input over MaxLength are not sent.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && m.input.Focused() && key.Matches(k, keys.Console.Send) {
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.Length() > MaxLength {
			return m, nil
		}
		m.input.Reset()
		return m, func() tea.Msg { return SubmitMsg{Text: text} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the input and a hint line with the character count.
func (m Model) View() string {
	count := fmt.Sprintf("%d/%d", m.Length(), MaxLength)
	countStyle := styles.MutedStyle
	if m.Length() > MaxLength {
		countStyle = styles.ErrorStyle
	}

	var hints []string
	for _, b := range keys.Console.ShortHelp() {
		hints = append(hints, b.Help().Key+" "+b.Help().Desc)
	}
	left := styles.MutedStyle.Render(strings.Join(hints, " · "))
	right := countStyle.Render(count)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return m.input.View() + "\n" + left + strings.Repeat(" ", gap) + right
}
