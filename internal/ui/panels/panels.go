// Package panels renders the console's side panel: the agent roster,
// guardrail results, conversation context and runner output, each in a
// collapsible section.
package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/airdesk/internal/conversation"
	"github.com/zjrosen/airdesk/internal/keys"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

// SectionID identifies one collapsible section.
type SectionID int

const (
	SectionAgents SectionID = iota
	SectionGuardrails
	SectionContext
	SectionEvents
	sectionCount
)

func (s SectionID) title() string {
	switch s {
	case SectionAgents:
		return "Available Agents"
	case SectionGuardrails:
		return "Guardrails"
	case SectionContext:
		return "Conversation Context"
	default:
		return "Runner Output"
	}
}

func (s SectionID) toggleKey() key.Binding {
	switch s {
	case SectionAgents:
		return keys.Panel.ToggleAgents
	case SectionGuardrails:
		return keys.Panel.ToggleGuards
	case SectionContext:
		return keys.Panel.ToggleContext
	default:
		return keys.Panel.ToggleEvents
	}
}

// ZoneID is the bubblezone id of a section header.
func ZoneID(s SectionID) string {
	return fmt.Sprintf("panel-section:%d", s)
}

// Options selects which sections are shown at all.
type Options struct {
	ShowAgents  bool
	ShowContext bool
	ShowEvents  bool
}

// Model is the side panel.
type Model struct {
	enabled   [sectionCount]bool
	collapsed [sectionCount]bool
	snap      conversation.Snapshot
	viewport  viewport.Model
	width     int
	height    int
	focused   bool
}

// New creates a panel with every enabled section expanded.
func New(opts Options) Model {
	m := Model{viewport: viewport.New(0, 0)}
	m.enabled[SectionAgents] = opts.ShowAgents
	m.enabled[SectionGuardrails] = opts.ShowAgents
	m.enabled[SectionContext] = opts.ShowContext
	m.enabled[SectionEvents] = opts.ShowEvents
	return m
}

// Empty reports whether no section is enabled; the console then drops the
// panel column.
func (m Model) Empty() bool {
	for _, on := range m.enabled {
		if on {
			return false
		}
	}
	return true
}

// SetSize sets the outer size including the border.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-2, 1)
	m.viewport.Height = max(height-2, 1)
	return m.refresh(false)
}

// SetSnapshot replaces the displayed session state. The view follows new
// runner events when it was already scrolled to the bottom.
func (m Model) SetSnapshot(snap conversation.Snapshot) Model {
	follow := len(snap.Events) > len(m.snap.Events) && m.viewport.AtBottom()
	m.snap = snap
	return m.refresh(follow)
}

// Focus gives the panel keyboard focus.
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused reports whether the panel has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Collapsed reports whether section s is collapsed.
func (m Model) Collapsed(s SectionID) bool {
	return m.collapsed[s]
}

// Toggle collapses or expands section s.
func (m Model) Toggle(s SectionID) Model {
	m.collapsed[s] = !m.collapsed[s]
	return m.refresh(false)
}

// Update handles keys while focused and header clicks at any time.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Panel.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, keys.Panel.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		}
		for s := range sectionCount {
			if m.enabled[s] && key.Matches(msg, s.toggleKey()) {
				return m.Toggle(s), nil
			}
		}

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for s := range sectionCount {
			if z := zone.Get(ZoneID(s)); m.enabled[s] && z != nil && z.InBounds(msg) {
				return m.Toggle(s), nil
			}
		}
	}
	return m, nil
}

// View renders the bordered panel.
func (m Model) View() string {
	if m.Empty() {
		return ""
	}
	return styles.RenderPanel(m.viewport.View(), m.title(), m.width, m.height, m.focused)
}

func (m Model) title() string {
	if m.snap.CurrentAgent == "" {
		return "Agent View"
	}
	return "Agent View · " + m.snap.CurrentAgent
}

func (m Model) refresh(follow bool) Model {
	m.viewport.SetContent(m.content())
	if follow {
		m.viewport.GotoBottom()
	}
	return m
}

func (m Model) content() string {
	width := max(m.width-2, 10)
	var parts []string
	for s := range sectionCount {
		if !m.enabled[s] {
			continue
		}
		body, count := m.body(s, width-2)
		rendered := styles.RenderSection(styles.Section{
			Title:     s.title(),
			Key:       s.toggleKey().Help().Key,
			Count:     count,
			Collapsed: m.collapsed[s],
			Body:      body,
		}, width)

		header, rest, _ := strings.Cut(rendered, "\n")
		header = zone.Mark(ZoneID(s), header)
		if rest != "" {
			header += "\n" + rest
		}
		parts = append(parts, header)
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) body(s SectionID, width int) (string, int) {
	switch s {
	case SectionAgents:
		return RenderAgents(m.snap.Agents, m.snap.CurrentAgent, width), len(m.snap.Agents)
	case SectionGuardrails:
		var inputs []string
		if a, ok := m.snap.CurrentAgentInfo(); ok {
			inputs = a.InputGuardrails
		}
		return RenderGuardrails(GuardrailRows(inputs, m.snap.Guardrails), width), len(inputs)
	case SectionContext:
		return RenderContext(m.snap.Context, width), len(m.snap.Context)
	default:
		return RenderEvents(m.snap.Events, width), len(m.snap.Events)
	}
}
