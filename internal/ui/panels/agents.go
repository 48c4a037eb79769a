package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

// AgentState is how an agent is drawn relative to the active one.
type AgentState int

const (
	AgentDimmed AgentState = iota
	AgentReachable
	AgentActive
)

// ClassifyAgent reports whether a is the active agent, one it may hand off
// to, or out of reach this turn.
func ClassifyAgent(a domain.Agent, current string, roster []domain.Agent) AgentState {
	if a.Name == current {
		return AgentActive
	}
	if active, ok := domain.FindAgent(roster, current); ok && active.CanHandoffTo(a.Name) {
		return AgentReachable
	}
	return AgentDimmed
}

// RenderAgents draws the roster, one name line and a wrapped description
// per agent.
func RenderAgents(roster []domain.Agent, current string, width int) string {
	if len(roster) == 0 {
		return styles.MutedStyle.Render("No agents yet")
	}

	blocks := make([]string, 0, len(roster))
	for _, a := range roster {
		state := ClassifyAgent(a, current, roster)

		var name, desc lipgloss.Style
		switch state {
		case AgentActive:
			name = lipgloss.NewStyle().Foreground(styles.AgentActiveColor).Bold(true)
			desc = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
		case AgentReachable:
			name = lipgloss.NewStyle().Foreground(styles.AgentHandoffColor)
			desc = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
		default:
			name = lipgloss.NewStyle().Foreground(styles.AgentDimmedColor)
			desc = name
		}

		header := name.Render(styles.TruncatePlain(a.Name, width))
		if state == AgentActive {
			header += " " + lipgloss.NewStyle().Foreground(styles.AgentActiveColor).Render("● Active")
		}
		lines := []string{header}
		if a.Description != "" {
			lines = append(lines, desc.Render(styles.Wrap(a.Description, width)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n")
}
