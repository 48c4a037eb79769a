package panels

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

// EventLabel turns an event type into its heading, e.g. "tool_call" into
// "Tool call".
func EventLabel(t domain.EventType) string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ReplaceAll(s[1:], "_", " ")
}

func eventIcon(t domain.EventType) (string, lipgloss.AdaptiveColor) {
	switch t {
	case domain.EventHandoff:
		return "⇄", styles.EventHandoffColor
	case domain.EventToolCall, domain.EventToolOutput:
		return "⚙", styles.EventToolColor
	case domain.EventContextUpdate:
		return "↻", styles.EventContextColor
	default:
		return "✉", styles.EventMessageColor
	}
}

// EventDetails returns the per-type detail lines of e, unstyled.
func EventDetails(e domain.AgentEvent) []string {
	md := e.Metadata
	if md == nil {
		return nil
	}

	switch e.Type {
	case domain.EventHandoff:
		return []string{"From: " + md.SourceAgent, "To:   " + md.TargetAgent}
	case domain.EventToolCall:
		if len(md.ToolArgs) == 0 {
			return nil
		}
		return append([]string{"Arguments"}, prettyJSON(md.ToolArgs)...)
	case domain.EventToolOutput:
		if md.ToolResult == nil {
			return nil
		}
		return append([]string{"Result"}, prettyJSON(md.ToolResult)...)
	case domain.EventContextUpdate:
		if len(md.Changes) == 0 {
			if md.ContextKey == "" {
				return nil
			}
			return []string{md.ContextKey + ": " + FormatValue(md.ContextValue)}
		}
		lines := make([]string, 0, len(md.Changes))
		for _, k := range ContextKeys(md.Changes) {
			lines = append(lines, k+": "+FormatValue(md.Changes[k]))
		}
		return lines
	}
	return nil
}

func prettyJSON(v any) []string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return []string{fmt.Sprint(v)}
	}
	return strings.Split(string(b), "\n")
}

// RenderEvents draws the runner output feed, oldest first.
func RenderEvents(events []domain.AgentEvent, width int) string {
	if len(events) == 0 {
		return styles.MutedStyle.Render("No runner events yet")
	}

	agent := styles.AgentLabelStyle
	detail := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)

	blocks := make([]string, 0, len(events))
	for _, e := range events {
		stamp := styles.MutedStyle.Render(e.Timestamp.Local().Format("15:04:05"))
		name := agent.Render(styles.TruncatePlain(e.Agent, max(width-lipgloss.Width(stamp)-1, 1)))
		gap := max(width-lipgloss.Width(name)-lipgloss.Width(stamp), 1)

		icon, color := eventIcon(e.Type)
		lines := []string{
			name + strings.Repeat(" ", gap) + stamp,
			lipgloss.NewStyle().Foreground(color).Render(icon + " " + EventLabel(e.Type)),
		}
		if e.Content != "" {
			lines = append(lines, styles.Wrap(e.Content, width))
		}
		for _, d := range EventDetails(e) {
			lines = append(lines, detail.Render("  "+styles.TruncatePlain(d, max(width-2, 1))))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
