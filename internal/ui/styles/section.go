package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	expandedMarker  = "▾"
	collapsedMarker = "▸"
)

// Section is one collapsible block inside a side panel.
type Section struct {
	Title     string
	Key       string // toggle key shown as a hint, e.g. "1"
	Count     int    // shown after the title when > 0
	Collapsed bool
	Body      string
}

// RenderSection renders the header line and, unless collapsed, the body:
//
//	▾ Guardrails (2)                [1]
//	  body...
func RenderSection(s Section, width int) string {
	marker := expandedMarker
	if s.Collapsed {
		marker = collapsedMarker
	}

	title := marker + " " + s.Title
	if s.Count > 0 {
		title += fmt.Sprintf(" (%d)", s.Count)
	}
	header := SectionTitleStyle.Render(title)
	if s.Key != "" {
		hint := MutedStyle.Render("[" + s.Key + "]")
		gap := width - lipgloss.Width(header) - lipgloss.Width(hint)
		if gap >= 1 {
			header += strings.Repeat(" ", gap) + hint
		}
	}

	if s.Collapsed || s.Body == "" {
		return header
	}

	lines := strings.Split(s.Body, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return header + "\n" + strings.Join(lines, "\n")
}
