package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderPanel draws content inside a rounded border with the title embedded
// in the top edge: ╭─ Title ─────╮. Content is clipped to the inner area
// and padded so the right border lines up.
func RenderPanel(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(SectionTitleColor).Bold(true)

	innerWidth := max(width-2, 1)
	innerHeight := max(height-2, 1)

	lines := strings.Split(content, "\n")
	body := make([]string, innerHeight)
	for i := range innerHeight {
		var line string
		if i < len(lines) {
			line = TruncateString(lines[i], innerWidth)
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		body[i] = borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical)
	}

	var b strings.Builder
	b.WriteString(topBorder(title, innerWidth, borderStyle, titleStyle))
	b.WriteString("\n")
	b.WriteString(strings.Join(body, "\n"))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

func topBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	plain := borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	// "─ " before and " ─" after the title
	if title == "" || innerWidth < 4 {
		return plain
	}

	display := TruncateString(title, innerWidth-4)
	remaining := max(innerWidth-3-lipgloss.Width(display), 0)
	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(display) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, remaining)+borderTopRight)
}
