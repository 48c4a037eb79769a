package panels

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

var guardrailTitles = map[string]string{
	"relevance_guardrail": "Relevance Guardrail",
	"jailbreak_guardrail": "Jailbreak Guardrail",
}

var guardrailDescriptions = map[string]string{
	"Relevance Guardrail": "Ensure messages are relevant to airline support",
	"Jailbreak Guardrail": "Detect and block attempts to bypass or override system instructions",
}

// GuardrailTitle maps a backend guardrail id to its display title.
func GuardrailTitle(raw string) string {
	if title, ok := guardrailTitles[raw]; ok {
		return title
	}
	return raw
}

// GuardrailRow is one line of the guardrail panel.
type GuardrailRow struct {
	Title       string
	Description string
	Passed      bool
	// Evaluated is false when the guardrail produced no result this turn.
	Evaluated bool
}

// GuardrailRows lists the active agent's input guardrails with their most
// recent results. A guardrail with no result or no input counts as passed.
func GuardrailRows(inputGuardrails []string, checks []domain.GuardrailCheck) []GuardrailRow {
	rows := make([]GuardrailRow, 0, len(inputGuardrails))
	for _, raw := range inputGuardrails {
		var check domain.GuardrailCheck
		for _, c := range checks {
			if c.Name == raw {
				check = c
				break
			}
		}

		title := GuardrailTitle(raw)
		desc, ok := guardrailDescriptions[title]
		if !ok {
			desc = check.Input
		}
		rows = append(rows, GuardrailRow{
			Title:       title,
			Description: desc,
			Passed:      check.Input == "" || check.Passed,
			Evaluated:   check.Input != "",
		})
	}
	return rows
}

// RenderGuardrails draws the rows with a Passed/Failed badge each.
func RenderGuardrails(rows []GuardrailRow, width int) string {
	if len(rows) == 0 {
		return styles.MutedStyle.Render("No guardrails for this agent")
	}

	passed := lipgloss.NewStyle().Foreground(styles.GuardrailPassedColor).Bold(true)
	failed := lipgloss.NewStyle().Foreground(styles.GuardrailFailedColor).Bold(true)

	blocks := make([]string, 0, len(rows))
	for _, r := range rows {
		badge := passed.Render("✓ Passed")
		if !r.Passed {
			badge = failed.Render("✗ Failed")
		}
		title := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
		if !r.Evaluated {
			title = styles.MutedStyle
		}
		header := title.Render(styles.TruncatePlain(r.Title, max(width-lipgloss.Width(badge)-1, 1))) + " " + badge

		block := header
		if r.Description != "" {
			block += "\n" + styles.MutedStyle.Render(styles.Wrap(r.Description, width))
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n")
}
