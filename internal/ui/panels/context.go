package panels

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/airdesk/internal/ui/styles"
)

// knownContextKeys are shown first, in booking order; anything else the
// backend adds follows alphabetically.
var knownContextKeys = []string{
	"passenger_name",
	"confirmation_number",
	"seat_number",
	"flight_number",
	"account_number",
}

// ContextKeys returns the keys of ctx in display order.
func ContextKeys(ctx map[string]any) []string {
	keys := make([]string, 0, len(ctx))
	for _, k := range knownContextKeys {
		if _, ok := ctx[k]; ok {
			keys = append(keys, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(ctx)) {
		if !slices.Contains(knownContextKeys, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// FormatValue renders a context value; nil and "" are shown as null.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		if v == "" {
			return "null"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

// RenderContext draws "key: value" lines.
func RenderContext(ctx map[string]any, width int) string {
	if len(ctx) == 0 {
		return styles.MutedStyle.Render("No context yet")
	}

	key := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor)
	value := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	null := styles.MutedStyle.Italic(true)

	lines := make([]string, 0, len(ctx))
	for _, k := range ContextKeys(ctx) {
		v := FormatValue(ctx[k])
		style := value
		if v == "null" {
			style = null
		}
		label := k + ": "
		lines = append(lines, key.Render(label)+style.Render(styles.TruncatePlain(v, max(width-len(label), 1))))
	}
	return strings.Join(lines, "\n")
}
