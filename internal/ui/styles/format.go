package styles

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// TruncateString truncates s to fit within maxWidth cells, adding an
// ellipsis when it had to cut. ANSI sequences are preserved.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// TruncatePlain truncates unstyled text by display width, counting wide
// runes (CJK, emoji) as two cells.
func TruncatePlain(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// Wrap word-wraps s to width, keeping existing line breaks.
func Wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	return wordwrap.String(s, width)
}
