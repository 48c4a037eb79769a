// Package overlay composites a rendered box on top of an already-rendered
// screen, keeping the ANSI styling of both.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position is the anchor of the foreground box.
type Position int

const (
	Center Position = iota
	Top
	Bottom
	TopRight
)

// Config describes the screen the box is placed on.
type Config struct {
	Width    int
	Height   int
	Position Position
	PadX     int // distance from the right edge, TopRight only
	PadY     int // distance from the top or bottom edge
}

// Place draws fg over bg. Lines of bg outside the box are returned as-is;
// bg is padded with blank lines up to cfg.Height.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	screen := strings.Split(bg, "\n")
	for len(screen) < cfg.Height {
		screen = append(screen, strings.Repeat(" ", cfg.Width))
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))
	for i, line := range fgLines {
		row := y + i
		if row >= len(screen) {
			break
		}
		screen[row] = splice(screen[row], line, x)
	}
	return strings.Join(screen, "\n")
}

// splice replaces the cells of under starting at column x with over.
func splice(under, over string, x int) string {
	left := ansi.Truncate(under, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	end := x + ansi.StringWidth(over)
	var right string
	if end < ansi.StringWidth(under) {
		right = ansi.TruncateLeft(under, end, "")
	}
	return left + over + right
}

func origin(cfg Config, w, h int) (x, y int) {
	x = (cfg.Width - w) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - h - cfg.PadY
	case TopRight:
		x = cfg.Width - w - cfg.PadX
		y = cfg.PadY
	default:
		y = (cfg.Height - h) / 2
	}
	return max(x, 0), max(y, 0)
}
