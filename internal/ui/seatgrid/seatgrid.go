// Package seatgrid draws the seat selection overlay and turns cursor keys
// and clicks into picks on a seatmap.Controller.
package seatgrid

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/airdesk/internal/keys"
	"github.com/zjrosen/airdesk/internal/seatmap"
	"github.com/zjrosen/airdesk/internal/ui/styles"
)

const zonePrefix = "seat:"

// ZoneID is the bubblezone id of a seat cell.
func ZoneID(designator string) string {
	return zonePrefix + designator
}

// Picker is the part of seatmap.Controller the grid drives.
type Picker interface {
	Layout() seatmap.Layout
	Status(designator string) seatmap.Status
	Pick(designator string) bool
}

// PickedMsg reports the outcome of a pick attempt.
type PickedMsg struct {
	Seat     string
	Accepted bool
	// Reason is set when the pick was rejected.
	Reason string
}

// Model is the seat grid.
type Model struct {
	picker Picker
	rows   []int
	cursor seatmap.Seat
}

// New creates a grid with the cursor on the first available seat.
func New(picker Picker) Model {
	m := Model{picker: picker}
	for _, s := range picker.Layout().Sections {
		for r := s.FirstRow; r <= s.LastRow; r++ {
			m.rows = append(m.rows, r)
		}
	}
	seats := picker.Layout().Seats()
	if len(seats) > 0 {
		m.cursor = seats[0]
	}
	for _, s := range seats {
		if picker.Status(s.String()) == seatmap.StatusAvailable {
			m.cursor = s
			break
		}
	}
	return m
}

// Cursor returns the seat under the cursor.
func (m Model) Cursor() string {
	return m.cursor.String()
}

// Update moves the cursor and picks seats.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.SeatGrid.Up):
			m.moveRow(-1)
		case key.Matches(msg, keys.SeatGrid.Down):
			m.moveRow(1)
		case key.Matches(msg, keys.SeatGrid.Left):
			m.moveColumn(-1)
		case key.Matches(msg, keys.SeatGrid.Right):
			m.moveColumn(1)
		case key.Matches(msg, keys.SeatGrid.Pick):
			return m, m.pick(m.cursor.String())
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for _, s := range m.picker.Layout().Seats() {
			if z := zone.Get(ZoneID(s.String())); z != nil && z.InBounds(msg) {
				m.cursor = s
				return m, m.pick(s.String())
			}
		}
	}
	return m, nil
}

func (m Model) pick(designator string) tea.Cmd {
	status := m.picker.Status(designator)
	accepted := status == seatmap.StatusAvailable && m.picker.Pick(designator)
	res := PickedMsg{Seat: designator, Accepted: accepted}
	switch {
	case accepted:
	case status != seatmap.StatusAvailable:
		res.Reason = fmt.Sprintf("Seat %s is %s", designator, status)
	default:
		res.Reason = "Seat selection is closed"
	}
	return func() tea.Msg { return res }
}

func (m *Model) moveRow(delta int) {
	i := slices.Index(m.rows, m.cursor.Row)
	next := i + delta
	if i < 0 || next < 0 || next >= len(m.rows) {
		return
	}
	from, _ := m.picker.Layout().Section(m.cursor.Row)
	to, _ := m.picker.Layout().Section(m.rows[next])

	col := m.cursor.Column
	if !slices.Contains(to.Columns, col) {
		idx := slices.Index(from.Columns, col)
		col = to.Columns[min(max(idx, 0), len(to.Columns)-1)]
	}
	m.cursor = seatmap.Seat{Row: m.rows[next], Column: col}
}

func (m *Model) moveColumn(delta int) {
	sec, ok := m.picker.Layout().Section(m.cursor.Row)
	if !ok {
		return
	}
	next := slices.Index(sec.Columns, m.cursor.Column) + delta
	if next < 0 || next >= len(sec.Columns) {
		return
	}
	m.cursor.Column = sec.Columns[next]
}

// View renders the grid inside a bordered box, one block per cabin class.
func (m Model) View() string {
	layout := m.picker.Layout()
	var blocks []string
	for _, sec := range layout.Sections {
		lines := []string{styles.SectionTitleStyle.Render(string(sec.Class))}
		lines = append(lines, m.header(sec))
		for r := sec.FirstRow; r <= sec.LastRow; r++ {
			lines = append(lines, m.row(sec, r, layout.IsExitRow(r)))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	title := styles.SectionTitleStyle.Render("Select a seat")
	body := strings.Join([]string{
		title,
		legend(),
		"",
		strings.Join(blocks, "\n\n"),
		"",
		m.footer(),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(0, 1).
		Render(body)
}

func (m Model) header(sec seatmap.Section) string {
	var b strings.Builder
	b.WriteString("    ")
	for i, col := range sec.Columns {
		if i == sec.Aisle {
			b.WriteString("  ")
		}
		b.WriteString(" " + col + " ")
	}
	return styles.MutedStyle.Render(b.String())
}

func (m Model) row(sec seatmap.Section, row int, exit bool) string {
	label := fmt.Sprintf("%3s ", strconv.Itoa(row))
	var b strings.Builder
	b.WriteString(styles.MutedStyle.Render(label))
	for i, col := range sec.Columns {
		if i == sec.Aisle {
			b.WriteString("  ")
		}
		seat := seatmap.Seat{Row: row, Column: col}
		b.WriteString(zone.Mark(ZoneID(seat.String()), m.cell(seat, exit)))
	}
	if exit {
		b.WriteString(" " + lipgloss.NewStyle().Foreground(styles.SeatExitRowColor).Render("EXIT"))
	}
	return b.String()
}

func (m Model) cell(seat seatmap.Seat, exit bool) string {
	d := seat.String()
	glyph := "[" + seat.Column + "]"

	var style lipgloss.Style
	switch m.picker.Status(d) {
	case seatmap.StatusOccupied:
		style = styles.SeatOccupiedStyle
		glyph = "[×]"
	case seatmap.StatusSelected:
		style = styles.SeatSelectedStyle
	default:
		style = styles.SeatAvailableStyle
		if exit {
			style = lipgloss.NewStyle().Foreground(styles.SeatExitRowColor)
		}
	}
	if seat == m.cursor {
		style = styles.SeatCursorStyle
		glyph = ">" + seat.Column + "<"
	}
	return style.Render(glyph)
}

func legend() string {
	return strings.Join([]string{
		styles.SeatAvailableStyle.Render("[A]") + " available",
		styles.SeatOccupiedStyle.Render("[×]") + " occupied",
		lipgloss.NewStyle().Foreground(styles.SeatExitRowColor).Render("[A]") + " exit row",
	}, "   ")
}

func (m Model) footer() string {
	hints := make([]string, 0, len(keys.SeatGrid.ShortHelp()))
	for _, b := range keys.SeatGrid.ShortHelp() {
		hints = append(hints, b.Help().Key+" "+b.Help().Desc)
	}
	seat := m.cursor.String()
	info := "Seat " + seat
	if m.picker.Layout().IsExitRow(m.cursor.Row) {
		info += " (Exit Row)"
	}
	if m.picker.Status(seat) == seatmap.StatusOccupied {
		info += " - Occupied"
	}
	return styles.MutedStyle.Render(info + "  ·  " + strings.Join(hints, "  "))
}
