package seatgrid

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/airdesk/internal/conversation"
	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/seatmap"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
	m.Run()
}

type recorder struct{ sent []string }

func (r *recorder) Submit(content string) *conversation.Delivery {
	r.sent = append(r.sent, content)
	return nil
}

func openController(t *testing.T) (*seatmap.Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := seatmap.NewController(seatmap.DefaultLayout(), rec)
	require.True(t, c.Evaluate([]domain.Message{{
		Role: domain.RoleAssistant, Content: domain.SeatMapSentinel, Directive: domain.DirectiveShowSeatSelector,
	}}))
	return c, rec
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

func TestNew_CursorOnFirstAvailable(t *testing.T) {
	c, _ := openController(t)

	// 1A is occupied in the default inventory.
	require.Equal(t, "1B", New(c).Cursor())
}

func TestCursorMovement(t *testing.T) {
	c, _ := openController(t)
	m := New(c)

	m, _ = press(m, "l", "l")
	require.Equal(t, "1D", m.Cursor())
	m, _ = press(m, "l")
	require.Equal(t, "1D", m.Cursor(), "stops at the last column")

	m, _ = press(m, "j", "j", "j", "j")
	require.Equal(t, "5D", m.Cursor(), "keeps the column across sections")

	m, _ = press(m, "l", "l")
	require.Equal(t, "5F", m.Cursor())
	m, _ = press(m, "k")
	require.Equal(t, "4D", m.Cursor(), "clamps to the narrower section")

	m, _ = press(m, "k", "k", "k", "k")
	require.Equal(t, "1D", m.Cursor())
}

func TestPick_Accepted(t *testing.T) {
	c, rec := openController(t)
	m := New(c)

	_, cmd := press(m, "enter")
	require.NotNil(t, cmd)

	require.Equal(t, PickedMsg{Seat: "1B", Accepted: true}, cmd())
	require.Equal(t, []string{"I would like seat 1B"}, rec.sent)
	require.False(t, c.State().Visible)
}

func TestPick_OccupiedRejected(t *testing.T) {
	c, rec := openController(t)
	m := New(c)

	_, cmd := press(m, "h", "enter")

	require.Equal(t, PickedMsg{Seat: "1A", Reason: "Seat 1A is occupied"}, cmd())
	require.Empty(t, rec.sent)
	require.True(t, c.State().Visible)
}

func TestPick_ClosedOverlayRejected(t *testing.T) {
	c := seatmap.NewController(seatmap.DefaultLayout(), nil)
	_, cmd := press(New(c), "enter")

	require.Equal(t, PickedMsg{Seat: "1B", Reason: "Seat selection is closed"}, cmd())
}

func TestView(t *testing.T) {
	c, _ := openController(t)
	view := ansi.Strip(zone.Scan(New(c).View()))

	require.Contains(t, view, "Select a seat")
	require.Contains(t, view, "Business")
	require.Contains(t, view, "Economy Plus")
	require.Contains(t, view, "[×]")
	require.Contains(t, view, ">B<")
	require.Contains(t, view, "EXIT")
	require.Contains(t, view, "Seat 1B")

	var row16 string
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, " 16 ") {
			row16 = line
		}
	}
	require.Contains(t, row16, "[×][B][C]  [D][E][×] EXIT")
}

func TestClickPicksSeat(t *testing.T) {
	c, rec := openController(t)
	m := New(c)

	var z *zone.ZoneInfo
	for range 10 {
		_ = zone.Scan(m.View())
		if z = zone.Get(ZoneID("12C")); z != nil && !z.IsZero() {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	m, cmd := m.Update(tea.MouseMsg{X: z.StartX + 1, Y: z.StartY, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	require.NotNil(t, cmd)
	require.Equal(t, PickedMsg{Seat: "12C", Accepted: true}, cmd())
	require.Equal(t, "12C", m.Cursor())
	require.Equal(t, []string{"I would like seat 12C"}, rec.sent)
}
