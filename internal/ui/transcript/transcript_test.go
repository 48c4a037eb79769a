package transcript

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/airdesk/internal/domain"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

type upperRenderer struct{ calls []string }

func (r *upperRenderer) Render(id, text string, _ int) string {
	r.calls = append(r.calls, id)
	return strings.ToUpper(text)
}

var history = []domain.Message{
	{ID: "u1", Role: domain.RoleUser, Content: "I want to change my seat"},
	{ID: "a1", Role: domain.RoleAssistant, Agent: "Seat Booking Agent", Content: "Sure, pick one."},
	{ID: "a2", Role: domain.RoleAssistant, Agent: "Seat Booking Agent", Content: domain.SeatMapSentinel, Directive: domain.DirectiveShowSeatSelector},
}

func TestRender_SkipsDirectiveMessages(t *testing.T) {
	r := &upperRenderer{}

	out := ansi.Strip(Render(history, 40, r))

	require.Equal(t, "You\nI want to change my seat\n\nSeat Booking Agent\nSURE, PICK ONE.", out)
	require.Equal(t, []string{"a1"}, r.calls)
	require.NotContains(t, out, domain.SeatMapSentinel)
}

func TestRender_HidesSentinelTypedByUser(t *testing.T) {
	msgs := []domain.Message{
		{ID: "u1", Role: domain.RoleUser, Content: domain.SeatMapSentinel, Origin: domain.OriginLocal},
		{ID: "u2", Role: domain.RoleUser, Content: "window please"},
	}

	out := ansi.Strip(Render(msgs, 40, nil))

	require.NotContains(t, out, domain.SeatMapSentinel)
	require.Equal(t, "You\nwindow please", out)
}

func TestRender_NilRendererAndMissingAgent(t *testing.T) {
	out := ansi.Strip(Render([]domain.Message{{Role: domain.RoleAssistant, Content: "hello there"}}, 40, nil))

	require.Equal(t, "Assistant\nhello there", out)
}

func TestModel_EmptyPlaceholder(t *testing.T) {
	m := New(nil).SetSize(60, 10)

	require.Contains(t, ansi.Strip(m.View()), "Say hello to start the conversation.")
}

func TestModel_PendingStartsSpinnerOnce(t *testing.T) {
	m := New(nil).SetSize(60, 10)

	m, cmd := m.SetMessages(history[:1], true)
	require.NotNil(t, cmd)
	require.True(t, m.Pending())
	require.Contains(t, ansi.Strip(m.View()), "Waiting for the agents")

	m, cmd = m.SetMessages(history[:1], true)
	require.Nil(t, cmd, "already spinning")

	m, cmd = m.SetMessages(history[:2], false)
	require.Nil(t, cmd)
	require.NotContains(t, ansi.Strip(m.View()), "Waiting for the agents")

	_, cmd = m.Update(spinner.TickMsg{})
	require.Nil(t, cmd, "ticks stop once idle")
}

func TestModel_FollowsNewMessages(t *testing.T) {
	var long []domain.Message
	for i := range 30 {
		long = append(long, domain.Message{ID: string(rune('a' + i)), Role: domain.RoleAssistant, Agent: "Triage Agent", Content: "line"})
	}
	long = append(long, domain.Message{Role: domain.RoleUser, Content: "latest question"})

	m := New(nil).SetSize(60, 10)
	m, _ = m.SetMessages(long, false)

	require.Contains(t, ansi.Strip(m.View()), "latest question")
}

func TestModel_ScrollKeys(t *testing.T) {
	var long []domain.Message
	for range 30 {
		long = append(long, domain.Message{Role: domain.RoleUser, Content: "hello"})
	}
	m := New(nil).SetSize(60, 10)
	m, _ = m.SetMessages(long, false)
	require.True(t, m.viewport.AtBottom())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})

	require.False(t, m.viewport.AtBottom())
}
