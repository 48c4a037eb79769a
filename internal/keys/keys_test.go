package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestKeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"send", Console.Send, []string{"enter"}},
		{"logs overlay", Console.Logs, []string{"ctrl+x"}},
		{"quit", Console.Quit, []string{"ctrl+c"}},
		{"retry bootstrap", Console.Retry, []string{"ctrl+r"}},
		{"panel focus", Console.FocusPanel, []string{"tab"}},
		{"toggle agents", Panel.ToggleAgents, []string{"1"}},
		{"toggle runner output", Panel.ToggleEvents, []string{"4"}},
		{"pick seat", SeatGrid.Pick, []string{"enter", " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestBindings_HaveHelp(t *testing.T) {
	var all []key.Binding
	all = append(all, Console.ShortHelp()...)
	all = append(all, Panel.ShortHelp()...)
	all = append(all, SeatGrid.ShortHelp()...)
	for _, group := range Console.FullHelp() {
		all = append(all, group...)
	}
	for _, b := range all {
		require.NotEmpty(t, b.Help().Key)
		require.NotEmpty(t, b.Help().Desc)
	}
}

func TestSeatGrid_MatchesArrowsAndVimKeys(t *testing.T) {
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyUp}, SeatGrid.Up))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}, SeatGrid.Up))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, SeatGrid.Pick))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, SeatGrid.Pick))
}

func TestConsole_RetryMatchesCtrlR(t *testing.T) {
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlR}, Console.Retry))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}, Console.Retry))
}
