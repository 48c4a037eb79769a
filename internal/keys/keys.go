// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// ConsoleKeys are active while the composer has focus.
type ConsoleKeys struct {
	Send       key.Binding
	Newline    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	FocusPanel key.Binding
	Logs       key.Binding
	Retry      key.Binding
	Quit       key.Binding
}

// PanelKeys are active while the side panel has focus.
type PanelKeys struct {
	Up            key.Binding
	Down          key.Binding
	ToggleAgents  key.Binding
	ToggleGuards  key.Binding
	ToggleContext key.Binding
	ToggleEvents  key.Binding
	FocusComposer key.Binding
}

// SeatGridKeys drive the seat selection overlay.
type SeatGridKeys struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Pick  key.Binding
}

// Console is the global composer keymap.
var Console = ConsoleKeys{
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	Newline: key.NewBinding(
		key.WithKeys("alt+enter", "ctrl+j"),
		key.WithHelp("alt+enter", "newline"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "scroll down"),
	),
	FocusPanel: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "panels"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "logs"),
	),
	// Retry only acts while the session has not been bootstrapped.
	Retry: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "retry"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// Panel is the side panel keymap.
var Panel = PanelKeys{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll down"),
	),
	ToggleAgents: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "agents"),
	),
	ToggleGuards: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "guardrails"),
	),
	ToggleContext: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "context"),
	),
	ToggleEvents: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "runner output"),
	),
	FocusComposer: key.NewBinding(
		key.WithKeys("tab", "esc"),
		key.WithHelp("tab/esc", "back to chat"),
	),
}

// SeatGrid is the seat overlay keymap.
var SeatGrid = SeatGridKeys{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "row up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "row down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "seat left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "seat right"),
	),
	Pick: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "pick seat"),
	),
}

// ShortHelp returns the status bar hints for the composer.
func (k ConsoleKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Newline, k.FocusPanel, k.Logs, k.Quit}
}

// FullHelp returns the composer bindings grouped by purpose.
func (k ConsoleKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Newline},
		{k.ScrollUp, k.ScrollDown, k.FocusPanel},
		{k.Logs, k.Retry, k.Quit},
	}
}

// ShortHelp returns the status bar hints for the side panel.
func (k PanelKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleAgents, k.ToggleGuards, k.ToggleContext, k.ToggleEvents, k.FocusComposer}
}

// ShortHelp returns the hints drawn under the seat grid.
func (k SeatGridKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Pick}
}
